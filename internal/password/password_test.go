package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerify(t *testing.T) {
	tests := []struct {
		name  string
		plain string
	}{
		{name: "simple password", plain: "secret123"},
		{name: "with spaces and symbols", plain: "p@ss word!#$"},
		{name: "unicode password", plain: "סיסמה-חזקה-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := Hash(tt.plain)
			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.plain, hash)

			assert.True(t, Verify(tt.plain, hash))
			assert.False(t, Verify(tt.plain+"x", hash))
		})
	}
}

func TestHash_DifferentSaltsPerCall(t *testing.T) {
	plain := "same-password"

	h1, err := Hash(plain)
	assert.NoError(t, err)
	h2, err := Hash(plain)
	assert.NoError(t, err)

	// Per-call salts make the outputs differ, but both still verify.
	assert.NotEqual(t, h1, h2)
	assert.True(t, Verify(plain, h1))
	assert.True(t, Verify(plain, h2))
}

func TestVerify_WrongPassword(t *testing.T) {
	hash, err := Hash("correct")
	assert.NoError(t, err)

	assert.False(t, Verify("incorrect", hash))
	assert.False(t, Verify("", hash))
	assert.False(t, Verify("correct", "not-a-bcrypt-hash"))
}
