package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/registration-bot/registration-api/internal/models"
	"github.com/registration-bot/registration-api/internal/password"
	"github.com/registration-bot/registration-api/internal/repositories"
	"github.com/registration-bot/registration-api/internal/services"
)

func TestRegisterService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name        string
		email       string
		mockSetup   func(r *services.MockUserReader, w *services.MockUserWriter, f *services.MockMessageFetcher)
		wantMessage string
		wantErr     error
	}{
		{
			name:  "successful registration",
			email: "alice@example.com",
			mockSetup: func(r *services.MockUserReader, w *services.MockUserWriter, f *services.MockMessageFetcher) {
				r.EXPECT().FindByEmail(gomock.Any(), "alice@example.com").Return(nil, nil)
				w.EXPECT().Save(gomock.Any(), "Alice", "alice@example.com", gomock.Any()).Return(nil)
				f.EXPECT().GetRandomMessage(gomock.Any()).Return("You can do it!", nil)
			},
			wantMessage: "You can do it!",
		},
		{
			name:  "user already exists",
			email: "bob@example.com",
			mockSetup: func(r *services.MockUserReader, w *services.MockUserWriter, f *services.MockMessageFetcher) {
				r.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").
					Return(&models.UserDB{Email: "bob@example.com"}, nil)
				// No save, no enrichment for a rejected registration.
			},
			wantErr: services.ErrUserAlreadyExists,
		},
		{
			name:  "duplicate caught by unique index",
			email: "carol@example.com",
			mockSetup: func(r *services.MockUserReader, w *services.MockUserWriter, f *services.MockMessageFetcher) {
				r.EXPECT().FindByEmail(gomock.Any(), "carol@example.com").Return(nil, nil)
				w.EXPECT().Save(gomock.Any(), "Alice", "carol@example.com", gomock.Any()).
					Return(repositories.ErrDuplicateKey)
			},
			wantErr: services.ErrUserAlreadyExists,
		},
		{
			name:  "find error is swallowed, registration degrades",
			email: "dave@example.com",
			mockSetup: func(r *services.MockUserReader, w *services.MockUserWriter, f *services.MockMessageFetcher) {
				r.EXPECT().FindByEmail(gomock.Any(), "dave@example.com").
					Return(nil, errors.New("connection lost"))
				f.EXPECT().GetRandomMessage(gomock.Any()).Return("Welcome!", nil)
			},
			wantMessage: "Welcome!",
		},
		{
			name:  "save error is swallowed, registration degrades",
			email: "eve@example.com",
			mockSetup: func(r *services.MockUserReader, w *services.MockUserWriter, f *services.MockMessageFetcher) {
				r.EXPECT().FindByEmail(gomock.Any(), "eve@example.com").Return(nil, nil)
				w.EXPECT().Save(gomock.Any(), "Alice", "eve@example.com", gomock.Any()).
					Return(errors.New("write failed"))
				f.EXPECT().GetRandomMessage(gomock.Any()).Return("Welcome!", nil)
			},
			wantMessage: "Welcome!",
		},
		{
			name:  "enrichment failure substitutes the fallback message",
			email: "frank@example.com",
			mockSetup: func(r *services.MockUserReader, w *services.MockUserWriter, f *services.MockMessageFetcher) {
				r.EXPECT().FindByEmail(gomock.Any(), "frank@example.com").Return(nil, nil)
				w.EXPECT().Save(gomock.Any(), "Alice", "frank@example.com", gomock.Any()).Return(nil)
				f.EXPECT().GetRandomMessage(gomock.Any()).Return("", errors.New("timeout"))
			},
			wantMessage: services.FallbackMessage,
		},
		{
			name:  "empty quote on success stays empty",
			email: "grace@example.com",
			mockSetup: func(r *services.MockUserReader, w *services.MockUserWriter, f *services.MockMessageFetcher) {
				r.EXPECT().FindByEmail(gomock.Any(), "grace@example.com").Return(nil, nil)
				w.EXPECT().Save(gomock.Any(), "Alice", "grace@example.com", gomock.Any()).Return(nil)
				f.EXPECT().GetRandomMessage(gomock.Any()).Return("", nil)
			},
			wantMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			mockFetcher := services.NewMockMessageFetcher(ctrl)
			tt.mockSetup(mockReader, mockWriter, mockFetcher)

			svc := services.NewRegisterService(mockReader, mockWriter, mockFetcher)

			message, err := svc.Register(context.Background(), "Alice", tt.email, "secret123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantMessage, message)
			}
		})
	}
}

func TestRegisterService_Register_StoresHashedPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockFetcher := services.NewMockMessageFetcher(ctrl)

	var storedHash string
	mockReader.EXPECT().FindByEmail(gomock.Any(), "alice@example.com").Return(nil, nil)
	mockWriter.EXPECT().Save(gomock.Any(), "Alice", "alice@example.com", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, hash string) error {
			storedHash = hash
			return nil
		})
	mockFetcher.EXPECT().GetRandomMessage(gomock.Any()).Return("hi", nil)

	svc := services.NewRegisterService(mockReader, mockWriter, mockFetcher)

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret123")
	assert.NoError(t, err)

	assert.NotEqual(t, "secret123", storedHash)
	assert.True(t, password.Verify("secret123", storedHash))
}

func TestRegisterService_Register_WithoutDatastore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFetcher := services.NewMockMessageFetcher(ctrl)
	mockFetcher.EXPECT().GetRandomMessage(gomock.Any()).Return("Welcome!", nil).Times(2)

	svc := services.NewRegisterService(nil, nil, mockFetcher)

	// Without a datastore every registration succeeds, repeated email included.
	for i := 0; i < 2; i++ {
		message, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret123")
		assert.NoError(t, err)
		assert.Equal(t, "Welcome!", message)
	}
}
