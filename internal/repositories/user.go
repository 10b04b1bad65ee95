package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/registration-bot/registration-api/internal/logger"
	"github.com/registration-bot/registration-api/internal/models"
)

// ErrDuplicateKey is returned by Save when the unique email index rejects
// the insert.
var ErrDuplicateKey = errors.New("email already exists")

// EnsureIndexes creates the unique index on email. The index closes the gap
// between the existence check and the insert: two concurrent registrations
// with the same email cannot both land.
func EnsureIndexes(ctx context.Context, col *mongo.Collection) error {
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type UserReadRepository struct {
	col *mongo.Collection
}

func NewUserReadRepository(col *mongo.Collection) *UserReadRepository {
	return &UserReadRepository{col: col}
}

// FindByEmail returns the user with the given email, or nil if none exists.
func (r *UserReadRepository) FindByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	var user models.UserDB
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)

	logger.Log.Infow("find user",
		"email", email,
		"found", err == nil,
		"error", err,
	)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

type UserWriteRepository struct {
	col *mongo.Collection
}

func NewUserWriteRepository(col *mongo.Collection) *UserWriteRepository {
	return &UserWriteRepository{col: col}
}

// Save inserts a new user document with the current UTC time as created_at.
func (r *UserWriteRepository) Save(ctx context.Context, name, email, passwordHash string) error {
	user := models.UserDB{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	res, err := r.col.InsertOne(ctx, user)

	var insertedID any
	if res != nil {
		insertedID = res.InsertedID
	}
	logger.Log.Infow("insert user",
		"email", email,
		"inserted_id", insertedID,
		"error", err,
	)

	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}
