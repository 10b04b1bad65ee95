package services

import (
	"context"
	"errors"

	"github.com/registration-bot/registration-api/internal/logger"
	"github.com/registration-bot/registration-api/internal/models"
	"github.com/registration-bot/registration-api/internal/password"
	"github.com/registration-bot/registration-api/internal/repositories"
)

// ErrUserAlreadyExists is the only registration failure visible to clients.
var ErrUserAlreadyExists = errors.New("user already exists")

// FallbackMessage is returned as the motivational message when the message
// service cannot be reached.
const FallbackMessage = "ברוך הבא! (לא ניתן היה להביא הודעת השראה)"

// UserReader defines read-only operations for users.
type UserReader interface {
	FindByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, name, email, passwordHash string) error
}

// MessageFetcher fetches a motivational message from the external service.
type MessageFetcher interface {
	GetRandomMessage(ctx context.Context) (string, error)
}

// RegisterService handles user registration. The reader and writer may both
// be nil when no datastore connection was established at startup; the service
// then runs in degraded mode and accepts every registration without a
// duplicate check.
type RegisterService struct {
	reader  UserReader
	writer  UserWriter
	fetcher MessageFetcher
}

// NewRegisterService creates a new RegisterService instance.
func NewRegisterService(reader UserReader, writer UserWriter, fetcher MessageFetcher) *RegisterService {
	return &RegisterService{
		reader:  reader,
		writer:  writer,
		fetcher: fetcher,
	}
}

// Register registers a new user and returns the motivational message for the
// response. Registration availability wins over strict consistency: apart
// from a detected duplicate, persistence failures are logged and the
// registration still succeeds.
func (svc *RegisterService) Register(ctx context.Context, name, email, plain string) (string, error) {
	if svc.reader != nil && svc.writer != nil {
		if err := svc.persist(ctx, name, email, plain); err != nil {
			if errors.Is(err, ErrUserAlreadyExists) {
				return "", err
			}
			logger.Log.Errorw("database error, continuing without persistence",
				"email", email, "error", err)
		}
	} else {
		logger.Log.Infow("user registration without database", "name", name, "email", email)
	}

	message, err := svc.fetcher.GetRandomMessage(ctx)
	if err != nil {
		logger.Log.Errorw("failed to fetch motivational message", "error", err)
		return FallbackMessage, nil
	}

	return message, nil
}

func (svc *RegisterService) persist(ctx context.Context, name, email, plain string) error {
	existing, err := svc.reader.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		logger.Log.Infow("user already exists", "email", email)
		return ErrUserAlreadyExists
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}

	if err := svc.writer.Save(ctx, name, email, hashed); err != nil {
		// The unique index may reject the insert even though the existence
		// check passed, when two registrations race on the same email.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			logger.Log.Infow("user already exists", "email", email)
			return ErrUserAlreadyExists
		}
		return err
	}

	logger.Log.Infow("user saved", "email", email)
	return nil
}
