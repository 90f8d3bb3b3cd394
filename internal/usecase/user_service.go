package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/domain/repository"
	"github.com/kdm-dev/tubevault/internal/infrastructure/metrics"
)

// ErrInvalidCredentials is returned when a login attempt fails. The same
// error covers an unknown username and a wrong password so the response
// does not reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserService defines account registration and authentication.
type UserService interface {
	// Register creates a new account.
	// Returns repository.ErrDuplicateUsername or ErrDuplicateEmail when
	// the username or email is already taken.
	Register(ctx context.Context, username, email, password string) (*model.User, error)

	// Authenticate verifies a username/password pair.
	// Returns ErrInvalidCredentials on any mismatch.
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// Register creates a new account with a hashed password.
func (s *userService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	user, err := model.NewUser(username, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) || errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableUsers).Inc()

	return user, nil
}

// Authenticate verifies a username/password pair.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableUsers).Inc()

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
