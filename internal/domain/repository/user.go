package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/domain/model"
)

// UserRepository defines the interface for user account persistence.
// Implementations are provided by the infrastructure layer.
type UserRepository interface {
	// Create persists a new user account.
	// Returns ErrDuplicateUsername or ErrDuplicateEmail on uniqueness
	// violations.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by their unique identifier.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
