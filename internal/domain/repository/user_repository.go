// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"identity/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned by lookups that match no user.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the credential store operations the authentication flow depends on.
// Implementations must enforce email and biometric token uniqueness atomically.
type UserRepository interface {
	// Create persists a new user and fills in the store-assigned ID and timestamps.
	// A taken email is reported as domain errors.ErrDuplicateEmail.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByBiometricToken retrieves the user holding the given biometric token.
	FindByBiometricToken(ctx context.Context, token string) (*entity.User, error)

	// UpdateBiometricToken replaces the user's biometric token and returns the updated user.
	UpdateBiometricToken(ctx context.Context, id uuid.UUID, token string) (*entity.User, error)

	// List returns every user ordered by creation time.
	List(ctx context.Context) ([]*entity.User, error)
}
