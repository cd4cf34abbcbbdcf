// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"identity/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required"`
	Name     string `validate:"max=100"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// AuthUsecase defines the account and session operations exposed to the delivery layer.
//
// Failed authentication is not an error: Login and LoginWithBiometricToken
// return a nil token with a nil error for an unknown email, a wrong password
// or an unrecognized biometric token.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input *LoginInput) (*string, error)
	LoginWithBiometricToken(ctx context.Context, biometricToken string) (*string, error)
	UpdateBiometricToken(ctx context.Context, userID uuid.UUID, biometricToken string) (*entity.User, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
}
