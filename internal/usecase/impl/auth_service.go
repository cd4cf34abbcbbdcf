// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "identity/internal/delivery/context"
	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
	"identity/internal/errors"
	"identity/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface. It keeps no state of its own.
type authService struct {
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	issuer   service.TokenIssuer
	validate *validator.Validate
	logger   *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
	Issuer   service.TokenIssuer
	Logger   *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &authService{
		userRepo: params.UserRepo,
		hasher:   params.Hasher,
		issuer:   params.Issuer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account with a hashed password. The plaintext never reaches the store.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	if input == nil {
		return nil, domainerrors.ErrInvalidInput.WithDetails("registration input is required")
	}
	if err := srv.validate.StructCtx(ctx, input); err != nil {
		srv.log(ctx).Debug("Registration rejected", slog.String("email", input.Email), slog.Any("error", err))

		return nil, domainerrors.ErrInvalidInput.WithDetails(err.Error())
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.String("email", input.Email), slog.Any("error", err))

		return nil, asAppError(err, "failed to hash password")
	}

	user := &entity.User{
		Email:        input.Email,
		PasswordHash: passwordHash,
		Name:         input.Name,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateEmail) {
			srv.log(ctx).Warn("Registration conflict", slog.String("email", input.Email))
		} else {
			srv.log(ctx).Error("Failed to create user", slog.String("email", input.Email), slog.Any("error", err))
		}

		return nil, asAppError(err, "failed to create user")
	}

	srv.log(ctx).Info("Registration completed", slog.Any("userID", user.ID))

	return user, nil
}

// Login verifies email and password and issues a session token.
// Every authentication failure yields a nil token and a nil error.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*string, error) {
	if input == nil || input.Email == "" || input.Password == "" {
		return nil, nil
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Debug("Login failed")

		return nil, nil
	}
	if err != nil {
		srv.log(ctx).Error("Failed to load user for login", slog.Any("error", err))

		return nil, asAppError(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Debug("Login failed")

		return nil, nil
	}

	return srv.issueSession(ctx, user)
}

// LoginWithBiometricToken issues a session token for the user enrolled with the given token.
// The token is compared as stored; it is never hashed.
func (srv *authService) LoginWithBiometricToken(ctx context.Context, biometricToken string) (*string, error) {
	if biometricToken == "" {
		return nil, nil
	}

	user, err := srv.userRepo.FindByBiometricToken(ctx, biometricToken)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Debug("Biometric login failed")

		return nil, nil
	}
	if err != nil {
		srv.log(ctx).Error("Failed to load user for biometric login", slog.Any("error", err))

		return nil, asAppError(err, "failed to find user by biometric token")
	}

	return srv.issueSession(ctx, user)
}

func (srv *authService) issueSession(ctx context.Context, user *entity.User) (*string, error) {
	token, err := srv.issuer.Issue(map[string]any{service.ClaimUserID: user.ID.String()})
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, domainerrors.NewInfrastructureError(err, "failed to issue session token")
	}

	srv.log(ctx).Info("Session issued", slog.Any("userID", user.ID))

	return &token, nil
}

// UpdateBiometricToken replaces the user's biometric token unconditionally.
func (srv *authService) UpdateBiometricToken(ctx context.Context, userID uuid.UUID, biometricToken string) (*entity.User, error) {
	if biometricToken == "" {
		return nil, domainerrors.ErrInvalidInput.WithDetails("biometric token must not be empty")
	}

	user, err := srv.userRepo.UpdateBiometricToken(ctx, userID, biometricToken)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Warn("Biometric enrollment for unknown user", slog.Any("userID", userID))

		return nil, domainerrors.ErrUserNotFound.WrapMessage("failed to update biometric token")
	}
	if err != nil {
		srv.log(ctx).Error("Failed to update biometric token", slog.Any("userID", userID), slog.Any("error", err))

		return nil, asAppError(err, "failed to update biometric token")
	}

	srv.log(ctx).Info("Biometric token updated", slog.Any("userID", userID))

	return user, nil
}

// ListUsers returns every registered user.
func (srv *authService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list users", slog.Any("error", err))

		return nil, asAppError(err, "failed to list users")
	}

	return users, nil
}

// asAppError keeps classified domain errors intact and wraps anything else as an infrastructure failure.
func asAppError(err error, details string) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return domainerrors.NewInfrastructureError(err, details)
}
