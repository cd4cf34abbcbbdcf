package impl

import (
	"io"
	"log/slog"
	"testing"

	mockRepo "identity/internal/mocks/repository"
	mockSvc "identity/internal/mocks/service"
	"identity/internal/usecase"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type authServiceFixture struct {
	service  usecase.AuthUsecase
	userRepo *mockRepo.MockUserRepository
	hasher   *mockSvc.MockPasswordHasher
	issuer   *mockSvc.MockTokenIssuer
}

func createTestAuthService(t *testing.T) *authServiceFixture {
	t.Helper()

	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	issuer := mockSvc.NewMockTokenIssuer(t)

	return &authServiceFixture{
		service: NewAuthService(AuthServiceParams{
			UserRepo: userRepo,
			Hasher:   hasher,
			Issuer:   issuer,
			Logger:   newDiscardLogger(),
		}),
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
	}
}
