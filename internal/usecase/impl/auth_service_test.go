package impl

import (
	"context"
	"strings"
	"testing"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
	"identity/internal/errors"
	"identity/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.hasher.EXPECT().Hash("secret").Return("hashed-secret", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.Email == "a@x.com" && u.PasswordHash == "hashed-secret" && u.Name == "Ann"
		})).
		RunAndReturn(func(_ context.Context, u *entity.User) error {
			u.ID = userID

			return nil
		})

	user, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "a@x.com", Password: "secret", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "Ann", user.Name)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.Nil(t, user.BiometricToken)
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input *usecase.RegisterInput
	}{
		{name: "nil input", input: nil},
		{name: "empty email", input: &usecase.RegisterInput{Password: "secret"}},
		{name: "malformed email", input: &usecase.RegisterInput{Email: "not-an-email", Password: "secret"}},
		{name: "empty password", input: &usecase.RegisterInput{Email: "a@x.com"}},
		{name: "email longer than 255", input: &usecase.RegisterInput{Email: longEmail(), Password: "secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No hasher or repository expectations: neither may be called.
			fx := createTestAuthService(t)

			user, err := fx.service.Register(context.Background(), tt.input)
			assert.Nil(t, user)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
		})
	}
}

// longEmail returns a well-formed address of 261 characters.
func longEmail() string {
	label := strings.Repeat("d", 63)

	return "a@" + strings.Repeat(label+".", 4) + "com"
}

func TestAuthService_Register_StoreRejectsLength(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.hasher.EXPECT().Hash("secret").Return("hashed-secret", nil)
	fx.userRepo.EXPECT().Create(ctx, mock.Anything).
		Return(domainerrors.ErrInvalidInput.WrapMessage("user field exceeds its maximum length"))

	user, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "a@x.com", Password: "secret"})
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
	assert.False(t, errors.Is(err, domainerrors.ErrInfrastructure))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.hasher.EXPECT().Hash("secret").Return("hashed-secret", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.Anything).
		Return(domainerrors.ErrDuplicateEmail.WrapMessage("email already exists"))

	user, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "a@x.com", Password: "secret"})
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	fx := createTestAuthService(t)

	fx.hasher.EXPECT().Hash("secret").Return("", errors.New("entropy unavailable"))

	user, err := fx.service.Register(context.Background(), &usecase.RegisterInput{Email: "a@x.com", Password: "secret"})
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrInfrastructure))
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidInput))
}

func TestAuthService_Register_HasherRejectsInput(t *testing.T) {
	fx := createTestAuthService(t)

	fx.hasher.EXPECT().Hash("secret").Return("", domainerrors.ErrInvalidInput.WithDetails("too long"))

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{Email: "a@x.com", Password: "secret"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.hasher.EXPECT().Hash("secret").Return("hashed-secret", nil)
	fx.userRepo.EXPECT().Create(ctx, mock.Anything).Return(errors.New("connection refused"))

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "a@x.com", Password: "secret"})
	assert.True(t, errors.Is(err, domainerrors.ErrInfrastructure))
}

func TestAuthService_Login(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: "hashed-secret"}

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(user, nil)
	fx.hasher.EXPECT().Check("secret", "hashed-secret").Return(true)
	fx.issuer.EXPECT().Issue(map[string]any{service.ClaimUserID: user.ID.String()}).Return("session-token", nil)

	token, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "session-token", *token)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "nobody@x.com").Return(nil, repository.ErrUserNotFound)

	token, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "nobody@x.com", Password: "secret"})
	assert.NoError(t, err)
	assert.Nil(t, token)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: "hashed-secret"}

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(user, nil)
	fx.hasher.EXPECT().Check("wrong", "hashed-secret").Return(false)

	token, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "a@x.com", Password: "wrong"})
	assert.NoError(t, err)
	assert.Nil(t, token)
}

func TestAuthService_Login_EmptyCredentials(t *testing.T) {
	fx := createTestAuthService(t)

	for _, input := range []*usecase.LoginInput{
		nil,
		{Email: "", Password: "secret"},
		{Email: "a@x.com", Password: ""},
	} {
		token, err := fx.service.Login(context.Background(), input)
		assert.NoError(t, err)
		assert.Nil(t, token)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, errors.New("connection refused"))

	token, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "a@x.com", Password: "secret"})
	assert.Nil(t, token)
	assert.True(t, errors.Is(err, domainerrors.ErrInfrastructure))
}

func TestAuthService_Login_IssuerFailure(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: "hashed-secret"}

	fx.userRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(user, nil)
	fx.hasher.EXPECT().Check("secret", "hashed-secret").Return(true)
	fx.issuer.EXPECT().Issue(mock.Anything).Return("", errors.New("signing key unavailable"))

	token, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "a@x.com", Password: "secret"})
	assert.Nil(t, token)
	assert.True(t, errors.Is(err, domainerrors.ErrInfrastructure))
}

func TestAuthService_LoginWithBiometricToken(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	bio := "bio-1"
	user := &entity.User{ID: uuid.New(), Email: "a@x.com", BiometricToken: &bio}

	fx.userRepo.EXPECT().FindByBiometricToken(ctx, "bio-1").Return(user, nil)
	fx.issuer.EXPECT().Issue(map[string]any{service.ClaimUserID: user.ID.String()}).Return("session-token", nil)

	token, err := fx.service.LoginWithBiometricToken(ctx, "bio-1")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "session-token", *token)
}

func TestAuthService_LoginWithBiometricToken_Unknown(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByBiometricToken(ctx, "unknown").Return(nil, repository.ErrUserNotFound)

	token, err := fx.service.LoginWithBiometricToken(ctx, "unknown")
	assert.NoError(t, err)
	assert.Nil(t, token)
}

func TestAuthService_LoginWithBiometricToken_Empty(t *testing.T) {
	fx := createTestAuthService(t)

	token, err := fx.service.LoginWithBiometricToken(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, token)
}

func TestAuthService_LoginWithBiometricToken_StoreFailure(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByBiometricToken(ctx, "bio-1").Return(nil, errors.New("timeout"))

	token, err := fx.service.LoginWithBiometricToken(ctx, "bio-1")
	assert.Nil(t, token)
	assert.True(t, errors.Is(err, domainerrors.ErrInfrastructure))
}

func TestAuthService_UpdateBiometricToken(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	userID := uuid.New()
	bio := "bio-2"

	fx.userRepo.EXPECT().
		UpdateBiometricToken(ctx, userID, "bio-2").
		Return(&entity.User{ID: userID, BiometricToken: &bio}, nil)

	user, err := fx.service.UpdateBiometricToken(ctx, userID, "bio-2")
	require.NoError(t, err)
	require.NotNil(t, user.BiometricToken)
	assert.Equal(t, "bio-2", *user.BiometricToken)
}

func TestAuthService_UpdateBiometricToken_Errors(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name     string
		token    string
		repoErr  error
		callRepo bool
		want     error
	}{
		{name: "empty token", token: "", want: domainerrors.ErrInvalidInput},
		{name: "unknown user", token: "bio-2", callRepo: true, repoErr: repository.ErrUserNotFound, want: domainerrors.ErrUserNotFound},
		{
			name: "token held by another user", token: "bio-2", callRepo: true,
			repoErr: domainerrors.ErrBiometricTokenConflict.WrapMessage("taken"),
			want:    domainerrors.ErrBiometricTokenConflict,
		},
		{
			name: "token too long for the store", token: "bio-2", callRepo: true,
			repoErr: domainerrors.ErrInvalidInput.WrapMessage("biometric token exceeds its maximum length"),
			want:    domainerrors.ErrInvalidInput,
		},
		{name: "store failure", token: "bio-2", callRepo: true, repoErr: errors.New("timeout"), want: domainerrors.ErrInfrastructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAuthService(t)
			ctx := context.Background()

			if tt.callRepo {
				fx.userRepo.EXPECT().UpdateBiometricToken(ctx, userID, tt.token).Return(nil, tt.repoErr)
			}

			user, err := fx.service.UpdateBiometricToken(ctx, userID, tt.token)
			assert.Nil(t, user)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestAuthService_ListUsers(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	users := []*entity.User{{ID: uuid.New(), Email: "a@x.com"}, {ID: uuid.New(), Email: "b@x.com"}}

	fx.userRepo.EXPECT().List(ctx).Return(users, nil)

	got, err := fx.service.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, got)
}

func TestAuthService_ListUsers_StoreFailure(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().List(ctx).Return(nil, errors.New("timeout"))

	got, err := fx.service.ListUsers(ctx)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, domainerrors.ErrInfrastructure))
}
