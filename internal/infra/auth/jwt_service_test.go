package auth

import (
	"testing"
	"time"

	"identity/config"
	"identity/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTConfig(secret string) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			TokenTTL: 15 * time.Minute,
			Issuer:   "identity-test",
		},
	}
	cfg.SecretKey.Access = secret

	return cfg
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("test-secret"))
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.Issue(map[string]any{service.ClaimUserID: userID.String()})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "identity-test", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, 15*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestJWTService_IssueRequiresUserID(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("test-secret"))
	require.NoError(t, err)

	_, err = svc.Issue(map[string]any{"role": "admin"})
	assert.Error(t, err)
}

func TestNewJWTService_EmptySecret(t *testing.T) {
	_, err := NewJWTService(newTestJWTConfig(""))
	assert.Error(t, err)
}

func TestJWTService_ValidateWrongSecret(t *testing.T) {
	issuer, err := NewJWTService(newTestJWTConfig("secret-a"))
	require.NoError(t, err)
	verifier, err := NewJWTService(newTestJWTConfig("secret-b"))
	require.NoError(t, err)

	token, err := issuer.Issue(map[string]any{service.ClaimUserID: uuid.NewString()})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateExpired(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("test-secret"))
	require.NoError(t, err)

	impl, ok := svc.(*jwtService)
	require.True(t, ok)
	impl.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue(map[string]any{service.ClaimUserID: uuid.NewString()})
	require.NoError(t, err)

	impl.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateRejectsOtherAlgorithms(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("test-secret"))
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		service.ClaimUserID: uuid.NewString(),
		"iss":               "identity-test",
		"exp":               time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)
}

func TestJWTService_ValidateMalformed(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
