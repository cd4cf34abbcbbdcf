package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"identity/config"
	gqlschema "identity/internal/delivery/graphql"
	"identity/internal/delivery/http/middleware"
	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/errors"
	mockUsecase "identity/internal/mocks/usecase"
	"identity/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type graphQLResponse struct {
	Data   map[string]any `json:"data"`
	Errors []struct {
		Message    string         `json:"message"`
		Extensions map[string]any `json:"extensions"`
	} `json:"errors"`
}

func newGraphQLTestServer(t *testing.T, playground bool) (*echo.Echo, *mockUsecase.MockAuthUsecase) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authUsecase := mockUsecase.NewMockAuthUsecase(t)

	schema, err := gqlschema.NewSchema(gqlschema.SchemaParams{AuthUsecase: authUsecase, Logger: logger})
	require.NoError(t, err)

	h := NewGraphQLHandler(GraphQLHandlerParams{
		Schema: schema,
		Config: &config.Config{GraphQL: &config.GraphQLConfig{Playground: playground}},
		Logger: logger,
	})

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError
	e.GET("/health", HealthCheck)
	e.POST("/graphql", h.Execute)
	e.GET("/graphql", h.Execute)

	return e, authUsecase
}

func postGraphQL(t *testing.T, e *echo.Echo, query string, variables map[string]any) (*httptest.ResponseRecorder, graphQLResponse) {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp graphQLResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}

	return rec, resp
}

func TestGraphQLHandler_Register(t *testing.T) {
	e, authUsecase := newGraphQLTestServer(t, false)
	userID := uuid.New()
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	authUsecase.EXPECT().
		Register(mock.Anything, &usecase.RegisterInput{Email: "a@x.com", Password: "secret", Name: "Ann"}).
		Return(&entity.User{ID: userID, Email: "a@x.com", Name: "Ann", PasswordHash: "hashed", CreatedAt: createdAt}, nil)

	rec, resp := postGraphQL(t, e,
		`mutation($email: String!, $password: String!, $name: String) {
			register(email: $email, password: $password, name: $name) { id email name createdAt }
		}`,
		map[string]any{"email": "a@x.com", "password": "secret", "name": "Ann"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, resp.Errors)

	user, ok := resp.Data["register"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, userID.String(), user["id"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "Ann", user["name"])
	assert.Equal(t, "2024-05-01T12:00:00Z", user["createdAt"])
	assert.NotContains(t, rec.Body.String(), "hashed")
}

func TestGraphQLHandler_RegisterWithoutName(t *testing.T) {
	e, authUsecase := newGraphQLTestServer(t, false)

	authUsecase.EXPECT().
		Register(mock.Anything, &usecase.RegisterInput{Email: "a@x.com", Password: "secret"}).
		Return(&entity.User{ID: uuid.New(), Email: "a@x.com"}, nil)

	_, resp := postGraphQL(t, e, `mutation { register(email: "a@x.com", password: "secret") { id name } }`, nil)

	require.Empty(t, resp.Errors)
	user := resp.Data["register"].(map[string]any)
	assert.Nil(t, user["name"])
}

func TestGraphQLHandler_RegisterErrorCodes(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "duplicate email",
			err:         domainerrors.ErrDuplicateEmail.WrapMessage("email already exists"),
			wantCode:    "DUPLICATE_EMAIL",
			wantMessage: domainerrors.ErrDuplicateEmail.Message(),
		},
		{
			name:        "invalid input",
			err:         domainerrors.ErrInvalidInput.WithDetails("password is required"),
			wantCode:    "INVALID_INPUT",
			wantMessage: "Invalid input: password is required",
		},
		{
			name:        "infrastructure",
			err:         domainerrors.NewInfrastructureError(errors.New("dial tcp 10.0.0.1:5432"), "failed to create user"),
			wantCode:    "INFRASTRUCTURE_ERROR",
			wantMessage: domainerrors.ErrInfrastructure.Message(),
		},
		{
			name:        "unclassified",
			err:         errors.New("boom"),
			wantCode:    "INTERNAL_ERROR",
			wantMessage: domainerrors.ErrInternalError.Message(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, authUsecase := newGraphQLTestServer(t, false)
			authUsecase.EXPECT().Register(mock.Anything, mock.Anything).Return(nil, tt.err)

			rec, resp := postGraphQL(t, e, `mutation { register(email: "a@x.com", password: "secret") { id } }`, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Len(t, resp.Errors, 1)
			assert.Equal(t, tt.wantCode, resp.Errors[0].Extensions["code"])
			assert.Equal(t, tt.wantMessage, resp.Errors[0].Message)
			assert.Nil(t, resp.Data)
			assert.NotContains(t, rec.Body.String(), "10.0.0.1")
		})
	}
}

func TestGraphQLHandler_Login(t *testing.T) {
	e, authUsecase := newGraphQLTestServer(t, false)
	token := "session-token"

	authUsecase.EXPECT().
		Login(mock.Anything, &usecase.LoginInput{Email: "a@x.com", Password: "secret"}).
		Return(&token, nil)

	_, resp := postGraphQL(t, e, `mutation { login(email: "a@x.com", password: "secret") }`, nil)

	require.Empty(t, resp.Errors)
	assert.Equal(t, "session-token", resp.Data["login"])
}

func TestGraphQLHandler_LoginFailureIsNull(t *testing.T) {
	e, authUsecase := newGraphQLTestServer(t, false)

	authUsecase.EXPECT().Login(mock.Anything, mock.Anything).Return(nil, nil)

	rec, resp := postGraphQL(t, e, `mutation { login(email: "a@x.com", password: "wrong") }`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Errors)
	require.Contains(t, resp.Data, "login")
	assert.Nil(t, resp.Data["login"])
}

func TestGraphQLHandler_LoginWithBiometrics(t *testing.T) {
	e, authUsecase := newGraphQLTestServer(t, false)
	token := "session-token"

	authUsecase.EXPECT().LoginWithBiometricToken(mock.Anything, "bio-1").Return(&token, nil)
	authUsecase.EXPECT().LoginWithBiometricToken(mock.Anything, "unknown").Return(nil, nil)

	_, resp := postGraphQL(t, e, `mutation { loginWithBiometrics(biometricToken: "bio-1") }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "session-token", resp.Data["loginWithBiometrics"])

	_, resp = postGraphQL(t, e, `mutation { loginWithBiometrics(biometricToken: "unknown") }`, nil)
	require.Empty(t, resp.Errors)
	assert.Nil(t, resp.Data["loginWithBiometrics"])
}

func TestGraphQLHandler_Users(t *testing.T) {
	e, authUsecase := newGraphQLTestServer(t, false)
	bio := "bio-1"

	authUsecase.EXPECT().ListUsers(mock.Anything).Return([]*entity.User{
		{ID: uuid.New(), Email: "a@x.com", Name: "Ann", BiometricToken: &bio},
		{ID: uuid.New(), Email: "b@x.com"},
	}, nil)

	rec, resp := postGraphQL(t, e, `{ users { id email name } }`, nil)

	require.Empty(t, resp.Errors)
	users, ok := resp.Data["users"].([]any)
	require.True(t, ok)
	require.Len(t, users, 2)
	assert.Equal(t, "a@x.com", users[0].(map[string]any)["email"])
	assert.Equal(t, "b@x.com", users[1].(map[string]any)["email"])
	assert.NotContains(t, rec.Body.String(), "bio-1")
}

func TestGraphQLHandler_GetQuery(t *testing.T) {
	e, authUsecase := newGraphQLTestServer(t, false)

	authUsecase.EXPECT().ListUsers(mock.Anything).Return([]*entity.User{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape(`{ users { id } }`), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"users":[]}}`, rec.Body.String())
}

func TestGraphQLHandler_GetMutationRejected(t *testing.T) {
	e, _ := newGraphQLTestServer(t, false)

	query := `mutation { login(email: "a@x.com", password: "secret") }`
	req := httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape(query), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGraphQLHandler_MissingQuery(t *testing.T) {
	e, _ := newGraphQLTestServer(t, false)

	rec, _ := postGraphQL(t, e, "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "HTTP_ERROR")
}

func TestGraphQLHandler_Playground(t *testing.T) {
	e, _ := newGraphQLTestServer(t, true)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GraphiQL")
}

func TestGraphQLHandler_SyntaxError(t *testing.T) {
	e, _ := newGraphQLTestServer(t, false)

	rec, resp := postGraphQL(t, e, `{ users { id `, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp.Errors)
}

func TestHealthCheck(t *testing.T) {
	e, _ := newGraphQLTestServer(t, false)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"status": "ok"}, body["data"])
}
