package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ClaimUserID is the claim carrying the authenticated user's ID.
const ClaimUserID = "userId"

// Claims defines the claims carried by an issued session token.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	jwt.RegisteredClaims
}

// TokenIssuer signs a claim set into a self-describing bearer token.
// Signing material is process configuration and never passed by callers.
type TokenIssuer interface {
	// Issue returns a signed token encoding the given claims.
	Issue(claims map[string]any) (string, error)
}

// TokenService is a TokenIssuer that can also verify the tokens it issued.
type TokenService interface {
	TokenIssuer

	// ValidateToken checks the validity of a token string and returns its claims.
	ValidateToken(tokenString string) (*Claims, error)
}
