package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"identity/config"
	"identity/internal/domain/service"
	"identity/internal/infra/auth"

	"github.com/pkg/errors"
)

func runInspect(token string) error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	tokens, err := auth.NewJWTService(cfg)
	if err != nil {
		return err
	}

	claims, err := tokens.ValidateToken(token)
	if err != nil {
		return errors.Wrap(err, "token rejected")
	}

	printClaims(os.Stdout, claims)

	return nil
}

func printClaims(w io.Writer, claims *service.Claims) {
	fmt.Fprintf(w, "user:    %s\n", claims.UserID)
	if claims.Issuer != "" {
		fmt.Fprintf(w, "issuer:  %s\n", claims.Issuer)
	}
	if claims.IssuedAt != nil {
		fmt.Fprintf(w, "issued:  %s\n", claims.IssuedAt.UTC().Format(time.RFC3339))
	}
	if claims.ExpiresAt != nil {
		fmt.Fprintf(w, "expires: %s\n", claims.ExpiresAt.UTC().Format(time.RFC3339))
	}
}
