package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"identity/internal/domain/repository"
	"identity/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const biometricTokenBytes = 32

func runEnroll(ctx context.Context, rawUserID, token string) error {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return errors.Wrap(err, "invalid user id")
	}

	if token == "" {
		token, err = generateBiometricToken()
		if err != nil {
			return err
		}
	}

	var (
		auth  usecase.AuthUsecase
		users repository.UserRepository
	)

	return withApp(ctx, func() error {
		if err := describeEnrollment(ctx, os.Stdout, users, userID); err != nil {
			return err
		}

		user, err := auth.UpdateBiometricToken(ctx, userID, token)
		if err != nil {
			return err
		}

		fmt.Printf("Enrolled biometric token for %s (%s)\n", user.Email, user.ID)
		fmt.Println(token)

		return nil
	}, &auth, &users)
}

// describeEnrollment prints whether the user is being enrolled for the first time or rotated.
func describeEnrollment(ctx context.Context, w io.Writer, users repository.UserRepository, userID uuid.UUID) error {
	user, err := users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return errors.Errorf("user %s not found", userID)
	}
	if err != nil {
		return errors.Wrap(err, "failed to load user")
	}

	if user.HasBiometricToken() {
		fmt.Fprintf(w, "Rotating biometric token for %s\n", user.Email)
	} else {
		fmt.Fprintf(w, "Enrolling first biometric token for %s\n", user.Email)
	}

	return nil
}

// generateBiometricToken returns a random URL-safe token.
func generateBiometricToken() (string, error) {
	buf := make([]byte, biometricTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate biometric token")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
