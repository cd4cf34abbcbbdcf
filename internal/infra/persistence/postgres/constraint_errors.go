package postgres

import (
	"strings"

	"identity/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
	pgValueTooLong     = "22001"

	biometricTokenUniqueConstraint = "users_biometric_token_key"
)

// uniqueViolation reports whether err is a unique constraint violation and,
// when the driver error survived, the name of the violated constraint.
func uniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}

		return pgErr.ConstraintName, true
	}

	// TranslateError replaces the driver error and drops the constraint name.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}

	return "", false
}

func isBiometricTokenViolation(constraint string) bool {
	return constraint == biometricTokenUniqueConstraint || strings.Contains(constraint, "biometric_token")
}

func isNotNullConstraintViolation(err error) bool {
	return hasPgCode(err, pgNotNullViolation)
}

// isValueTooLong reports a string that does not fit its varchar column.
func isValueTooLong(err error) bool {
	return hasPgCode(err, pgValueTooLong)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}

	return false
}
