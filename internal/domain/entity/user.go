// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing one account.
type User struct {
	ID             uuid.UUID // Assigned by the store at creation time, never changes afterwards.
	Email          string    // Unique across all users, the lookup key for password login.
	PasswordHash   string    // One-way digest of the password, never the plaintext.
	Name           string    // Optional display label.
	BiometricToken *string   // Optional possession token, unique when present.
	CreatedAt      time.Time // Timestamp of when this account was created.
	UpdatedAt      time.Time // Timestamp of the last modification to this account.
}

// HasBiometricToken reports whether a biometric token is enrolled for the user.
func (u *User) HasBiometricToken() bool {
	return u.BiometricToken != nil && *u.BiometricToken != ""
}
