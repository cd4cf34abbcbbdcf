package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via gen_random_uuid().
// BiometricToken is nullable; the unique index only applies to non-null values.
type UserModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex:users_email_key;not null"`
	PasswordHash   string    `gorm:"type:varchar(255);not null"`
	Name           string    `gorm:"type:varchar(100);not null;default:''"`
	BiometricToken *string   `gorm:"type:varchar(512);uniqueIndex:users_biometric_token_key"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
