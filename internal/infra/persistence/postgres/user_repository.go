// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/errors"
	"identity/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a repository.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and fills in the generated ID and timestamps.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if isBiometricTokenViolation(constraint) {
				return domainerrors.ErrBiometricTokenConflict.WrapMessage("biometric token already enrolled")
			}

			return domainerrors.ErrDuplicateEmail.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidInput.WrapMessage("missing required user information")
		}
		if isValueTooLong(err) {
			return domainerrors.ErrInvalidInput.WrapMessage("user field exceeds its maximum length")
		}

		return domainerrors.NewInfrastructureError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a single user by exact email match.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

// FindByBiometricToken retrieves the user holding the given biometric token.
func (repo *userRepository) FindByBiometricToken(ctx context.Context, token string) (*entity.User, error) {
	return repo.findOne(ctx, "biometric_token = ?", token)
}

func (repo *userRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var userM model.UserModel

	err := repo.db.WithContext(ctx).Where(query, arg).Take(&userM).Error
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return toUserDomain(&userM), nil
}

// UpdateBiometricToken replaces the stored token and returns the updated user.
func (repo *userRepository) UpdateBiometricToken(ctx context.Context, id uuid.UUID, token string) (*entity.User, error) {
	var userM model.UserModel

	result := repo.db.WithContext(ctx).
		Model(&userM).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Update("biometric_token", token)
	if err := result.Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, domainerrors.ErrBiometricTokenConflict.WrapMessage("biometric token already enrolled")
		}
		if isValueTooLong(err) {
			return nil, domainerrors.ErrInvalidInput.WrapMessage("biometric token exceeds its maximum length")
		}

		return nil, domainerrors.NewInfrastructureError(err, "failed to update biometric token")
	}

	if result.RowsAffected == 0 {
		return nil, repository.ErrUserNotFound
	}

	return toUserDomain(&userM), nil
}

// List returns every user ordered by creation time. Reads go to a replica when one is configured.
func (repo *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	var userMs []*model.UserModel

	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Order("created_at ASC, id ASC").
		Find(&userMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userMs))
	for _, userM := range userMs {
		users = append(users, toUserDomain(userM))
	}

	return users, nil
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:             data.ID,
		Email:          data.Email,
		PasswordHash:   data.PasswordHash,
		Name:           data.Name,
		BiometricToken: data.BiometricToken,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:             data.ID,
		Email:          data.Email,
		PasswordHash:   data.PasswordHash,
		Name:           data.Name,
		BiometricToken: data.BiometricToken,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
