// Package memory provides a process-local credential store for development runs and tests.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"

	"github.com/google/uuid"
)

// userRepository keeps users in maps guarded by a single RWMutex, so
// uniqueness checks and writes happen atomically.
type userRepository struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*entity.User
	byEmail   map[string]uuid.UUID
	byToken   map[string]uuid.UUID
	now       func() time.Time
	generator func() uuid.UUID
}

// NewUserRepository returns an empty in-memory repository.UserRepository.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byID:      make(map[uuid.UUID]*entity.User),
		byEmail:   make(map[string]uuid.UUID),
		byToken:   make(map[string]uuid.UUID),
		now:       time.Now,
		generator: uuid.New,
	}
}

func (repo *userRepository) Create(_ context.Context, user *entity.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, taken := repo.byEmail[user.Email]; taken {
		return domainerrors.ErrDuplicateEmail.WrapMessage("email already exists")
	}
	if user.BiometricToken != nil {
		if _, taken := repo.byToken[*user.BiometricToken]; taken {
			return domainerrors.ErrBiometricTokenConflict.WrapMessage("biometric token already enrolled")
		}
	}

	now := repo.now()
	user.ID = repo.generator()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := cloneUser(user)
	repo.byID[stored.ID] = stored
	repo.byEmail[stored.Email] = stored.ID
	if stored.BiometricToken != nil {
		repo.byToken[*stored.BiometricToken] = stored.ID
	}

	return nil
}

func (repo *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return repo.lookup(id, true)
}

func (repo *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[email]

	return repo.lookup(id, ok)
}

func (repo *userRepository) FindByBiometricToken(_ context.Context, token string) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byToken[token]

	return repo.lookup(id, ok)
}

func (repo *userRepository) lookup(id uuid.UUID, ok bool) (*entity.User, error) {
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	user, found := repo.byID[id]
	if !found {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (repo *userRepository) UpdateBiometricToken(_ context.Context, id uuid.UUID, token string) (*entity.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	if holder, taken := repo.byToken[token]; taken && holder != id {
		return nil, domainerrors.ErrBiometricTokenConflict.WrapMessage("biometric token already enrolled")
	}

	if user.BiometricToken != nil {
		delete(repo.byToken, *user.BiometricToken)
	}
	user.BiometricToken = &token
	user.UpdatedAt = repo.now()
	repo.byToken[token] = id

	return cloneUser(user), nil
}

func (repo *userRepository) List(_ context.Context) ([]*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	users := make([]*entity.User, 0, len(repo.byID))
	for _, user := range repo.byID {
		users = append(users, cloneUser(user))
	}

	// Same-tick creations fall back to ID order, matching the Postgres query.
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}

		return bytes.Compare(users[i].ID[:], users[j].ID[:]) < 0
	})

	return users, nil
}

func cloneUser(user *entity.User) *entity.User {
	cloned := *user
	if user.BiometricToken != nil {
		token := *user.BiometricToken
		cloned.BiometricToken = &token
	}

	return &cloned
}
