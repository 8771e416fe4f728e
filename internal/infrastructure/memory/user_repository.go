package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/domain/entity"
	"github.com/ignatzorin/gigflow-backend/internal/domain/repository"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/validation"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.userMu.Lock()
	defer r.store.userMu.Unlock()

	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	r.store.users[user.ID] = user.Clone()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.userMu.RLock()
	defer r.store.userMu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	email = validation.NormalizeEmail(email)

	r.store.userMu.RLock()
	defer r.store.userMu.RUnlock()

	for _, user := range r.store.users {
		if user.Email == email {
			return user.Clone(), nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.userMu.RLock()
	defer r.store.userMu.RUnlock()

	result := make(map[uuid.UUID]*entity.User, len(ids))
	for _, id := range ids {
		if user, ok := r.store.users[id]; ok {
			result[id] = user.Clone()
		}
	}
	return result, nil
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.userMu.Lock()
	defer r.store.userMu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return apperror.ErrUserNotFound
	}
	updated := user.Clone()
	if token != nil {
		value := *token
		updated.RefreshToken = &value
	} else {
		updated.RefreshToken = nil
	}
	r.store.users[id] = updated
	return nil
}
