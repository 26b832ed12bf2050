package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/daytrack-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.DeletedAt == nil && u.Email == email {
			return u, nil
		}
	}

	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok || u.DeletedAt != nil {
		return model.User{}, model.ErrNotFound
	}

	return u, nil
}

// Create rejects an email that matches a live account case-insensitively.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; ok {
		return model.User{}, fmt.Errorf("failed to create user: id %s already exists", user.ID)
	}
	for _, u := range r.store.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, user.Email) {
			return model.User{}, model.ErrDuplicateEmail
		}
	}

	user.DeletedAt = nil
	r.store.users[user.ID] = user

	return user, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok || u.DeletedAt != nil {
		return model.ErrNotFound
	}

	now := time.Now().UTC()
	u.DeletedAt = &now
	u.UpdatedAt = now
	r.store.users[id] = u

	return nil
}
