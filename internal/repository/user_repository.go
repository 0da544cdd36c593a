package repository

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// UserRepository defines persistence access for users of every role.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create appends the user; an id or email already present is ErrDuplicate.
	Create(ctx context.Context, user domain.User) error
	Update(ctx context.Context, id string, fn func(domain.User) (domain.User, error)) (*domain.User, error)
}

type userRepository struct {
	store *EntityStore
}

// NewUserRepository returns a store-backed implementation.
func NewUserRepository(store *EntityStore) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	return r.store.Users(), nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range r.store.Users() {
		if user.ID == id {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	for _, user := range r.store.Users() {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *userRepository) Create(ctx context.Context, user domain.User) error {
	return r.store.MutateUsers(ctx, func(users []domain.User) ([]domain.User, error) {
		for _, existing := range users {
			if existing.ID == user.ID || strings.EqualFold(existing.Email, user.Email) {
				return nil, ErrDuplicate
			}
		}
		return append(users, user), nil
	})
}

func (r *userRepository) Update(ctx context.Context, id string, fn func(domain.User) (domain.User, error)) (*domain.User, error) {
	var updated domain.User
	err := r.store.MutateUsers(ctx, func(users []domain.User) ([]domain.User, error) {
		for i, user := range users {
			if user.ID != id {
				continue
			}
			next, err := fn(user)
			if err != nil {
				return nil, err
			}
			users[i] = next
			updated = next
			return users, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
