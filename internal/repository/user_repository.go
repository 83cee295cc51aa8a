package repository

import (
	"context"

	"mathquiz/internal/domain"
	"mathquiz/internal/store"
)

// UserRepository defines the interface for user record operations.
// Lookups return (nil, nil) when no record matches; services decide whether
// that is an error.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (string, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	GetDeletedByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, mutate func(*domain.User)) (bool, error)
	Delete(ctx context.Context, userID string) error
	ListActive(ctx context.Context) ([]domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}

type storeUserRepository struct {
	users *store.Collection[domain.User]
}

// NewUserRepository creates a UserRepository backed by the record store.
func NewUserRepository(s *store.Store) UserRepository {
	return &storeUserRepository{
		users: store.NewCollection[domain.User](s, domain.CollectionUsers),
	}
}

func (r *storeUserRepository) Create(ctx context.Context, user domain.User) (string, error) {
	return r.users.Insert(ctx, user)
}

func (r *storeUserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	user, ok, err := r.users.Find(ctx, func(u domain.User) bool { return u.ID == userID })
	if err != nil || !ok {
		return nil, err
	}
	return &user, nil
}

func (r *storeUserRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	user, ok, err := r.users.Find(ctx, func(u domain.User) bool {
		return domain.NormalizeEmail(u.Email) == email && !u.IsDeleted
	})
	if err != nil || !ok {
		return nil, err
	}
	return &user, nil
}

func (r *storeUserRepository) GetDeletedByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	user, ok, err := r.users.Find(ctx, func(u domain.User) bool {
		return domain.NormalizeEmail(u.Email) == email && u.IsDeleted
	})
	if err != nil || !ok {
		return nil, err
	}
	return &user, nil
}

func (r *storeUserRepository) Update(ctx context.Context, userID string, mutate func(*domain.User)) (bool, error) {
	return r.users.Update(ctx, userID, mutate)
}

func (r *storeUserRepository) Delete(ctx context.Context, userID string) error {
	return r.users.Delete(ctx, userID)
}

func (r *storeUserRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	return r.users.Filter(ctx, func(u domain.User) bool { return !u.IsDeleted })
}

func (r *storeUserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.users.All(ctx)
}
