package repository

import (
	"context"

	"mathquiz/internal/domain"
	"mathquiz/internal/store"
)

// AchievementRepository stores the fixed achievement catalog and the
// per-user earned records.
type AchievementRepository interface {
	// Seed populates the catalog if and only if it is empty.
	Seed(ctx context.Context) error
	Catalog(ctx context.Context) ([]domain.Achievement, error)
	EarnedByUser(ctx context.Context, userID string) ([]domain.UserAchievement, error)
	Award(ctx context.Context, earned domain.UserAchievement) (string, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type storeAchievementRepository struct {
	catalog *store.Collection[domain.Achievement]
	earned  *store.Collection[domain.UserAchievement]
}

// NewAchievementRepository creates an AchievementRepository backed by the
// record store.
func NewAchievementRepository(s *store.Store) AchievementRepository {
	return &storeAchievementRepository{
		catalog: store.NewCollection[domain.Achievement](s, domain.CollectionAchievements),
		earned:  store.NewCollection[domain.UserAchievement](s, domain.CollectionUserAchievements),
	}
}

func (r *storeAchievementRepository) Seed(ctx context.Context) error {
	existing, err := r.catalog.All(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return r.catalog.ReplaceAll(ctx, domain.DefaultAchievements())
}

// Catalog returns the seeded achievement definitions in insertion order.
func (r *storeAchievementRepository) Catalog(ctx context.Context) ([]domain.Achievement, error) {
	return r.catalog.All(ctx)
}

func (r *storeAchievementRepository) EarnedByUser(ctx context.Context, userID string) ([]domain.UserAchievement, error) {
	return r.earned.Filter(ctx, func(ua domain.UserAchievement) bool { return ua.UserID == userID })
}

func (r *storeAchievementRepository) Award(ctx context.Context, earned domain.UserAchievement) (string, error) {
	return r.earned.Insert(ctx, earned)
}

func (r *storeAchievementRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.earned.DeleteWhere(ctx, func(ua domain.UserAchievement) bool { return ua.UserID == userID })
	return err
}
