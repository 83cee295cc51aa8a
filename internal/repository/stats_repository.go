package repository

import (
	"context"

	"mathquiz/internal/domain"
	"mathquiz/internal/store"
)

// StatsRepository stores the one-per-user aggregate record.
type StatsRepository interface {
	GetByUser(ctx context.Context, userID string) (*domain.UserStats, error)
	Create(ctx context.Context, stats domain.UserStats) (string, error)
	UpdateByUser(ctx context.Context, userID string, mutate func(*domain.UserStats)) (bool, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type storeStatsRepository struct {
	stats *store.Collection[domain.UserStats]
}

// NewStatsRepository creates a StatsRepository backed by the record store.
func NewStatsRepository(s *store.Store) StatsRepository {
	return &storeStatsRepository{
		stats: store.NewCollection[domain.UserStats](s, domain.CollectionUserStats),
	}
}

func (r *storeStatsRepository) GetByUser(ctx context.Context, userID string) (*domain.UserStats, error) {
	stats, ok, err := r.stats.Find(ctx, func(s domain.UserStats) bool { return s.UserID == userID })
	if err != nil || !ok {
		return nil, err
	}
	return &stats, nil
}

func (r *storeStatsRepository) Create(ctx context.Context, stats domain.UserStats) (string, error) {
	return r.stats.Insert(ctx, stats)
}

func (r *storeStatsRepository) UpdateByUser(ctx context.Context, userID string, mutate func(*domain.UserStats)) (bool, error) {
	existing, err := r.GetByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	return r.stats.Update(ctx, existing.ID, mutate)
}

func (r *storeStatsRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.stats.DeleteWhere(ctx, func(s domain.UserStats) bool { return s.UserID == userID })
	return err
}
