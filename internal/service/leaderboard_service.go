package service

import (
	"context"
	"sort"

	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/repository"
)

const leaderboardSize = 10

// LeaderboardService ranks non-deleted users by their summed session
// scores. Recomputed fully on every call; record volumes are small.
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error)
}

type leaderboardServiceImpl struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

// NewLeaderboardService creates a new instance of LeaderboardService.
func NewLeaderboardService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) LeaderboardService {
	return &leaderboardServiceImpl{userRepo: userRepo, sessionRepo: sessionRepo}
}

func (s *leaderboardServiceImpl) GetLeaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list users", err)
	}

	rankings := make([]dto.LeaderboardEntry, 0, len(users))
	for _, user := range users {
		sessions, err := s.sessionRepo.SessionsByUser(ctx, user.ID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load user sessions", err)
		}
		totalScore := 0
		for _, session := range sessions {
			totalScore += session.Score
		}
		// Users with no sessions rank with score 0; they are not omitted.
		rankings = append(rankings, dto.LeaderboardEntry{
			UserID:      user.ID,
			Username:    user.Name,
			TotalScore:  totalScore,
			GamesPlayed: len(sessions),
		})
	}

	// Stable: ties keep encounter order.
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].TotalScore > rankings[j].TotalScore
	})
	if len(rankings) > leaderboardSize {
		rankings = rankings[:leaderboardSize]
	}
	return rankings, nil
}
