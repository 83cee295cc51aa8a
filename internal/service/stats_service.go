package service

import (
	"context"
	"time"

	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/logger"
	"mathquiz/internal/repository"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// StatsService maintains the per-user aggregate: cumulative totals, the
// daily streak and the per-operation tallies. The aggregate is a cache
// over the session/question ground truth; Recalculate reconciles it after
// destructive operations.
type StatsService interface {
	GetStats(ctx context.Context, userID string) (*dto.StatsResponse, error)
	UpdateStats(ctx context.Context, userID string, req dto.UpdateStatsRequest) (*dto.UpdateStatsResponse, error)
	Recalculate(ctx context.Context, userID string) error
	Reset(ctx context.Context, userID string) error
}

type statsServiceImpl struct {
	statsRepo          repository.StatsRepository
	sessionRepo        repository.SessionRepository
	achievementService AchievementService
	now                func() time.Time
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(
	statsRepo repository.StatsRepository,
	sessionRepo repository.SessionRepository,
	achievementService AchievementService,
) StatsService {
	return &statsServiceImpl{
		statsRepo:          statsRepo,
		sessionRepo:        sessionRepo,
		achievementService: achievementService,
		now:                time.Now,
	}
}

// GetStats returns the stored aggregate plus the derived accuracy, lazily
// initializing a zeroed record on first access.
func (s *statsServiceImpl) GetStats(ctx context.Context, userID string) (*dto.StatsResponse, error) {
	stats, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}
	return statsResponse(*stats), nil
}

// UpdateStats folds one completed game into the aggregate and evaluates
// achievements against the post-update values.
func (s *statsServiceImpl) UpdateStats(ctx context.Context, userID string, req dto.UpdateStatsRequest) (*dto.UpdateStatsResponse, error) {
	if req.Difficulty != "" && !domain.IsValidDifficulty(req.Difficulty) {
		return nil, domain.NewInvalidDifficultyError(req.Difficulty)
	}
	if req.Category != "" && !domain.IsValidCategory(req.Category) {
		return nil, domain.NewInvalidCategoryError(req.Category)
	}

	stats, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.now().Format(dateLayout)
	yesterday := s.now().AddDate(0, 0, -1).Format(dateLayout)
	newStreak := nextStreak(stats.CurrentStreak, stats.LastPlayedDate, today, yesterday)

	var updated domain.UserStats
	matched, err := s.statsRepo.UpdateByUser(ctx, userID, func(st *domain.UserStats) {
		st.TotalGames++
		st.TotalCorrect += req.CorrectAnswers
		st.TotalQuestions += req.TotalQuestions
		if req.Score > st.HighestScore {
			st.HighestScore = req.Score
		}
		st.CurrentStreak = newStreak
		if newStreak > st.LongestStreak {
			st.LongestStreak = newStreak
		}
		st.LastPlayedDate = today
		for _, outcome := range req.Questions {
			if !outcome.IsCorrect {
				continue
			}
			switch outcome.Operation {
			case domain.CategoryAddition:
				st.AdditionCorrect++
			case domain.CategorySubtraction:
				st.SubtractionCorrect++
			case domain.CategoryMultiplication:
				st.MultiplicationCorrect++
			case domain.CategoryDivision:
				st.DivisionCorrect++
			}
			// Unrecognized operation tags are ignored, not errors.
		}
		updated = *st
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to update stats", err)
	}
	if !matched {
		return nil, domain.NewUserNotFoundError(userID)
	}

	newAchievements, err := s.achievementService.EvaluateAndAward(ctx, userID, updated, PlayedGame{
		Score:          req.Score,
		CorrectAnswers: req.CorrectAnswers,
		TotalQuestions: req.TotalQuestions,
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Stats updated",
		zap.String("userID", userID),
		zap.Int("totalGames", updated.TotalGames),
		zap.Int("currentStreak", updated.CurrentStreak),
		zap.Int("newAchievements", len(newAchievements)))

	return &dto.UpdateStatsResponse{
		Stats: dto.StatsSummary{
			TotalGames:     updated.TotalGames,
			TotalCorrect:   updated.TotalCorrect,
			TotalQuestions: updated.TotalQuestions,
			HighestScore:   updated.HighestScore,
			CurrentStreak:  updated.CurrentStreak,
			LongestStreak:  updated.LongestStreak,
		},
		NewAchievements: newAchievements,
	}, nil
}

// nextStreak applies the day-over-day transition: same day keeps the
// streak, consecutive day increments it, anything else resets to 1.
func nextStreak(current int, lastPlayed, today, yesterday string) int {
	switch lastPlayed {
	case today:
		return current
	case yesterday:
		return current + 1
	default:
		return 1
	}
}

// Recalculate rebuilds totalGames/totalCorrect/totalQuestions/highestScore
// from a full scan of the user's sessions and questions, ignoring the
// stored incremental values. Streak state and per-operation tallies are
// not recoverable from session records and are left untouched.
func (s *statsServiceImpl) Recalculate(ctx context.Context, userID string) error {
	sessions, err := s.sessionRepo.SessionsByUser(ctx, userID)
	if err != nil {
		return domain.NewInternalError("failed to load sessions", err)
	}

	totalGames := 0
	totalCorrect := 0
	totalQuestions := 0
	highestScore := 0
	for _, session := range sessions {
		totalGames++
		questions, err := s.sessionRepo.QuestionsBySession(ctx, session.ID)
		if err != nil {
			return domain.NewInternalError("failed to load session questions", err)
		}
		for _, q := range questions {
			totalQuestions++
			if q.IsCorrect {
				totalCorrect++
			}
		}
		if session.Score > highestScore {
			highestScore = session.Score
		}
	}

	matched, err := s.statsRepo.UpdateByUser(ctx, userID, func(st *domain.UserStats) {
		st.TotalGames = totalGames
		st.TotalCorrect = totalCorrect
		st.TotalQuestions = totalQuestions
		st.HighestScore = highestScore
	})
	if err != nil {
		return domain.NewInternalError("failed to store recalculated stats", err)
	}
	if !matched {
		// No stats record yet means nothing to reconcile.
		return nil
	}
	logger.Get().Info("Stats recalculated", zap.String("userID", userID), zap.Int("totalGames", totalGames))
	return nil
}

// Reset zeroes every cumulative and streak field.
func (s *statsServiceImpl) Reset(ctx context.Context, userID string) error {
	matched, err := s.statsRepo.UpdateByUser(ctx, userID, func(st *domain.UserStats) {
		*st = domain.UserStats{Meta: st.Meta, UserID: st.UserID}
	})
	if err != nil {
		return domain.NewInternalError("failed to reset stats", err)
	}
	if !matched {
		return nil
	}
	return nil
}

func (s *statsServiceImpl) loadOrInit(ctx context.Context, userID string) (*domain.UserStats, error) {
	stats, err := s.statsRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load stats", err)
	}
	if stats != nil {
		return stats, nil
	}
	if _, err := s.statsRepo.Create(ctx, domain.UserStats{UserID: userID}); err != nil {
		return nil, domain.NewInternalError("failed to initialize stats", err)
	}
	stats, err = s.statsRepo.GetByUser(ctx, userID)
	if err != nil || stats == nil {
		return nil, domain.NewInternalError("failed to reload stats", err)
	}
	return stats, nil
}

func statsResponse(stats domain.UserStats) *dto.StatsResponse {
	return &dto.StatsResponse{
		TotalGames:            stats.TotalGames,
		TotalCorrect:          stats.TotalCorrect,
		TotalQuestions:        stats.TotalQuestions,
		HighestScore:          stats.HighestScore,
		CurrentStreak:         stats.CurrentStreak,
		LongestStreak:         stats.LongestStreak,
		LastPlayedDate:        stats.LastPlayedDate,
		AdditionCorrect:       stats.AdditionCorrect,
		SubtractionCorrect:    stats.SubtractionCorrect,
		MultiplicationCorrect: stats.MultiplicationCorrect,
		DivisionCorrect:       stats.DivisionCorrect,
		Accuracy:              stats.Accuracy(),
	}
}
