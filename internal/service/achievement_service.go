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

// PlayedGame captures the single game whose completion triggered an
// achievement check. Cumulative counters live in the post-update stats;
// these are the per-game values some requirement kinds evaluate directly.
type PlayedGame struct {
	Score          int
	CorrectAnswers int
	TotalQuestions int
}

// AchievementService seeds the catalog and evaluates unlocks after every
// stats update.
type AchievementService interface {
	EnsureCatalog(ctx context.Context) error
	GetAchievements(ctx context.Context, userID string) ([]dto.AchievementView, error)
	EvaluateAndAward(ctx context.Context, userID string, stats domain.UserStats, played PlayedGame) ([]dto.AchievementView, error)
}

type achievementServiceImpl struct {
	achievementRepo repository.AchievementRepository
	now             func() time.Time
}

// NewAchievementService creates a new instance of AchievementService.
func NewAchievementService(achievementRepo repository.AchievementRepository) AchievementService {
	return &achievementServiceImpl{
		achievementRepo: achievementRepo,
		now:             time.Now,
	}
}

func (s *achievementServiceImpl) EnsureCatalog(ctx context.Context) error {
	if err := s.achievementRepo.Seed(ctx); err != nil {
		return domain.NewInternalError("failed to seed achievement catalog", err)
	}
	return nil
}

// GetAchievements returns the full catalog merged with the user's earned
// state.
func (s *achievementServiceImpl) GetAchievements(ctx context.Context, userID string) ([]dto.AchievementView, error) {
	if err := s.EnsureCatalog(ctx); err != nil {
		return nil, err
	}
	catalog, err := s.achievementRepo.Catalog(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load achievement catalog", err)
	}
	earned, err := s.achievementRepo.EarnedByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load earned achievements", err)
	}

	earnedAt := make(map[string]time.Time, len(earned))
	for _, ua := range earned {
		earnedAt[ua.AchievementID] = ua.EarnedAt
	}

	views := make([]dto.AchievementView, len(catalog))
	for i, a := range catalog {
		views[i] = achievementView(a)
		if at, ok := earnedAt[a.ID]; ok {
			views[i].Earned = true
			at := at
			views[i].EarnedAt = &at
		}
	}
	return views, nil
}

// EvaluateAndAward checks every not-yet-earned catalog entry against the
// post-update stats and records each satisfied one exactly once.
func (s *achievementServiceImpl) EvaluateAndAward(ctx context.Context, userID string, stats domain.UserStats, played PlayedGame) ([]dto.AchievementView, error) {
	if err := s.EnsureCatalog(ctx); err != nil {
		return nil, err
	}
	catalog, err := s.achievementRepo.Catalog(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load achievement catalog", err)
	}
	earned, err := s.achievementRepo.EarnedByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load earned achievements", err)
	}
	earnedIDs := make(map[string]bool, len(earned))
	for _, ua := range earned {
		earnedIDs[ua.AchievementID] = true
	}

	unlocked := Evaluate(catalog, earnedIDs, stats, played)

	views := make([]dto.AchievementView, 0, len(unlocked))
	earnedTime := s.now()
	for _, a := range unlocked {
		if _, err := s.achievementRepo.Award(ctx, domain.UserAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			EarnedAt:      earnedTime,
		}); err != nil {
			return nil, domain.NewInternalError("failed to award achievement", err)
		}
		view := achievementView(a)
		view.Earned = true
		at := earnedTime
		view.EarnedAt = &at
		views = append(views, view)
		logger.Get().Info("Achievement unlocked",
			zap.String("userID", userID),
			zap.String("achievement", a.Name))
	}
	return views, nil
}

// Evaluate is the pure rule check: catalog entries in insertion order, each
// not-yet-earned requirement compared against the post-update cumulative
// values (every kind uses the same post-update convention). All satisfied
// entries fire together.
func Evaluate(catalog []domain.Achievement, earnedIDs map[string]bool, stats domain.UserStats, played PlayedGame) []domain.Achievement {
	var unlocked []domain.Achievement
	for _, a := range catalog {
		if earnedIDs[a.ID] {
			continue
		}
		if requirementMet(a, stats, played) {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

func requirementMet(a domain.Achievement, stats domain.UserStats, played PlayedGame) bool {
	switch a.RequirementType {
	case domain.RequirementGames:
		return stats.TotalGames >= a.RequirementValue
	case domain.RequirementPerfect:
		return played.TotalQuestions > 0 && played.CorrectAnswers == played.TotalQuestions
	case domain.RequirementStreak:
		return stats.CurrentStreak >= a.RequirementValue
	case domain.RequirementCorrect:
		return stats.TotalCorrect >= a.RequirementValue
	case domain.RequirementScore:
		return played.Score >= a.RequirementValue
	case domain.RequirementAddition:
		return stats.AdditionCorrect >= a.RequirementValue
	case domain.RequirementSubtraction:
		return stats.SubtractionCorrect >= a.RequirementValue
	case domain.RequirementMultiplication:
		return stats.MultiplicationCorrect >= a.RequirementValue
	case domain.RequirementDivision:
		return stats.DivisionCorrect >= a.RequirementValue
	}
	return false
}

func achievementView(a domain.Achievement) dto.AchievementView {
	return dto.AchievementView{
		ID:               a.ID,
		Name:             a.Name,
		Description:      a.Description,
		Icon:             a.Icon,
		RequirementType:  a.RequirementType,
		RequirementValue: a.RequirementValue,
		Points:           a.Points,
	}
}
