package service

import (
	"context"
	"testing"
	"time"

	"mathquiz/internal/config"
	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/repository"
	"mathquiz/internal/store"

	"github.com/stretchr/testify/require"
)

// testEnv wires the full service stack over an in-memory substrate so
// behavior is exercised through the real repositories and persistence
// cycle, not mocks.
type testEnv struct {
	userRepo        repository.UserRepository
	sessionRepo     repository.SessionRepository
	statsRepo       repository.StatsRepository
	achievementRepo repository.AchievementRepository

	auth        AuthService
	sessions    SessionService
	stats       StatsService
	achievement AchievementService
	leaderboard LeaderboardService

	statsImpl       *statsServiceImpl
	achievementImpl *achievementServiceImpl
	authImpl        *authServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := store.New(store.NewMemorySubstrate(), "test:")

	env := &testEnv{
		userRepo:        repository.NewUserRepository(s),
		sessionRepo:     repository.NewSessionRepository(s),
		statsRepo:       repository.NewStatsRepository(s),
		achievementRepo: repository.NewAchievementRepository(s),
	}

	env.achievement = NewAchievementService(env.achievementRepo)
	env.stats = NewStatsService(env.statsRepo, env.sessionRepo, env.achievement)
	env.sessions = NewSessionService(env.sessionRepo, env.stats, env.achievementRepo)
	env.auth = NewAuthService(env.userRepo, env.sessionRepo, env.statsRepo, env.achievementRepo, config.JWTConfig{
		SecretKey: "testsecretkeydontuseinproduction32bytes!",
		TokenTTL:  24 * time.Hour,
	})
	env.leaderboard = NewLeaderboardService(env.userRepo, env.sessionRepo)

	env.statsImpl = env.stats.(*statsServiceImpl)
	env.achievementImpl = env.achievement.(*achievementServiceImpl)
	env.authImpl = env.auth.(*authServiceImpl)

	require.NoError(t, env.achievement.EnsureCatalog(context.Background()))
	return env
}

// setClock pins every time source in the stack to the given instant.
func (e *testEnv) setClock(at time.Time) {
	e.statsImpl.now = func() time.Time { return at }
	e.achievementImpl.now = func() time.Time { return at }
	e.authImpl.now = func() time.Time { return at }
}

// registerUser registers a fresh account and returns its id.
func (e *testEnv) registerUser(t *testing.T, name, email string) string {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), name, email, "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, resp.User.ID)
	return resp.User.ID
}

// playGame folds one finished game into the stats aggregate.
func (e *testEnv) playGame(t *testing.T, userID string, score, correct, total int, questions []domain.QuestionOutcome) *dto.UpdateStatsResponse {
	t.Helper()
	resp, err := e.stats.UpdateStats(context.Background(), userID, dto.UpdateStatsRequest{
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: total,
		Difficulty:     domain.DifficultyMedium,
		Questions:      questions,
	})
	require.NoError(t, err)
	return resp
}

func achievementNames(views []dto.AchievementView) []string {
	names := make([]string, len(views))
	for i, v := range views {
		names[i] = v.Name
	}
	return names
}
