package service

import (
	"context"
	"testing"
	"time"

	"mathquiz/internal/domain"
	"mathquiz/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_StartSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "Alice", "alice@example.com")

	resp, err := env.sessions.StartSession(ctx, userID, domain.DifficultyMedium, 0, 60)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)

	session, err := env.sessionRepo.GetSession(ctx, resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, 10, session.TotalQuestions, "question count defaults to 10")
	assert.Equal(t, domain.CategoryMixed, session.Category)
	assert.Zero(t, session.Score)
}

func TestSessionService_StartSessionRejectsBadDifficulty(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sessions.StartSession(context.Background(), "u1", "extreme", 10, 60)
	assertDomainCode(t, err, domain.ErrInvalidDifficulty)
}

func TestSessionService_AnswerGrading(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "Alice", "alice@example.com")

	started, err := env.sessions.StartSession(ctx, userID, domain.DifficultyEasy, 2, 60)
	require.NoError(t, err)
	sessionID := started.SessionID

	require.NoError(t, env.sessions.AddQuestion(ctx, sessionID, 1, "7 + 5", "12"))
	require.NoError(t, env.sessions.AddQuestion(ctx, sessionID, 2, "9 - 4", "5"))

	// Grading is exact string comparison against the stored answer.
	correct, err := env.sessions.SubmitAnswer(ctx, sessionID, 1, "12")
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = env.sessions.SubmitAnswer(ctx, sessionID, 2, "6")
	require.NoError(t, err)
	assert.False(t, correct)

	// Re-submission overwrites: the last answer wins.
	correct, err = env.sessions.SubmitAnswer(ctx, sessionID, 2, "5")
	require.NoError(t, err)
	assert.True(t, correct)

	_, err = env.sessions.SubmitAnswer(ctx, sessionID, 99, "1")
	assertDomainCode(t, err, domain.ErrQuestionNotFound)
}

func TestSessionService_FinishRecountsCorrectAnswers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "Alice", "alice@example.com")

	started, err := env.sessions.StartSession(ctx, userID, domain.DifficultyEasy, 2, 60)
	require.NoError(t, err)
	sessionID := started.SessionID

	require.NoError(t, env.sessions.AddQuestion(ctx, sessionID, 1, "7 + 5", "12"))
	require.NoError(t, env.sessions.AddQuestion(ctx, sessionID, 2, "9 - 4", "5"))
	_, err = env.sessions.SubmitAnswer(ctx, sessionID, 1, "12")
	require.NoError(t, err)
	_, err = env.sessions.SubmitAnswer(ctx, sessionID, 2, "6")
	require.NoError(t, err)

	_, err = env.sessions.FinishSession(ctx, userID, sessionID, 55, 12)
	require.NoError(t, err)

	session, err := env.sessionRepo.GetSession(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, 55, session.Score)
	assert.Equal(t, 12, session.TimeLeft)
	assert.Equal(t, 1, session.CorrectAnswers, "correct count comes from the question records, not the caller")
}

func TestSessionService_FinishRejectsForeignSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.registerUser(t, "Alice", "alice@example.com")
	bobID := env.registerUser(t, "Bob", "bob@example.com")

	started, err := env.sessions.StartSession(ctx, aliceID, domain.DifficultyEasy, 5, 60)
	require.NoError(t, err)

	_, err = env.sessions.FinishSession(ctx, bobID, started.SessionID, 10, 0)
	assertDomainCode(t, err, domain.ErrSessionNotFound)

	_, err = env.sessions.FinishSession(ctx, aliceID, "no-such-session", 10, 0)
	assertDomainCode(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_HistoryNewestFirstWithQuestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "Alice", "alice@example.com")

	_, err := env.sessions.SaveScore(ctx, userID, dto.SaveScoreRequest{
		Score: 10, CorrectAnswers: 1, TotalQuestions: 1, Difficulty: domain.DifficultyEasy,
		Questions: []domain.QuestionOutcome{{QuestionNumber: 1, Question: "1+1", CorrectAnswer: "2", UserAnswer: "2", IsCorrect: true}},
	})
	require.NoError(t, err)
	second, err := env.sessions.SaveScore(ctx, userID, dto.SaveScoreRequest{
		Score: 90, CorrectAnswers: 1, TotalQuestions: 1, Difficulty: domain.DifficultyHard,
	})
	require.NoError(t, err)

	history, err := env.sessions.GetHistory(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.SessionID, history[0].ID, "newest session first")
	assert.Len(t, history[1].Questions, 1)
	assert.Equal(t, "1+1", history[1].Questions[0].Question)
}

func TestSessionService_SaveScoreValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sessions.SaveScore(ctx, "u1", dto.SaveScoreRequest{Difficulty: "extreme"})
	assertDomainCode(t, err, domain.ErrInvalidDifficulty)

	_, err = env.sessions.SaveScore(ctx, "u1", dto.SaveScoreRequest{Difficulty: domain.DifficultyEasy, Category: "calculus"})
	assertDomainCode(t, err, domain.ErrInvalidCategory)

	// Empty category defaults to mixed.
	resp, err := env.sessions.SaveScore(ctx, "u1", dto.SaveScoreRequest{Difficulty: domain.DifficultyEasy})
	require.NoError(t, err)
	session, err := env.sessionRepo.GetSession(ctx, resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, domain.CategoryMixed, session.Category)
}

func TestSessionService_DeleteSessionCascadesQuestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "Alice", "alice@example.com")

	resp, err := env.sessions.SaveScore(ctx, userID, dto.SaveScoreRequest{
		Score: 10, CorrectAnswers: 1, TotalQuestions: 1, Difficulty: domain.DifficultyEasy,
		Questions: []domain.QuestionOutcome{{QuestionNumber: 1, IsCorrect: true}},
	})
	require.NoError(t, err)

	require.NoError(t, env.sessions.DeleteSession(ctx, resp.SessionID))
	// Idempotent.
	require.NoError(t, env.sessions.DeleteSession(ctx, resp.SessionID))

	questions, err := env.sessionRepo.QuestionsBySession(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestSessionService_DeleteLatestScoreReconcilesStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "Alice", "alice@example.com")

	for _, score := range []int{30, 90} {
		_, err := env.sessions.SaveScore(ctx, userID, dto.SaveScoreRequest{
			Score: score, CorrectAnswers: 1, TotalQuestions: 2, Difficulty: domain.DifficultyEasy,
			Questions: []domain.QuestionOutcome{
				{QuestionNumber: 1, IsCorrect: true},
				{QuestionNumber: 2, IsCorrect: false},
			},
		})
		require.NoError(t, err)
		env.playGame(t, userID, score, 1, 2, nil)
	}

	require.NoError(t, env.sessions.DeleteLatestScore(ctx, userID))

	scores, err := env.sessions.GetScores(ctx, userID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 30, scores[0].Score, "the newest session is the one removed")

	stats, err := env.stats.GetStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 30, stats.HighestScore, "the highest score drops when its session goes")
}

func TestSessionService_DeleteLatestScoreWithoutRecords(t *testing.T) {
	env := newTestEnv(t)
	userID := env.registerUser(t, "Alice", "alice@example.com")

	err := env.sessions.DeleteLatestScore(context.Background(), userID)
	assertDomainCode(t, err, domain.ErrNoRecordToDelete)
}

func TestSessionService_DeleteAllScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "Alice", "alice@example.com")

	_, err := env.sessions.SaveScore(ctx, userID, dto.SaveScoreRequest{
		Score: 100, CorrectAnswers: 10, TotalQuestions: 10, Difficulty: domain.DifficultyHard,
	})
	require.NoError(t, err)
	env.playGame(t, userID, 100, 10, 10, nil)

	require.NoError(t, env.sessions.DeleteAllScores(ctx, userID))

	scores, err := env.sessions.GetScores(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, scores)

	stats, err := env.stats.GetStats(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalGames)
	assert.Zero(t, stats.CurrentStreak)

	earned, err := env.achievementRepo.EarnedByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, earned, "earned achievements reset with the records")

	// Achievements become earnable again after the wipe.
	resp := env.playGame(t, userID, 50, 5, 10, nil)
	assert.Contains(t, achievementNames(resp.NewAchievements), "First Steps")
}

// TestFullGameFlow walks the complete loop one client performs: register,
// record a perfect game, fold it into the stats and read everything back.
func TestFullGameFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.setClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	registered, err := env.auth.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	userID := registered.User.ID

	outcomes := make([]domain.QuestionOutcome, 10)
	for i := range outcomes {
		outcomes[i] = domain.QuestionOutcome{
			QuestionNumber: i + 1,
			IsCorrect:      true,
			Operation:      domain.CategoryAddition,
		}
	}
	_, err = env.sessions.SaveScore(ctx, userID, dto.SaveScoreRequest{
		Score: 100, CorrectAnswers: 10, TotalQuestions: 10,
		Difficulty: domain.DifficultyMedium, Questions: outcomes,
	})
	require.NoError(t, err)

	updated, err := env.stats.UpdateStats(ctx, userID, dto.UpdateStatsRequest{
		Score: 100, CorrectAnswers: 10, TotalQuestions: 10,
		Difficulty: domain.DifficultyMedium, Questions: outcomes,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Stats.TotalGames)
	assert.Equal(t, 1, updated.Stats.CurrentStreak)
	assert.Equal(t, 100, updated.Stats.HighestScore)

	unlocked := achievementNames(updated.NewAchievements)
	assert.Contains(t, unlocked, "First Steps")
	assert.Contains(t, unlocked, "Perfect Score")
	assert.Contains(t, unlocked, "High Scorer")
	assert.Len(t, unlocked, 3)

	stats, err := env.stats.GetStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 100, stats.Accuracy)
	assert.Equal(t, 10, stats.AdditionCorrect)

	board, err := env.leaderboard.GetLeaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "alice", board[0].Username)
	assert.Equal(t, 100, board[0].TotalScore)
}
