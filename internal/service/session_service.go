package service

import (
	"context"

	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/logger"
	"mathquiz/internal/repository"

	"go.uber.org/zap"
)

// SessionService records quiz sessions and their per-question results.
type SessionService interface {
	StartSession(ctx context.Context, userID, difficulty string, totalQuestions, timeLimit int) (*dto.StartQuizResponse, error)
	AddQuestion(ctx context.Context, sessionID string, questionNumber int, question, correctAnswer string) error
	SubmitAnswer(ctx context.Context, sessionID string, questionNumber int, userAnswer string) (bool, error)
	FinishSession(ctx context.Context, userID, sessionID string, score, timeLeft int) (*dto.FinishQuizResponse, error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetHistory(ctx context.Context, userID string) ([]dto.SessionView, error)
	GetScores(ctx context.Context, userID string) ([]dto.SessionView, error)
	SaveScore(ctx context.Context, userID string, req dto.SaveScoreRequest) (*dto.SaveScoreResponse, error)
	DeleteAllScores(ctx context.Context, userID string) error
	DeleteLatestScore(ctx context.Context, userID string) error
}

type sessionServiceImpl struct {
	sessionRepo     repository.SessionRepository
	statsService    StatsService
	achievementRepo repository.AchievementRepository
}

// NewSessionService creates a new instance of SessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	statsService StatsService,
	achievementRepo repository.AchievementRepository,
) SessionService {
	return &sessionServiceImpl{
		sessionRepo:     sessionRepo,
		statsService:    statsService,
		achievementRepo: achievementRepo,
	}
}

func (s *sessionServiceImpl) StartSession(ctx context.Context, userID, difficulty string, totalQuestions, timeLimit int) (*dto.StartQuizResponse, error) {
	if !domain.IsValidDifficulty(difficulty) {
		return nil, domain.NewInvalidDifficultyError(difficulty)
	}
	if totalQuestions <= 0 {
		totalQuestions = 10
	}

	sessionID, err := s.sessionRepo.CreateSession(ctx, domain.QuizSession{
		UserID:         userID,
		Difficulty:     difficulty,
		Category:       domain.CategoryMixed,
		Score:          0,
		TimeLeft:       timeLimit,
		TotalQuestions: totalQuestions,
		CorrectAnswers: 0,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create session", err)
	}

	logger.Get().Info("Quiz session started",
		zap.String("userID", userID),
		zap.String("sessionID", sessionID),
		zap.String("difficulty", difficulty))
	return &dto.StartQuizResponse{SessionID: sessionID, TimeLeft: timeLimit}, nil
}

// AddQuestion pre-registers a question. Ordinals are caller-assigned and
// not checked for gaps or duplicates here.
func (s *sessionServiceImpl) AddQuestion(ctx context.Context, sessionID string, questionNumber int, question, correctAnswer string) error {
	_, err := s.sessionRepo.CreateQuestion(ctx, domain.QuizQuestion{
		SessionID:      sessionID,
		QuestionNumber: questionNumber,
		Question:       question,
		CorrectAnswer:  correctAnswer,
	})
	if err != nil {
		return domain.NewInternalError("failed to add question", err)
	}
	return nil
}

// SubmitAnswer stores the answer and its correctness. Re-submission
// overwrites the previous answer; the last write wins.
func (s *sessionServiceImpl) SubmitAnswer(ctx context.Context, sessionID string, questionNumber int, userAnswer string) (bool, error) {
	questions, err := s.sessionRepo.QuestionsBySession(ctx, sessionID)
	if err != nil {
		return false, domain.NewInternalError("failed to load questions", err)
	}

	var target *domain.QuizQuestion
	for i := range questions {
		if questions[i].QuestionNumber == questionNumber {
			target = &questions[i]
			break
		}
	}
	if target == nil {
		return false, domain.NewQuestionNotFoundError(sessionID, questionNumber)
	}

	isCorrect := userAnswer == target.CorrectAnswer
	answer := userAnswer
	if _, err := s.sessionRepo.UpdateQuestion(ctx, target.ID, func(q *domain.QuizQuestion) {
		q.UserAnswer = &answer
		q.IsCorrect = isCorrect
	}); err != nil {
		return false, domain.NewInternalError("failed to record answer", err)
	}
	return isCorrect, nil
}

// FinishSession recounts correct answers from the question records rather
// than trusting the caller-reported score.
func (s *sessionServiceImpl) FinishSession(ctx context.Context, userID, sessionID string, score, timeLeft int) (*dto.FinishQuizResponse, error) {
	session, err := s.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load session", err)
	}
	if session == nil || session.UserID != userID {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}

	questions, err := s.sessionRepo.QuestionsBySession(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}
	correctAnswers := 0
	for _, q := range questions {
		if q.IsCorrect {
			correctAnswers++
		}
	}

	if _, err := s.sessionRepo.UpdateSession(ctx, sessionID, func(sess *domain.QuizSession) {
		sess.Score = score
		sess.TimeLeft = timeLeft
		sess.CorrectAnswers = correctAnswers
	}); err != nil {
		return nil, domain.NewInternalError("failed to finish session", err)
	}

	logger.Get().Info("Quiz session finished",
		zap.String("sessionID", sessionID),
		zap.Int("score", score),
		zap.Int("correct", correctAnswers))
	return &dto.FinishQuizResponse{SessionID: sessionID, Score: score, TimeLeft: timeLeft}, nil
}

// DeleteSession cascade-deletes the session's questions, then the session.
// Idempotent: deleting an absent session is harmless.
func (s *sessionServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.DeleteQuestionsBySession(ctx, sessionID); err != nil {
		return domain.NewInternalError("failed to delete session questions", err)
	}
	if err := s.sessionRepo.DeleteSession(ctx, sessionID); err != nil {
		return domain.NewInternalError("failed to delete session", err)
	}
	return nil
}

// GetHistory returns the user's sessions newest first, each with its
// question records.
func (s *sessionServiceImpl) GetHistory(ctx context.Context, userID string) ([]dto.SessionView, error) {
	sessions, err := s.sessionRepo.SessionsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load sessions", err)
	}

	views := make([]dto.SessionView, len(sessions))
	for i, session := range sessions {
		questions, err := s.sessionRepo.QuestionsBySession(ctx, session.ID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load session questions", err)
		}
		questionViews := make([]dto.QuestionView, len(questions))
		for j, q := range questions {
			questionViews[j] = dto.QuestionView{
				QuestionNumber: q.QuestionNumber,
				Question:       q.Question,
				CorrectAnswer:  q.CorrectAnswer,
				UserAnswer:     q.UserAnswer,
				IsCorrect:      q.IsCorrect,
			}
		}
		views[i] = sessionView(session)
		views[i].Questions = questionViews
	}
	return views, nil
}

func (s *sessionServiceImpl) GetScores(ctx context.Context, userID string) ([]dto.SessionView, error) {
	sessions, err := s.sessionRepo.SessionsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load sessions", err)
	}
	views := make([]dto.SessionView, len(sessions))
	for i, session := range sessions {
		views[i] = sessionView(session)
	}
	return views, nil
}

// SaveScore records a finished game in one call: the session row plus, when
// provided, the per-question outcome rows.
func (s *sessionServiceImpl) SaveScore(ctx context.Context, userID string, req dto.SaveScoreRequest) (*dto.SaveScoreResponse, error) {
	if !domain.IsValidDifficulty(req.Difficulty) {
		return nil, domain.NewInvalidDifficultyError(req.Difficulty)
	}
	category := req.Category
	if category == "" {
		category = domain.CategoryMixed
	}
	if !domain.IsValidCategory(category) {
		return nil, domain.NewInvalidCategoryError(category)
	}

	sessionID, err := s.sessionRepo.CreateSession(ctx, domain.QuizSession{
		UserID:         userID,
		Difficulty:     req.Difficulty,
		Category:       category,
		Score:          req.Score,
		TimeLeft:       0,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to save score", err)
	}

	for _, outcome := range req.Questions {
		answer := outcome.UserAnswer
		if _, err := s.sessionRepo.CreateQuestion(ctx, domain.QuizQuestion{
			SessionID:      sessionID,
			QuestionNumber: outcome.QuestionNumber,
			Question:       outcome.Question,
			CorrectAnswer:  outcome.CorrectAnswer,
			UserAnswer:     &answer,
			IsCorrect:      outcome.IsCorrect,
		}); err != nil {
			return nil, domain.NewInternalError("failed to save question outcome", err)
		}
	}

	return &dto.SaveScoreResponse{SessionID: sessionID}, nil
}

// DeleteAllScores wipes the user's sessions and questions, zeroes the
// aggregate stats and removes every earned achievement.
func (s *sessionServiceImpl) DeleteAllScores(ctx context.Context, userID string) error {
	if err := s.sessionRepo.DeleteSessionsByUser(ctx, userID); err != nil {
		return domain.NewInternalError("failed to delete sessions", err)
	}
	if err := s.statsService.Reset(ctx, userID); err != nil {
		return err
	}
	if err := s.achievementRepo.DeleteByUser(ctx, userID); err != nil {
		return domain.NewInternalError("failed to delete achievements", err)
	}
	logger.Get().Info("All records deleted", zap.String("userID", userID))
	return nil
}

// DeleteLatestScore removes the newest session and reconciles the stats
// aggregate against the remaining ground truth.
func (s *sessionServiceImpl) DeleteLatestScore(ctx context.Context, userID string) error {
	sessions, err := s.sessionRepo.SessionsByUser(ctx, userID)
	if err != nil {
		return domain.NewInternalError("failed to load sessions", err)
	}
	if len(sessions) == 0 {
		return domain.NewNoRecordToDeleteError()
	}

	latest := sessions[0]
	if err := s.DeleteSession(ctx, latest.ID); err != nil {
		return err
	}
	return s.statsService.Recalculate(ctx, userID)
}

func sessionView(session domain.QuizSession) dto.SessionView {
	return dto.SessionView{
		ID:             session.ID,
		Difficulty:     session.Difficulty,
		Category:       session.Category,
		Score:          session.Score,
		TimeLeft:       session.TimeLeft,
		TotalQuestions: session.TotalQuestions,
		CorrectAnswers: session.CorrectAnswers,
		CreatedAt:      session.CreatedAt,
	}
}
