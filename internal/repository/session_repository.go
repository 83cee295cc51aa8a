package repository

import (
	"context"
	"sort"

	"mathquiz/internal/domain"
	"mathquiz/internal/store"
)

// SessionRepository covers quiz sessions and their owned question records.
// Questions are cascade-deleted with their session.
type SessionRepository interface {
	CreateSession(ctx context.Context, session domain.QuizSession) (string, error)
	GetSession(ctx context.Context, sessionID string) (*domain.QuizSession, error)
	SessionsByUser(ctx context.Context, userID string) ([]domain.QuizSession, error)
	UpdateSession(ctx context.Context, sessionID string, mutate func(*domain.QuizSession)) (bool, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteSessionsByUser(ctx context.Context, userID string) error

	CreateQuestion(ctx context.Context, question domain.QuizQuestion) (string, error)
	QuestionsBySession(ctx context.Context, sessionID string) ([]domain.QuizQuestion, error)
	UpdateQuestion(ctx context.Context, questionID string, mutate func(*domain.QuizQuestion)) (bool, error)
	DeleteQuestionsBySession(ctx context.Context, sessionID string) error
}

type storeSessionRepository struct {
	sessions  *store.Collection[domain.QuizSession]
	questions *store.Collection[domain.QuizQuestion]
}

// NewSessionRepository creates a SessionRepository backed by the record store.
func NewSessionRepository(s *store.Store) SessionRepository {
	return &storeSessionRepository{
		sessions:  store.NewCollection[domain.QuizSession](s, domain.CollectionQuizSessions),
		questions: store.NewCollection[domain.QuizQuestion](s, domain.CollectionQuizQuestions),
	}
}

func (r *storeSessionRepository) CreateSession(ctx context.Context, session domain.QuizSession) (string, error) {
	return r.sessions.Insert(ctx, session)
}

func (r *storeSessionRepository) GetSession(ctx context.Context, sessionID string) (*domain.QuizSession, error) {
	session, ok, err := r.sessions.Find(ctx, func(s domain.QuizSession) bool { return s.ID == sessionID })
	if err != nil || !ok {
		return nil, err
	}
	return &session, nil
}

// SessionsByUser returns the user's sessions sorted newest first.
func (r *storeSessionRepository) SessionsByUser(ctx context.Context, userID string) ([]domain.QuizSession, error) {
	sessions, err := r.sessions.Filter(ctx, func(s domain.QuizSession) bool { return s.UserID == userID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
		}
		// Timestamps can collide; IDs are monotonic and break the tie.
		return sessions[i].ID > sessions[j].ID
	})
	return sessions, nil
}

func (r *storeSessionRepository) UpdateSession(ctx context.Context, sessionID string, mutate func(*domain.QuizSession)) (bool, error) {
	return r.sessions.Update(ctx, sessionID, mutate)
}

func (r *storeSessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return r.sessions.Delete(ctx, sessionID)
}

func (r *storeSessionRepository) DeleteSessionsByUser(ctx context.Context, userID string) error {
	sessions, err := r.SessionsByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if err := r.DeleteQuestionsBySession(ctx, session.ID); err != nil {
			return err
		}
	}
	_, err = r.sessions.DeleteWhere(ctx, func(s domain.QuizSession) bool { return s.UserID == userID })
	return err
}

func (r *storeSessionRepository) CreateQuestion(ctx context.Context, question domain.QuizQuestion) (string, error) {
	return r.questions.Insert(ctx, question)
}

// QuestionsBySession returns a session's questions in ordinal order.
func (r *storeSessionRepository) QuestionsBySession(ctx context.Context, sessionID string) ([]domain.QuizQuestion, error) {
	questions, err := r.questions.Filter(ctx, func(q domain.QuizQuestion) bool { return q.SessionID == sessionID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].QuestionNumber < questions[j].QuestionNumber
	})
	return questions, nil
}

func (r *storeSessionRepository) UpdateQuestion(ctx context.Context, questionID string, mutate func(*domain.QuizQuestion)) (bool, error) {
	return r.questions.Update(ctx, questionID, mutate)
}

func (r *storeSessionRepository) DeleteQuestionsBySession(ctx context.Context, sessionID string) error {
	_, err := r.questions.DeleteWhere(ctx, func(q domain.QuizQuestion) bool { return q.SessionID == sessionID })
	return err
}
