package domain

import (
	"strings"
	"time"

	"mathquiz/internal/store"
)

// Collection names as stored in the key-value substrate.
const (
	CollectionUsers            = "users"
	CollectionQuizSessions     = "quiz_sessions"
	CollectionQuizQuestions    = "quiz_questions"
	CollectionUserStats        = "user_stats"
	CollectionAchievements     = "achievements"
	CollectionUserAchievements = "user_achievements"
)

// Recognized difficulty tiers and question categories.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	CategoryAddition       = "addition"
	CategorySubtraction    = "subtraction"
	CategoryMultiplication = "multiplication"
	CategoryDivision       = "division"
	CategoryMixed          = "mixed"

	ThemeDark  = "dark"
	ThemeLight = "light"
)

func IsValidDifficulty(difficulty string) bool {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func IsValidCategory(category string) bool {
	switch category {
	case CategoryAddition, CategorySubtraction, CategoryMultiplication, CategoryDivision, CategoryMixed:
		return true
	}
	return false
}

func IsValidTheme(theme string) bool {
	return theme == ThemeDark || theme == ThemeLight
}

// NormalizeEmail lowercases an email for the uniqueness check; emails are
// stored and compared in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User is an account record. At most one non-deleted user exists per
// normalized email; soft-deleted users keep their owned data and may be
// resurrected by a later registration with the same email.
type User struct {
	store.Meta
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password"`
	Theme        string     `json:"theme"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// QuizSession is one play-through. Created with a zero score at quiz start
// and mutated once at finish; immutable afterward except for deletion.
type QuizSession struct {
	store.Meta
	UserID         string `json:"user_id"`
	Difficulty     string `json:"difficulty"`
	Category       string `json:"category"`
	Score          int    `json:"score"`
	TimeLeft       int    `json:"time_left"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
}

// QuizQuestion belongs to exactly one session and is cascade-deleted with
// it. UserAnswer stays nil until the question is answered.
type QuizQuestion struct {
	store.Meta
	SessionID      string  `json:"session_id"`
	QuestionNumber int     `json:"question_number"`
	Question       string  `json:"question"`
	CorrectAnswer  string  `json:"correct_answer"`
	UserAnswer     *string `json:"user_answer"`
	IsCorrect      bool    `json:"is_correct"`
}

// UserStats is the per-user aggregate. It is a derived cache over the
// session/question ground truth, reconcilable through recalculation.
type UserStats struct {
	store.Meta
	UserID                string `json:"user_id"`
	TotalGames            int    `json:"total_games"`
	TotalCorrect          int    `json:"total_correct"`
	TotalQuestions        int    `json:"total_questions"`
	HighestScore          int    `json:"highest_score"`
	CurrentStreak         int    `json:"current_streak"`
	LongestStreak         int    `json:"longest_streak"`
	LastPlayedDate        string `json:"last_played_date,omitempty"` // YYYY-MM-DD
	AdditionCorrect       int    `json:"addition_correct"`
	SubtractionCorrect    int    `json:"subtraction_correct"`
	MultiplicationCorrect int    `json:"multiplication_correct"`
	DivisionCorrect       int    `json:"division_correct"`
}

// Accuracy derives the percentage of correct answers, 0 when no questions
// have been answered.
func (s UserStats) Accuracy() int {
	if s.TotalQuestions == 0 {
		return 0
	}
	return int(float64(s.TotalCorrect)/float64(s.TotalQuestions)*100 + 0.5)
}

// Requirement kinds for achievement definitions.
const (
	RequirementGames          = "games"
	RequirementPerfect        = "perfect"
	RequirementStreak         = "streak"
	RequirementCorrect        = "correct"
	RequirementScore          = "score"
	RequirementAddition       = "addition"
	RequirementSubtraction    = "subtraction"
	RequirementMultiplication = "multiplication"
	RequirementDivision       = "division"
)

// Achievement is a catalog entry. The catalog is seeded once and never
// migrated or re-seeded.
type Achievement struct {
	store.Meta
	Name             string `json:"name"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	RequirementType  string `json:"requirement_type"`
	RequirementValue int    `json:"requirement_value"`
	Points           int    `json:"points"`
}

// UserAchievement joins a user to an earned achievement. Created at most
// once per (user, achievement) pair.
type UserAchievement struct {
	store.Meta
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}

// QuestionOutcome is a caller-supplied per-question result, used to
// back-fill question rows at score-save time and to feed the per-operation
// tallies. Operation may be empty or unrecognized; such entries are
// ignored for tallying, not rejected.
type QuestionOutcome struct {
	QuestionNumber int    `json:"questionNumber"`
	Question       string `json:"question"`
	CorrectAnswer  string `json:"correctAnswer"`
	UserAnswer     string `json:"userAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
	Operation      string `json:"operation,omitempty"`
}
