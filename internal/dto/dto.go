package dto

import (
	"time"

	"mathquiz/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the signed claims carried by an issued token.
type AuthClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// --- Auth DTOs ---

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RestoreAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordRequest carries the password confirmation for destructive
// account operations.
type PasswordRequest struct {
	Password string `json:"password"`
}

type ThemeRequest struct {
	Theme string `json:"theme"`
}

// UserView is the user shape returned to the client; never includes the
// credential hash.
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Theme string `json:"theme"`
}

// AdminUserView includes lifecycle fields for the account overview.
type AdminUserView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Theme     string     `json:"theme"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// MessageResponse is a generic confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// --- Quiz session DTOs ---

type StartQuizRequest struct {
	Difficulty     string `json:"difficulty"`
	TotalQuestions int    `json:"totalQuestions"`
	TimeLimit      int    `json:"timeLimit"`
}

type StartQuizResponse struct {
	SessionID string `json:"sessionId"`
	TimeLeft  int    `json:"time_left"`
}

type AddQuestionRequest struct {
	SessionID      string `json:"sessionId"`
	QuestionNumber int    `json:"questionNumber"`
	Question       string `json:"question"`
	CorrectAnswer  string `json:"correctAnswer"`
}

type SubmitAnswerRequest struct {
	SessionID      string `json:"sessionId"`
	QuestionNumber int    `json:"questionNumber"`
	UserAnswer     string `json:"userAnswer"`
}

type SubmitAnswerResponse struct {
	IsCorrect bool `json:"is_correct"`
}

type FinishQuizRequest struct {
	SessionID string `json:"sessionId"`
	Score     int    `json:"score"`
	TimeLeft  int    `json:"timeLeft"`
}

type FinishQuizResponse struct {
	SessionID string `json:"sessionId"`
	Score     int    `json:"score"`
	TimeLeft  int    `json:"time_left"`
}

type SaveScoreRequest struct {
	Score          int                      `json:"score"`
	CorrectAnswers int                      `json:"correctAnswers"`
	TotalQuestions int                      `json:"totalQuestions"`
	Difficulty     string                   `json:"difficulty"`
	Category       string                   `json:"category,omitempty"`
	Questions      []domain.QuestionOutcome `json:"questions,omitempty"`
}

type SaveScoreResponse struct {
	SessionID string `json:"sessionId"`
}

type QuestionView struct {
	QuestionNumber int     `json:"question_number"`
	Question       string  `json:"question"`
	CorrectAnswer  string  `json:"correct_answer"`
	UserAnswer     *string `json:"user_answer"`
	IsCorrect      bool    `json:"is_correct"`
}

// SessionView is one session with its questions, newest session first in
// history listings.
type SessionView struct {
	ID             string         `json:"id"`
	Difficulty     string         `json:"difficulty"`
	Category       string         `json:"category"`
	Score          int            `json:"score"`
	TimeLeft       int            `json:"time_left"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	CreatedAt      time.Time      `json:"created_at"`
	Questions      []QuestionView `json:"questions,omitempty"`
}

// --- Stats DTOs ---

type StatsResponse struct {
	TotalGames            int    `json:"total_games"`
	TotalCorrect          int    `json:"total_correct"`
	TotalQuestions        int    `json:"total_questions"`
	HighestScore          int    `json:"highest_score"`
	CurrentStreak         int    `json:"current_streak"`
	LongestStreak         int    `json:"longest_streak"`
	LastPlayedDate        string `json:"last_played_date,omitempty"`
	AdditionCorrect       int    `json:"addition_correct"`
	SubtractionCorrect    int    `json:"subtraction_correct"`
	MultiplicationCorrect int    `json:"multiplication_correct"`
	DivisionCorrect       int    `json:"division_correct"`
	Accuracy              int    `json:"accuracy"`
}

type UpdateStatsRequest struct {
	Score          int                      `json:"score"`
	CorrectAnswers int                      `json:"correctAnswers"`
	TotalQuestions int                      `json:"totalQuestions"`
	Difficulty     string                   `json:"difficulty"`
	Category       string                   `json:"category"`
	Questions      []domain.QuestionOutcome `json:"questions,omitempty"`
}

type StatsSummary struct {
	TotalGames     int `json:"totalGames"`
	TotalCorrect   int `json:"totalCorrect"`
	TotalQuestions int `json:"totalQuestions"`
	HighestScore   int `json:"highestScore"`
	CurrentStreak  int `json:"currentStreak"`
	LongestStreak  int `json:"longestStreak"`
}

type UpdateStatsResponse struct {
	Stats           StatsSummary      `json:"stats"`
	NewAchievements []AchievementView `json:"newAchievements"`
}

// --- Achievement DTOs ---

type AchievementView struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Icon             string     `json:"icon"`
	RequirementType  string     `json:"requirement_type"`
	RequirementValue int        `json:"requirement_value"`
	Points           int        `json:"points"`
	Earned           bool       `json:"earned"`
	EarnedAt         *time.Time `json:"earnedAt,omitempty"`
}

// --- Leaderboard DTOs ---

type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	TotalScore  int    `json:"totalScore"`
	GamesPlayed int    `json:"gamesPlayed"`
}
