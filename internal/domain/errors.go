package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode identifies a specific failure kind so callers can branch on it.
type ErrorCode string

const (
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Identity errors
	ErrNotAuthenticated   ErrorCode = "NOT_AUTHENTICATED"
	ErrInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrInvalidPassword    ErrorCode = "INVALID_PASSWORD"
	ErrDuplicateEmail     ErrorCode = "DUPLICATE_EMAIL"
	ErrNoDeletedAccount   ErrorCode = "NO_DELETED_ACCOUNT"
	ErrUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrInvalidTheme       ErrorCode = "INVALID_THEME"

	// Quiz errors
	ErrInvalidDifficulty ErrorCode = "INVALID_DIFFICULTY"
	ErrInvalidCategory   ErrorCode = "INVALID_CATEGORY"
	ErrSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	ErrQuestionNotFound  ErrorCode = "QUESTION_NOT_FOUND"
	ErrNoRecordToDelete  ErrorCode = "NO_RECORD_TO_DELETE"
)

// DomainError is the single error type crossing component boundaries.
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper constructors for common errors

func NewNotAuthenticatedError() *DomainError {
	return NewError(ErrNotAuthenticated, "Not authenticated", nil)
}

func NewInvalidCredentialsError() *DomainError {
	// Deliberately generic: must not distinguish unknown email from wrong password.
	return NewError(ErrInvalidCredentials, "Invalid email or password", nil)
}

func NewInvalidPasswordError() *DomainError {
	return NewError(ErrInvalidPassword, "Invalid password", nil)
}

func NewDuplicateEmailError(email string) *DomainError {
	return NewError(ErrDuplicateEmail, fmt.Sprintf("Email already registered: %s", email), nil)
}

func NewNoDeletedAccountError(email string) *DomainError {
	return NewError(ErrNoDeletedAccount, fmt.Sprintf("No deleted account found with email: %s", email), nil)
}

func NewUserNotFoundError(userID string) *DomainError {
	return NewError(ErrUserNotFound, fmt.Sprintf("User not found: %s", userID), nil)
}

func NewInvalidDifficultyError(difficulty string) *DomainError {
	return NewError(ErrInvalidDifficulty, fmt.Sprintf("Invalid difficulty level: %s", difficulty), nil)
}

func NewInvalidCategoryError(category string) *DomainError {
	return NewError(ErrInvalidCategory, fmt.Sprintf("Invalid category: %s", category), nil)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(ErrSessionNotFound, fmt.Sprintf("Session not found: %s", sessionID), nil)
}

func NewQuestionNotFoundError(sessionID string, ordinal int) *DomainError {
	return NewError(ErrQuestionNotFound, fmt.Sprintf("Question %d not found in session %s", ordinal, sessionID), nil)
}

func NewNoRecordToDeleteError() *DomainError {
	return NewError(ErrNoRecordToDelete, "No score to delete", nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}
