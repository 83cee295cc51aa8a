package middleware

import (
	"errors"
	"net/http"

	"mathquiz/internal/domain"
	"mathquiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorHandler is the centralized fiber error handler: domain errors map to
// stable codes and statuses, everything else becomes a 500.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appLogger := logger.Get()

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)
			if statusCode >= http.StatusInternalServerError {
				appLogger.Error("Domain error occurred",
					zap.String("code", string(domainErr.Code)),
					zap.String("path", c.Path()),
					zap.Error(domainErr.Err),
				)
			} else {
				appLogger.Warn("Request failed",
					zap.String("code", string(domainErr.Code)),
					zap.String("path", c.Path()),
				)
			}
			return c.Status(statusCode).JSON(ErrorResponse{
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Status:  statusCode,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		appLogger.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.ErrInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}

func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.ErrNotAuthenticated, domain.ErrInvalidCredentials, domain.ErrInvalidPassword:
		return http.StatusUnauthorized
	case domain.ErrDuplicateEmail:
		return http.StatusConflict
	case domain.ErrNoDeletedAccount, domain.ErrUserNotFound,
		domain.ErrSessionNotFound, domain.ErrQuestionNotFound, domain.ErrNoRecordToDelete:
		return http.StatusNotFound
	case domain.ErrInvalidDifficulty, domain.ErrInvalidCategory, domain.ErrInvalidTheme, domain.ErrInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
