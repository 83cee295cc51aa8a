package handler

import (
	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/middleware"
	"mathquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler exposes registration, login and account lifecycle endpoints.
type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.authService.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) RestoreAccount(c *fiber.Ctx) error {
	var req dto.RestoreAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.authService.RestoreAccount(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	user, err := h.authService.GetCurrentUser(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *AuthHandler) UpdateTheme(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req dto.ThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.authService.UpdateTheme(c.Context(), userID, req.Theme); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Theme updated"})
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req dto.PasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.authService.DeleteAccount(c.Context(), userID, req.Password); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Account deleted"})
}

func (h *AuthHandler) PermanentDeleteAccount(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req dto.PasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.authService.PermanentDeleteAccount(c.Context(), userID, req.Password); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Account permanently deleted"})
}
