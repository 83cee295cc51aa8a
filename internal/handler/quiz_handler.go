package handler

import (
	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/middleware"
	"mathquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler exposes quiz session recording and score history endpoints.
type QuizHandler struct {
	sessionService service.SessionService
}

func NewQuizHandler(sessionService service.SessionService) *QuizHandler {
	return &QuizHandler{sessionService: sessionService}
}

func (h *QuizHandler) StartQuiz(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req dto.StartQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.sessionService.StartSession(c.Context(), userID, req.Difficulty, req.TotalQuestions, req.TimeLimit)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *QuizHandler) AddQuestion(c *fiber.Ctx) error {
	if _, err := middleware.UserID(c); err != nil {
		return err
	}
	var req dto.AddQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.sessionService.AddQuestion(c.Context(), req.SessionID, req.QuestionNumber, req.Question, req.CorrectAnswer); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Question added"})
}

func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	if _, err := middleware.UserID(c); err != nil {
		return err
	}
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	isCorrect, err := h.sessionService.SubmitAnswer(c.Context(), req.SessionID, req.QuestionNumber, req.UserAnswer)
	if err != nil {
		return err
	}
	return c.JSON(dto.SubmitAnswerResponse{IsCorrect: isCorrect})
}

func (h *QuizHandler) FinishQuiz(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req dto.FinishQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.sessionService.FinishSession(c.Context(), userID, req.SessionID, req.Score, req.TimeLeft)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *QuizHandler) GetHistory(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	history, err := h.sessionService.GetHistory(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(history)
}

func (h *QuizHandler) DeleteSession(c *fiber.Ctx) error {
	if _, err := middleware.UserID(c); err != nil {
		return err
	}
	if err := h.sessionService.DeleteSession(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Session deleted"})
}

func (h *QuizHandler) SaveScore(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req dto.SaveScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.sessionService.SaveScore(c.Context(), userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *QuizHandler) GetScores(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	scores, err := h.sessionService.GetScores(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(scores)
}

func (h *QuizHandler) DeleteAllScores(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	if err := h.sessionService.DeleteAllScores(c.Context(), userID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "All records, achievements and stats deleted"})
}

func (h *QuizHandler) DeleteLatestScore(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	if err := h.sessionService.DeleteLatestScore(c.Context(), userID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Latest score deleted and stats updated"})
}
