package handler

import (
	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/middleware"
	"mathquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler exposes the aggregate stats, achievements and leaderboard.
type StatsHandler struct {
	statsService       service.StatsService
	achievementService service.AchievementService
	leaderboardService service.LeaderboardService
}

func NewStatsHandler(
	statsService service.StatsService,
	achievementService service.AchievementService,
	leaderboardService service.LeaderboardService,
) *StatsHandler {
	return &StatsHandler{
		statsService:       statsService,
		achievementService: achievementService,
		leaderboardService: leaderboardService,
	}
}

func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	stats, err := h.statsService.GetStats(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *StatsHandler) UpdateStats(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.statsService.UpdateStats(c.Context(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *StatsHandler) GetAchievements(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	achievements, err := h.achievementService.GetAchievements(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(achievements)
}

func (h *StatsHandler) GetLeaderboard(c *fiber.Ctx) error {
	leaderboard, err := h.leaderboardService.GetLeaderboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(leaderboard)
}
