package handlers

import (
	"errors"

	"lockedin/internal/services"
	"lockedin/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// LeaderboardHandler handles the read-only top-users aggregation.
type LeaderboardHandler struct {
	service *services.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(service *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
	}
}

// RegisterRoutes registers the leaderboard route behind the auth guard. Any
// valid identity may read the leaderboard.
func (h *LeaderboardHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/top-users", auth, h.HandleTopUsers)
}

// HandleTopUsers returns up to 20 users ranked by study hours within the
// requested timeframe (defaults to all-time when the parameter is absent).
func (h *LeaderboardHandler) HandleTopUsers(c *fiber.Ctx) error {
	entries, err := h.service.TopUsers(c.UserContext(), c.Query("timeframe"))
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid timeframe parameter",
			})
		}
		logger.Get().Error().Err(err).Msg("leaderboard query failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
		})
	}
	return c.JSON(entries)
}
