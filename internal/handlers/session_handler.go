package handlers

import (
	"errors"

	"lockedin/internal/middleware"
	"lockedin/internal/services"
	"lockedin/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles HTTP requests for the append-only study session
// history. There are deliberately no update or delete routes.
type SessionHandler struct {
	service *services.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{
		service: service,
	}
}

// RegisterRoutes registers the session routes, all behind the auth guard.
func (h *SessionHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/sessions", auth, h.HandleListSessions)
	router.Post("/sessions", auth, h.HandleLogSession)
}

// HandleListSessions returns the caller's session history with durations
// formatted as HH:MM:SS.
func (h *SessionHandler) HandleListSessions(c *fiber.Ctx) error {
	sessions, err := h.service.List(middleware.UserID(c))
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to list sessions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
		})
	}
	return c.JSON(sessions)
}

// LogSessionRequest represents the request body for logging a session.
// Duration is either a number of seconds or an HH:MM:SS string.
type LogSessionRequest struct {
	Text     string `json:"text"`
	Duration any    `json:"duration"`
}

// HandleLogSession records a completed study session for the caller.
func (h *SessionHandler) HandleLogSession(c *fiber.Ctx) error {
	var req LogSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	session, err := h.service.Log(middleware.UserID(c), req.Text, req.Duration)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDuration) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid duration format",
			})
		}
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Study text and duration are required",
			})
		}
		logger.Get().Error().Err(err).Msg("failed to log session")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error adding study session: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       session.ID,
		"text":     session.Text,
		"duration": session.Duration,
	})
}
