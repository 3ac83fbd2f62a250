package handlers

import (
	"errors"

	"lockedin/internal/middleware"
	"lockedin/internal/models"
	"lockedin/internal/repositories"
	"lockedin/internal/services"
	"lockedin/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for accounts: registration, sign-in,
// profile lookup and self-service updates.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the account routes. auth guards the routes that
// require an authenticated identity.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/SignUp", h.HandleSignUp)
	router.Post("/SignIn", h.HandleSignIn)
	router.Get("/ProfilePage2", auth, h.HandleProfile)
	router.Patch("/update-account", auth, h.HandleUpdateAccount)
}

// SignUpRequest represents the request body for registration.
type SignUpRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleSignUp handles new user registration. No token is issued here.
func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing required fields",
		})
	}

	if err := h.authService.Register(req.Username, req.Email, req.Password); err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Missing required fields",
			})
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Username or email already registered",
			})
		}
		logger.Get().Error().Err(err).Msg("registration failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error inserting user data: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User Information Added Successfully",
	})
}

// SignInRequest represents the request body for sign-in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleSignIn authenticates the credentials and issues a bearer token.
func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing email or password",
		})
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid email or password",
			})
		}
		logger.Get().Error().Err(err).Msg("sign-in failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database query error",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// ProfileResponse is the profile read shape. UserLevel is omitted when the
// account carries no privilege tier.
type ProfileResponse struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	UserLevel string `json:"user_level,omitempty"`
}

// HandleProfile returns the authenticated user's account details, looked up
// fresh from the store by the email claim.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	user, err := h.authService.Profile(middleware.Email(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		logger.Get().Error().Err(err).Msg("profile lookup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
		})
	}

	return c.JSON(profileResponse(user))
}

func profileResponse(user *models.User) ProfileResponse {
	return ProfileResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		UserLevel: user.UserLevel,
	}
}

// UpdateAccountRequest represents the request body for a partial account
// update. Any subset of the fields may be present.
type UpdateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleUpdateAccount applies a partial account update and returns a freshly
// signed token carrying the updated claims.
func (h *AuthHandler) HandleUpdateAccount(c *fiber.Ctx) error {
	var req UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	newToken, err := h.authService.UpdateAccount(middleware.UserID(c), middleware.Email(c), services.AccountUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "No fields provided to update.",
			})
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found.",
			})
		case errors.Is(err, repositories.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Username or email already in use.",
			})
		}
		logger.Get().Error().Err(err).Msg("account update failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update account information.",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Account information updated successfully.",
		"newToken": newToken,
	})
}
