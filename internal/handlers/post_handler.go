package handlers

import (
	"errors"

	"lockedin/internal/middleware"
	"lockedin/internal/repositories"
	"lockedin/internal/services"
	"lockedin/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const postNotFoundMessage = "Post not found or not authorized"

// PostHandler handles HTTP requests for blog posts. Writes are owner-scoped;
// reads are shared across authenticated users.
type PostHandler struct {
	service *services.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{
		service: service,
	}
}

// RegisterRoutes registers the blog routes, all behind the auth guard.
func (h *PostHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/blog", auth, h.HandleCreatePost)
	router.Get("/blog", auth, h.HandleListMyPosts)
	router.Get("/blog-all", auth, h.HandleListAllPosts)
	router.Get("/blog-search", auth, h.HandleSearchPosts)
	router.Get("/post/:id", auth, h.HandleGetPost)
	router.Patch("/post/:id", auth, h.HandleUpdatePost)
	router.Delete("/post/:id", auth, h.HandleFlagPost)
}

// CreatePostRequest represents the request body for publishing a post.
type CreatePostRequest struct {
	Topic string `json:"topic"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// HandleCreatePost publishes a new post owned by the caller.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	post, err := h.service.Create(middleware.UserID(c), req.Topic, req.Title, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Topic, title and text are required",
			})
		}
		logger.Get().Error().Err(err).Msg("failed to create post")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error adding post: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleListMyPosts returns the caller's active posts.
func (h *PostHandler) HandleListMyPosts(c *fiber.Ctx) error {
	posts, err := h.service.ListMine(middleware.UserID(c))
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to list posts")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
		})
	}
	return c.JSON(posts)
}

// HandleListAllPosts returns every active post across all users.
func (h *PostHandler) HandleListAllPosts(c *fiber.Ctx) error {
	posts, err := h.service.ListAll()
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to list all posts")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
		})
	}
	return c.JSON(posts)
}

// HandleSearchPosts returns active posts matching the q query parameter in
// topic, title or text.
func (h *PostHandler) HandleSearchPosts(c *fiber.Ctx) error {
	posts, err := h.service.Search(c.Query("q"))
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Search query is required",
			})
		}
		logger.Get().Error().Err(err).Msg("post search failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
		})
	}
	return c.JSON(posts)
}

// HandleGetPost returns a single active post. Flagged and missing posts are
// indistinguishable.
func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Post not found",
		})
	}

	post, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Post not found",
			})
		}
		logger.Get().Error().Err(err).Msg("failed to get post")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
		})
	}
	return c.JSON(post)
}

// UpdatePostRequest represents the request body for a partial post update.
// Any non-empty subset of the fields may be present.
type UpdatePostRequest struct {
	Topic string `json:"topic"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// HandleUpdatePost applies a partial update to an owned post, leaving the
// absent fields untouched.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": postNotFoundMessage,
		})
	}

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	err := h.service.Update(middleware.UserID(c), id, services.PostUpdate{
		Topic: req.Topic,
		Title: req.Title,
		Text:  req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "No fields provided to update.",
			})
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": postNotFoundMessage,
			})
		}
		logger.Get().Error().Err(err).Msg("post update failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error updating post",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Post updated successfully",
	})
}

// HandleFlagPost soft-deletes an owned post.
func (h *PostHandler) HandleFlagPost(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": postNotFoundMessage,
		})
	}

	if err := h.service.Flag(middleware.UserID(c), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": postNotFoundMessage,
			})
		}
		logger.Get().Error().Err(err).Msg("post flag failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error flagging post",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Post flagged successfully",
	})
}
