package handlers

import (
	"errors"

	"lockedin/internal/middleware"
	"lockedin/internal/repositories"
	"lockedin/internal/services"
	"lockedin/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const taskNotFoundMessage = "Task not found or not authorized"

// TaskHandler handles HTTP requests for the authenticated user's task list.
type TaskHandler struct {
	service *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{
		service: service,
	}
}

// RegisterRoutes registers the task routes, all behind the auth guard.
func (h *TaskHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/tasks", auth, h.HandleListTasks)
	router.Get("/archived-tasks", auth, h.HandleListArchivedTasks)
	router.Post("/tasks", auth, h.HandleCreateTask)
	router.Delete("/tasks/:id", auth, h.HandleFlagTask)
	router.Patch("/tasks/complete/:id", auth, h.HandleCompleteTask)
	router.Patch("/tasks/unarchive/:id", auth, h.HandleUnarchiveTask)
}

// HandleListTasks returns the caller's active (non-flagged) tasks.
func (h *TaskHandler) HandleListTasks(c *fiber.Ctx) error {
	tasks, err := h.service.ListActive(middleware.UserID(c))
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to list tasks")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
		})
	}
	return c.JSON(tasks)
}

// HandleListArchivedTasks returns the caller's flagged tasks.
func (h *TaskHandler) HandleListArchivedTasks(c *fiber.Ctx) error {
	tasks, err := h.service.ListArchived(middleware.UserID(c))
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to list archived tasks")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
		})
	}
	return c.JSON(tasks)
}

// CreateTaskRequest represents the request body for adding a task.
type CreateTaskRequest struct {
	Text string `json:"text"`
}

// HandleCreateTask adds a new task for the caller.
func (h *TaskHandler) HandleCreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	task, err := h.service.Create(middleware.UserID(c), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Task text is required",
			})
		}
		logger.Get().Error().Err(err).Msg("failed to create task")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error adding task: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// HandleFlagTask soft-deletes an owned task by setting flagged=true. The row
// is never removed from the store.
func (h *TaskHandler) HandleFlagTask(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": taskNotFoundMessage,
		})
	}

	if err := h.service.Flag(middleware.UserID(c), id); err != nil {
		return taskWriteError(c, err, "Error flagging task")
	}

	return c.JSON(fiber.Map{
		"message": "Task flagged successfully",
	})
}

// TaskCompletionRequest represents the request body for toggling completion.
// An absent value reads as false.
type TaskCompletionRequest struct {
	Completed bool `json:"completed"`
}

// HandleCompleteTask writes the completed state of an owned task.
func (h *TaskHandler) HandleCompleteTask(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": taskNotFoundMessage,
		})
	}

	var req TaskCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.service.SetCompletion(middleware.UserID(c), id, req.Completed); err != nil {
		return taskWriteError(c, err, "Error updating task")
	}

	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
	})
}

// TaskFlaggedRequest represents the request body for unarchiving. The
// provided value is written as-is; an absent value reads as false.
type TaskFlaggedRequest struct {
	Flagged bool `json:"flagged"`
}

// HandleUnarchiveTask writes the flagged state of an owned task.
func (h *TaskHandler) HandleUnarchiveTask(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": taskNotFoundMessage,
		})
	}

	var req TaskFlaggedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.service.SetFlagged(middleware.UserID(c), id, req.Flagged); err != nil {
		return taskWriteError(c, err, "Error updating task")
	}

	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
	})
}

func taskWriteError(c *fiber.Ctx, err error, storeMessage string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": taskNotFoundMessage,
		})
	}
	logger.Get().Error().Err(err).Msg("task write failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": storeMessage,
	})
}
