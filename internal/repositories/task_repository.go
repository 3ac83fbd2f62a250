package repositories

import "lockedin/internal/models"

// TaskRepository defines the interface for task data access. Every method is
// scoped by owner: a task belonging to another user behaves exactly like a
// missing task.
type TaskRepository interface {
	ListByFlag(userID uint, flagged bool) ([]models.Task, error)
	Create(task *models.Task) error
	SetCompleted(userID, id uint, completed bool) error
	SetFlagged(userID, id uint, flagged bool) error
}
