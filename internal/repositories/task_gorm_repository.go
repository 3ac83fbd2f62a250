package repositories

import (
	"fmt"

	"lockedin/internal/models"

	"gorm.io/gorm"
)

// GORMTaskRepository is a GORM implementation of TaskRepository.
type GORMTaskRepository struct {
	db *gorm.DB
}

// NewGORMTaskRepository creates a new instance of GORMTaskRepository.
func NewGORMTaskRepository(db *gorm.DB) *GORMTaskRepository {
	return &GORMTaskRepository{
		db: db,
	}
}

// ListByFlag returns the owner's tasks with the given flagged state. The
// active listing uses flagged=false, the archive listing flagged=true.
func (r *GORMTaskRepository) ListByFlag(userID uint, flagged bool) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := r.db.Where("user_id = ? AND flagged = ?", userID, flagged).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks for user %d: %w", userID, err)
	}
	return tasks, nil
}

// Create inserts a new task for its owner.
func (r *GORMTaskRepository) Create(task *models.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// SetCompleted writes the completed column for an owned task. Writing the
// value that is already stored still counts as a matched row, so repeated
// calls succeed.
func (r *GORMTaskRepository) SetCompleted(userID, id uint, completed bool) error {
	return r.updateColumn(userID, id, "completed", completed)
}

// SetFlagged writes the flagged column for an owned task. Soft-delete passes
// true, unarchive passes the caller-provided value.
func (r *GORMTaskRepository) SetFlagged(userID, id uint, flagged bool) error {
	return r.updateColumn(userID, id, "flagged", flagged)
}

func (r *GORMTaskRepository) updateColumn(userID, id uint, column string, value bool) error {
	res := r.db.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("failed to update task %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task with ID %d: %w", id, ErrNotFound)
	}
	return nil
}
