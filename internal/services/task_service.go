package services

import (
	"fmt"

	"lockedin/internal/models"
	"lockedin/internal/repositories"
)

// TaskService handles business logic for the owned, soft-deletable task list.
type TaskService struct {
	repo repositories.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo repositories.TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

// ListActive returns the owner's tasks that have not been flagged.
func (s *TaskService) ListActive(userID uint) ([]models.Task, error) {
	return s.repo.ListByFlag(userID, false)
}

// ListArchived returns the owner's flagged tasks. This is the only read path
// that exposes flagged rows.
func (s *TaskService) ListArchived(userID uint) ([]models.Task, error) {
	return s.repo.ListByFlag(userID, true)
}

// Create adds a new task for the owner and returns it with its generated id.
func (s *TaskService) Create(userID uint, text string) (*models.Task, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: task text is required", ErrValidation)
	}
	task := &models.Task{
		UserID: userID,
		Text:   text,
	}
	if err := s.repo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// Flag soft-deletes an owned task. The row stays in the store and reappears
// in the archive listing.
func (s *TaskService) Flag(userID, id uint) error {
	return s.repo.SetFlagged(userID, id, true)
}

// SetCompletion writes the completed state of an owned task. Setting the same
// value again is a no-op success.
func (s *TaskService) SetCompletion(userID, id uint, completed bool) error {
	return s.repo.SetCompleted(userID, id, completed)
}

// SetFlagged writes the provided flagged value back to an owned task,
// covering both archive and unarchive.
func (s *TaskService) SetFlagged(userID, id uint, flagged bool) error {
	return s.repo.SetFlagged(userID, id, flagged)
}
