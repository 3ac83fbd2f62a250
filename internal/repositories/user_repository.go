package repositories

import "lockedin/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	// UpdateFields applies a partial update to the user row. Returns
	// ErrNotFound when no row matched the id.
	UpdateFields(id uint, fields map[string]any) error
}
