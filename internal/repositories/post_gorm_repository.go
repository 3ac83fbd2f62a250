package repositories

import (
	"errors"
	"fmt"
	"strings"

	"lockedin/internal/models"

	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create inserts a new blog post for its owner.
func (r *GORMPostRepository) Create(post *models.BlogPost) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's non-flagged posts.
func (r *GORMPostRepository) ListByOwner(userID uint) ([]models.BlogPost, error) {
	posts := make([]models.BlogPost, 0)
	if err := r.db.Where("user_id = ? AND flagged = ?", userID, false).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts for user %d: %w", userID, err)
	}
	return posts, nil
}

// ListActive returns every non-flagged post across all users.
func (r *GORMPostRepository) ListActive() ([]models.BlogPost, error) {
	posts := make([]models.BlogPost, 0)
	if err := r.db.Where("flagged = ?", false).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Search returns non-flagged posts whose topic, title or text contains the
// query, case-insensitively.
func (r *GORMPostRepository) Search(query string) ([]models.BlogPost, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	posts := make([]models.BlogPost, 0)
	err := r.db.
		Where("flagged = ? AND (LOWER(topic) LIKE ? OR LOWER(title) LIKE ? OR LOWER(text) LIKE ?)",
			false, pattern, pattern, pattern).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	return posts, nil
}

// GetActive retrieves a single non-flagged post by id, regardless of owner.
// Flagged posts are indistinguishable from missing ones.
func (r *GORMPostRepository) GetActive(id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.First(&post, "id = ? AND flagged = ?", id, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return &post, nil
}

// UpdateFields applies a partial update scoped to owner and id.
func (r *GORMPostRepository) UpdateFields(userID, id uint, fields map[string]any) error {
	res := r.db.Model(&models.BlogPost{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update post %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetFlagged writes the flagged column for an owned post.
func (r *GORMPostRepository) SetFlagged(userID, id uint, flagged bool) error {
	res := r.db.Model(&models.BlogPost{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("flagged", flagged)
	if res.Error != nil {
		return fmt.Errorf("failed to flag post %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post with ID %d: %w", id, ErrNotFound)
	}
	return nil
}
