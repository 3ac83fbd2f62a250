package repositories

import "lockedin/internal/models"

// PostRepository defines the interface for blog post data access. Reads are
// filtered to flagged=false; writes are owner-scoped so a post belonging to
// another user behaves like a missing post.
type PostRepository interface {
	Create(post *models.BlogPost) error
	ListByOwner(userID uint) ([]models.BlogPost, error)
	ListActive() ([]models.BlogPost, error)
	Search(query string) ([]models.BlogPost, error)
	GetActive(id uint) (*models.BlogPost, error)
	UpdateFields(userID, id uint, fields map[string]any) error
	SetFlagged(userID, id uint, flagged bool) error
}
