package services

import (
	"fmt"

	"lockedin/internal/models"
	"lockedin/internal/repositories"
)

// PostUpdate carries the optional fields of a partial blog post update. Empty
// strings mean "leave unchanged".
type PostUpdate struct {
	Topic string
	Title string
	Text  string
}

// PostService handles business logic for blog posts: owner-scoped writes,
// soft-delete, and reads shared across authenticated users.
type PostService struct {
	repo repositories.PostRepository
}

// NewPostService creates a new PostService.
func NewPostService(repo repositories.PostRepository) *PostService {
	return &PostService{
		repo: repo,
	}
}

// Create publishes a new post for the owner and returns it with its
// generated id.
func (s *PostService) Create(userID uint, topic, title, text string) (*models.BlogPost, error) {
	if topic == "" || title == "" || text == "" {
		return nil, fmt.Errorf("%w: topic, title and text are required", ErrValidation)
	}
	post := &models.BlogPost{
		UserID: userID,
		Topic:  topic,
		Title:  title,
		Text:   text,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListMine returns the owner's non-flagged posts.
func (s *PostService) ListMine(userID uint) ([]models.BlogPost, error) {
	return s.repo.ListByOwner(userID)
}

// ListAll returns every non-flagged post across all users.
func (s *PostService) ListAll() ([]models.BlogPost, error) {
	return s.repo.ListActive()
}

// Search returns non-flagged posts matching the query in topic, title or
// text.
func (s *PostService) Search(query string) ([]models.BlogPost, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrValidation)
	}
	return s.repo.Search(query)
}

// Get retrieves a single non-flagged post by id for any authenticated caller.
func (s *PostService) Get(id uint) (*models.BlogPost, error) {
	return s.repo.GetActive(id)
}

// Update applies the provided subset of topic/title/text to an owned post,
// leaving the other fields untouched.
func (s *PostService) Update(userID, id uint, upd PostUpdate) error {
	fields := make(map[string]any)
	if upd.Topic != "" {
		fields["topic"] = upd.Topic
	}
	if upd.Title != "" {
		fields["title"] = upd.Title
	}
	if upd.Text != "" {
		fields["text"] = upd.Text
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields provided to update", ErrValidation)
	}
	return s.repo.UpdateFields(userID, id, fields)
}

// Flag soft-deletes an owned post, hiding it from every read path.
func (s *PostService) Flag(userID, id uint) error {
	return s.repo.SetFlagged(userID, id, true)
}
