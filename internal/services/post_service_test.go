package services_test

import (
	"testing"

	"lockedin/internal/models"
	"lockedin/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock implementation of repositories.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(post *models.BlogPost) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) ListByOwner(userID uint) ([]models.BlogPost, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BlogPost), args.Error(1)
}

func (m *MockPostRepository) ListActive() ([]models.BlogPost, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BlogPost), args.Error(1)
}

func (m *MockPostRepository) Search(query string) ([]models.BlogPost, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BlogPost), args.Error(1)
}

func (m *MockPostRepository) GetActive(id uint) (*models.BlogPost, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}

func (m *MockPostRepository) UpdateFields(userID, id uint, fields map[string]any) error {
	args := m.Called(userID, id, fields)
	return args.Error(0)
}

func (m *MockPostRepository) SetFlagged(userID, id uint, flagged bool) error {
	args := m.Called(userID, id, flagged)
	return args.Error(0)
}

func TestPostService_CreateRequiresAllFields(t *testing.T) {
	mockRepo := new(MockPostRepository)
	postService := services.NewPostService(mockRepo)

	_, err := postService.Create(7, "", "title", "text")
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = postService.Create(7, "topic", "", "text")
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = postService.Create(7, "topic", "title", "")
	assert.ErrorIs(t, err, services.ErrValidation)

	mockRepo.On("Create", mock.AnythingOfType("*models.BlogPost")).Run(func(args mock.Arguments) {
		post := args.Get(0).(*models.BlogPost)
		assert.Equal(t, uint(7), post.UserID)
		assert.False(t, post.Flagged)
		post.ID = 3
	}).Return(nil).Once()

	post, err := postService.Create(7, "go", "testing", "some text")
	require.NoError(t, err)
	assert.Equal(t, uint(3), post.ID)
	mockRepo.AssertExpectations(t)
}

func TestPostService_UpdateSendsOnlyProvidedFields(t *testing.T) {
	mockRepo := new(MockPostRepository)
	postService := services.NewPostService(mockRepo)

	// Only the title is present, so only the title may reach the store.
	mockRepo.On("UpdateFields", uint(7), uint(3), map[string]any{"title": "x"}).Return(nil).Once()
	err := postService.Update(7, 3, services.PostUpdate{Title: "x"})
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// No recognized field at all is a validation failure.
	err = postService.Update(7, 3, services.PostUpdate{})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestPostService_SearchRequiresQuery(t *testing.T) {
	mockRepo := new(MockPostRepository)
	postService := services.NewPostService(mockRepo)

	_, err := postService.Search("")
	assert.ErrorIs(t, err, services.ErrValidation)

	mockRepo.On("Search", "gopher").Return([]models.BlogPost{{ID: 1}}, nil).Once()
	posts, err := postService.Search("gopher")
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	mockRepo.AssertExpectations(t)
}

func TestPostService_FlagSetsTrue(t *testing.T) {
	mockRepo := new(MockPostRepository)
	postService := services.NewPostService(mockRepo)

	mockRepo.On("SetFlagged", uint(7), uint(3), true).Return(nil).Once()
	assert.NoError(t, postService.Flag(7, 3))
	mockRepo.AssertExpectations(t)
}
