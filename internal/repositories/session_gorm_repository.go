package repositories

import (
	"fmt"
	"time"

	"lockedin/internal/models"

	"gorm.io/gorm"
)

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

// Create inserts a new study session. date_added is assigned by the store at
// insertion time via autoCreateTime, never taken from the client.
func (r *GORMSessionRepository) Create(session *models.StudySession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// ListByUser returns the owner's full session history.
func (r *GORMSessionRepository) ListByUser(userID uint) ([]models.StudySession, error) {
	sessions := make([]models.StudySession, 0)
	if err := r.db.Where("user_id = ?", userID).Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %d: %w", userID, err)
	}
	return sessions, nil
}

// TopStudyHours sums session durations per user, converted to fractional
// hours, ordered descending and truncated to limit rows. The time window is
// applied inside the LEFT JOIN condition so that users without matching
// sessions still appear with a total of 0.
func (r *GORMSessionRepository) TopStudyHours(start, end time.Time, limit int) ([]models.LeaderboardEntry, error) {
	join := "LEFT JOIN sessions ON sessions.user_id = users.user_id"
	args := make([]any, 0, 2)
	if !start.IsZero() {
		join += " AND sessions.date_added >= ? AND sessions.date_added < ?"
		args = append(args, start, end)
	}

	entries := make([]models.LeaderboardEntry, 0)
	err := r.db.Table("users").
		Select("users.user_id AS user_id, users.username AS username, COALESCE(SUM(sessions.duration), 0) / 3600.0 AS total_hours").
		Joins(join, args...).
		Group("users.user_id, users.username").
		Order("total_hours DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate study hours: %w", err)
	}
	return entries, nil
}
