package repositories

import (
	"time"

	"lockedin/internal/models"
)

// SessionRepository defines the interface for study session data access.
// Sessions are append-only; there is deliberately no update or delete method.
type SessionRepository interface {
	Create(session *models.StudySession) error
	ListByUser(userID uint) ([]models.StudySession, error)
	// TopStudyHours aggregates study time per user. When start/end are
	// non-zero, only sessions with start <= date_added < end count toward
	// the sum; users with no sessions in the window still appear with 0.
	TopStudyHours(start, end time.Time, limit int) ([]models.LeaderboardEntry, error)
}
