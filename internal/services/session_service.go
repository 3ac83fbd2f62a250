package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"lockedin/internal/metrics"
	"lockedin/internal/models"
	"lockedin/internal/repositories"
	"lockedin/pkg/logger"
)

// ActivityPublisher publishes activity events to the message broker.
type ActivityPublisher interface {
	Publish(eventType string, body []byte) error
}

// SessionService handles the append-only study session history. Durations are
// normalized to seconds on the way in and re-expressed as HH:MM:SS on the way
// out.
type SessionService struct {
	repo      repositories.SessionRepository
	publisher ActivityPublisher
}

// NewSessionService creates a new SessionService. publisher may be nil, in
// which case no events are emitted.
func NewSessionService(repo repositories.SessionRepository, publisher ActivityPublisher) *SessionService {
	return &SessionService{
		repo:      repo,
		publisher: publisher,
	}
}

// Log records a completed study session for the owner. duration is either a
// number of seconds or an HH:MM:SS string; the stored value is always total
// seconds. date_added is assigned by the store.
func (s *SessionService) Log(userID uint, text string, duration any) (*models.StudySession, error) {
	if text == "" || duration == nil {
		return nil, fmt.Errorf("%w: study text and duration are required", ErrValidation)
	}

	seconds, err := normalizeDuration(duration)
	if err != nil {
		return nil, err
	}

	session := &models.StudySession{
		UserID:   userID,
		Text:     text,
		Duration: seconds,
	}
	if err := s.repo.Create(session); err != nil {
		return nil, err
	}

	metrics.SessionsLoggedTotal.Inc()
	s.publishLogged(session)

	return session, nil
}

// List returns the owner's session history with durations formatted as
// HH:MM:SS alongside the raw insertion timestamp.
func (s *SessionService) List(userID uint) ([]models.SessionView, error) {
	sessions, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.SessionView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, models.SessionView{
			ID:                sess.ID,
			Text:              sess.Text,
			FormattedDuration: FormatClockDuration(sess.Duration),
			DateAdded:         sess.DateAdded,
		})
	}
	return views, nil
}

// publishLogged emits a session.logged activity event. Publishing is best
// effort: a broker failure never fails the request.
func (s *SessionService) publishLogged(session *models.StudySession) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(map[string]any{
		"user_id":          session.UserID,
		"session_id":       session.ID,
		"duration_seconds": session.Duration,
	})
	if err != nil {
		logger.Get().Warn().Err(err).Msg("failed to marshal session event")
		return
	}
	if err := s.publisher.Publish("session.logged", body); err != nil {
		logger.Get().Warn().Err(err).Uint("user_id", session.UserID).Msg("failed to publish session event")
	}
}

// normalizeDuration converts the wire value to total seconds. JSON numbers
// arrive as float64; anything else except a clock string is malformed. A zero
// or empty value counts as missing, matching the required-field check.
// Fractional seconds are rejected rather than truncated.
func normalizeDuration(duration any) (int, error) {
	switch v := duration.(type) {
	case float64:
		if v == 0 {
			return 0, fmt.Errorf("%w: study text and duration are required", ErrValidation)
		}
		if v < 0 || v != math.Trunc(v) {
			return 0, ErrInvalidDuration
		}
		return int(v), nil
	case int:
		if v == 0 {
			return 0, fmt.Errorf("%w: study text and duration are required", ErrValidation)
		}
		if v < 0 {
			return 0, ErrInvalidDuration
		}
		return v, nil
	case string:
		if v == "" {
			return 0, fmt.Errorf("%w: study text and duration are required", ErrValidation)
		}
		return ParseClockDuration(v)
	default:
		return 0, ErrInvalidDuration
	}
}

// ParseClockDuration converts an HH:MM:SS string to total seconds.
func ParseClockDuration(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, ErrInvalidDuration
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, ErrInvalidDuration
		}
		nums[i] = n
	}
	return nums[0]*3600 + nums[1]*60 + nums[2], nil
}

// FormatClockDuration renders total seconds as HH:MM:SS, the inverse of
// ParseClockDuration for values under 100 hours.
func FormatClockDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
