package services

import (
	"context"
	"fmt"
	"time"

	"lockedin/internal/metrics"
	"lockedin/internal/models"
	"lockedin/internal/repositories"
)

const leaderboardLimit = 20

// LeaderboardCache is a read-through cache for aggregated leaderboards.
// Implementations must treat every cache failure as a miss.
type LeaderboardCache interface {
	Get(ctx context.Context, timeframe string) ([]models.LeaderboardEntry, bool)
	Set(ctx context.Context, timeframe string, entries []models.LeaderboardEntry)
}

// LeaderboardService computes the cross-user study-hours ranking. It needs a
// valid identity to be called at all but does not depend on whose identity it
// is.
type LeaderboardService struct {
	sessions repositories.SessionRepository
	cache    LeaderboardCache
	now      func() time.Time
}

// NewLeaderboardService creates a new LeaderboardService. cache may be nil to
// query the store directly on every call.
func NewLeaderboardService(sessions repositories.SessionRepository, cache LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{
		sessions: sessions,
		cache:    cache,
		now:      time.Now,
	}
}

// TopUsers returns up to 20 users ranked by total study hours within the
// timeframe: today, this-month, this-year or all-time. An empty timeframe
// defaults to all-time; anything else is a validation failure. Users without
// sessions in the window appear with 0 hours.
func (s *LeaderboardService) TopUsers(ctx context.Context, timeframe string) ([]models.LeaderboardEntry, error) {
	if timeframe == "" {
		timeframe = "all-time"
	}
	start, end, ok := timeframeWindow(timeframe, s.now())
	if !ok {
		return nil, fmt.Errorf("%w: unknown timeframe %q", ErrValidation, timeframe)
	}

	if s.cache != nil {
		if entries, hit := s.cache.Get(ctx, timeframe); hit {
			metrics.LeaderboardCacheTotal.WithLabelValues("hit").Inc()
			return entries, nil
		}
		metrics.LeaderboardCacheTotal.WithLabelValues("miss").Inc()
	}

	entries, err := s.sessions.TopStudyHours(start, end, leaderboardLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, timeframe, entries)
	}
	return entries, nil
}

// timeframeWindow resolves a timeframe name to a half-open [start, end)
// calendar window relative to now in server-local time. all-time returns zero
// times, meaning no filter.
func timeframeWindow(timeframe string, now time.Time) (start, end time.Time, ok bool) {
	switch timeframe {
	case "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 0, 1), true
	case "this-month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), true
	case "this-year":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0), true
	case "all-time":
		return time.Time{}, time.Time{}, true
	default:
		return time.Time{}, time.Time{}, false
	}
}
