package models

import "time"

// StudySession is a single logged study interval. Sessions are append-only:
// there is no update or delete path, which keeps the leaderboard aggregation
// trustworthy.
type StudySession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Text      string    `json:"text" gorm:"not null"`
	Duration  int       `json:"duration" gorm:"not null"` // total seconds
	DateAdded time.Time `json:"date_added" gorm:"column:date_added;autoCreateTime"`
}

func (StudySession) TableName() string { return "sessions" }

// SessionView is the read shape for session history, with the stored seconds
// re-expressed as an HH:MM:SS string.
type SessionView struct {
	ID                uint      `json:"id"`
	Text              string    `json:"text"`
	FormattedDuration string    `json:"formatted_duration"`
	DateAdded         time.Time `json:"date_added"`
}

// LeaderboardEntry is one row of the top-users aggregation. TotalHours is
// fractional and unrounded; users without sessions in the window carry 0.
type LeaderboardEntry struct {
	UserID     uint    `json:"user_id" gorm:"column:user_id"`
	Username   string  `json:"username" gorm:"column:username"`
	TotalHours float64 `json:"total_hours" gorm:"column:total_hours"`
}
