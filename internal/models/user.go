package models

import "time"

// User represents a registered account. The password column always holds a
// bcrypt hash, never plaintext, and is excluded from JSON serialization.
type User struct {
	ID        uint      `json:"user_id" gorm:"column:user_id;primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	UserLevel string    `json:"user_level,omitempty" gorm:"type:varchar(50)"`
	CreatedAt time.Time `json:"-"`
}

// TableName keeps the table name aligned with the user_id references used by
// the resource tables and the leaderboard join.
func (User) TableName() string { return "users" }
