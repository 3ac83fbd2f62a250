package models

import "time"

// BlogPost is an owned post readable by any authenticated user while not
// flagged. Soft-delete works the same way as for tasks.
type BlogPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Topic     string    `json:"topic" gorm:"type:varchar(100);not null"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	Flagged   bool      `json:"flagged" gorm:"not null;default:false"`
}

func (BlogPost) TableName() string { return "posts" }
