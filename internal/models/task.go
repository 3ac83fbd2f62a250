package models

// Task is an owned to-do item. Tasks are never hard-deleted: the flagged
// column hides a task from the active listing while keeping the row around
// for the archive view.
type Task struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	Text      string `json:"text" gorm:"not null"`
	Completed bool   `json:"completed" gorm:"not null;default:false"`
	Flagged   bool   `json:"flagged" gorm:"not null;default:false"`
}
