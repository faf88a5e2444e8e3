package models

import "time"

// Action types recorded in activities and notifications
const (
	ActionLike    = "like"
	ActionComment = "comment"
	ActionFollow  = "follow"
)

// Activity is an append/delete-only log entry (PostgreSQL). UserID and
// PostID hold the hex form of the Mongo document ids. At most one live
// "like" activity exists per (user, post) pair; toggling the like off
// deletes it, and the cleanup pass removes rows whose state is no longer
// true.
type Activity struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"size:24;index"`
	PostID     string    `json:"post_id" gorm:"size:24;index"`
	ActionType string    `json:"action_type" gorm:"size:20;index"`
	Timestamp  time.Time `json:"timestamp" gorm:"index"`
}
