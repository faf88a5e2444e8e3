package models

import "time"

// Notification represents a user notification (PostgreSQL). SenderID,
// ReceiverID and PostID hold the hex form of the Mongo document ids;
// PostID is empty for follow notifications. The tuple
// (sender, receiver, action type, post) acts as a natural key for the
// like/follow notifications the coordinator creates and deletes.
type Notification struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ActionType string    `json:"action_type" gorm:"size:20;index"`
	SenderID   string    `json:"sender_id" gorm:"size:24;index"`
	ReceiverID string    `json:"receiver_id" gorm:"size:24;index"`
	PostID     string    `json:"post_id,omitempty" gorm:"size:24;index"`
	IsRead     bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}
