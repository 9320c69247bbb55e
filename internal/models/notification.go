package models

import "time"

// Notification types.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
	NotificationTypeSpam    = "spam"
)

// Notification is a persisted notification record. Delivery (push, fan-out)
// is handled elsewhere; this model is only the durable store entry.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"not null" json:"type"`
	FromID    *uint     `json:"from_id,omitempty"`
	From      *User     `gorm:"foreignKey:FromID" json:"from,omitempty"`
	ToID      uint      `gorm:"not null;index" json:"to_id"`
	PostID    *uint     `json:"post_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
