package models

import "time"

// Like records that a user liked a post. Membership is enforced by the
// composite primary key; adds and removes are single-row atomic operations.
type Like struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
