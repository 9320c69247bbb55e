package models

import "time"

// Follow is a single row of the follow relation: follower follows followee.
// The original design mirrored following/follower arrays on both accounts;
// modelling the relation as one table gives both derived views from a single
// atomic insert or delete.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FolloweeID uint      `gorm:"primaryKey;autoIncrement:false" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
