// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the Devnest application. Identity lives at the
// external auth provider; ExternalID is the provider's key for this account.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ExternalID string         `gorm:"uniqueIndex;not null" json:"-"`
	Username   string         `gorm:"uniqueIndex;not null" json:"username"`
	Email      string         `gorm:"uniqueIndex;not null" json:"email"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Bio        string         `json:"bio"`
	AvatarURL  string         `json:"avatar_url"`
	BannerURL  string         `json:"banner_url"`
	IsAdmin    bool           `gorm:"default:false" json:"is_admin"`
	SpamUntil  *time.Time     `json:"spam_until,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	// FollowersCount is not persisted; computed at query time
	FollowersCount int `gorm:"->" json:"followers_count"`
	// FollowingCount is not persisted; computed at query time
	FollowingCount int `gorm:"->" json:"following_count"`
}

// Banned reports whether the user is currently spam-banned.
func (u *User) Banned(now time.Time) bool {
	return u.SpamUntil != nil && u.SpamUntil.After(now)
}

// UserDirectoryEntry is the lightweight projection returned by the admin
// dashboard's account directory. It deliberately carries no profile media or
// follow data.
type UserDirectoryEntry struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
