package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Post content types.
const (
	PostTypeCode    = "code"
	PostTypeGeneral = "general"
	PostTypeArticle = "article"
	PostTypeFixing  = "fixing"
)

// ValidPostType reports whether t is one of the four content types.
func ValidPostType(t string) bool {
	switch t {
	case PostTypeCode, PostTypeGeneral, PostTypeArticle, PostTypeFixing:
		return true
	}
	return false
}

// MaxPostContentLen bounds the text content of a post.
const MaxPostContentLen = 1000

// Post represents a post in the Devnest application. A post carries either
// text content, an image reference, or both; it always has a content type and
// at least one category.
type Post struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	User         User           `gorm:"foreignKey:UserID" json:"user"`
	Content      string         `gorm:"type:text" json:"content"`
	Type         string         `gorm:"not null;index" json:"type"`
	Categories   []PostCategory `gorm:"foreignKey:PostID" json:"categories"`
	Price        *float64       `json:"price,omitempty"`
	ImageURL     string         `json:"image_url"`
	SharedFromID *uint          `gorm:"index" json:"shared_from_id,omitempty"`
	SharedFrom   *Post          `gorm:"foreignKey:SharedFromID" json:"shared_from,omitempty"`
	Comments     []Comment      `gorm:"foreignKey:PostID" json:"comments"`
	Reports      []PostReport   `gorm:"foreignKey:PostID" json:"reports,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostCategory is one free-text category label attached to a post.
type PostCategory struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	PostID uint   `gorm:"not null;index" json:"-"`
	Name   string `gorm:"not null;index" json:"-"`
}

// MarshalJSON renders a category as its bare label so the API exposes
// categories as a plain string array.
func (c PostCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Name)
}

// CategoryNames returns the post's category labels.
func (p *Post) CategoryNames() []string {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		names = append(names, c.Name)
	}
	return names
}

// PostReport is one account's report against a post. A given account may
// report a given post at most once.
type PostReport struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index:idx_post_reports_post_user,unique" json:"post_id"`
	UserID    uint      `gorm:"not null;index:idx_post_reports_post_user,unique" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Reason    string    `gorm:"not null" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
