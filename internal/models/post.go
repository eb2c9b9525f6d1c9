package models

import (
	"time"

	"gorm.io/gorm"
)

// Post types. Required payload fields depend on the type; ValidateShape is
// the single place that rule is enforced.
const (
	PostTypeArticle      = "article"
	PostTypePrompt       = "prompt"
	PostTypeConversation = "conversation"
)

// Post visibility states.
const (
	VisibilityPublic        = "public"
	VisibilityPrivate       = "private"
	VisibilityDraft         = "draft"
	VisibilityFollowersOnly = "followers_only"
)

// Post represents a shared article, prompt or AI conversation.
type Post struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"not null;index" json:"user_id"`
	User        User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Type        string  `gorm:"not null;index" json:"type"`
	Title       string  `gorm:"not null" json:"title"`
	Content     *string `gorm:"type:text" json:"content"`
	Description *string `gorm:"type:text" json:"description"`
	Platform    *string `json:"platform"`
	Link        *string `json:"link"`
	ViewCount   int     `gorm:"default:0" json:"view_count"`
	Visibility  string  `gorm:"not null;default:public;index" json:"visibility"`
	Tags        []Tag   `gorm:"many2many:post_tags" json:"tags"`
	// LikeCount is not persisted; computed at query time from the likes table
	LikeCount int `gorm:"->" json:"like_count"`
	// Liked/Favorited reflect the requesting user's state for this post (computed)
	Liked     bool      `gorm:"->" json:"liked"`
	Favorited bool      `gorm:"->" json:"favorited"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidType reports whether t is one of the known post types.
func ValidType(t string) bool {
	switch t {
	case PostTypeArticle, PostTypePrompt, PostTypeConversation:
		return true
	}
	return false
}

// ValidVisibility reports whether v is one of the known visibility states.
func ValidVisibility(v string) bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityDraft, VisibilityFollowersOnly:
		return true
	}
	return false
}

func hasText(s *string) bool {
	return s != nil && *s != ""
}

// ValidateShape checks the type-dependent required fields: article needs
// content; prompt needs content and description; conversation needs
// description and platform and carries no content body.
func (p *Post) ValidateShape() error {
	if p.Title == "" {
		return NewValidationError("title is required")
	}
	if !ValidType(p.Type) {
		return NewValidationError("type must be article, prompt or conversation")
	}
	switch p.Type {
	case PostTypeArticle:
		if !hasText(p.Content) {
			return NewValidationError("content is required for article posts")
		}
	case PostTypePrompt:
		if !hasText(p.Content) {
			return NewValidationError("content is required for prompt posts")
		}
		if !hasText(p.Description) {
			return NewValidationError("description is required for prompt posts")
		}
	case PostTypeConversation:
		if !hasText(p.Description) {
			return NewValidationError("description is required for conversation posts")
		}
		if !hasText(p.Platform) {
			return NewValidationError("platform is required for conversation posts")
		}
	}
	if p.Visibility == "" {
		p.Visibility = VisibilityPublic
	}
	if !ValidVisibility(p.Visibility) {
		return NewValidationError("invalid visibility")
	}
	return nil
}

// BeforeSave nulls out payload columns that do not belong to the post's type,
// so an edit cannot leave stale fields from a different shape behind.
func (p *Post) BeforeSave(_ *gorm.DB) error {
	if p.Type == PostTypeConversation {
		p.Content = nil
	} else {
		p.Platform = nil
	}
	if p.Type == PostTypeArticle {
		p.Description = nil
	}
	return nil
}
