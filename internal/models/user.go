// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account. PasswordHash is empty for accounts
// provisioned through a federated login provider.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Handle       string `gorm:"uniqueIndex;not null" json:"handle"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `gorm:"default:false" json:"is_admin"`
	Bio          string `gorm:"type:text" json:"bio"`
	Website      string `json:"website"`
	XLink        string `json:"x_link"`
	AvatarURL    string `json:"avatar_url"`
	// PostCount, FollowerCount and FollowingCount are not persisted; computed at query time
	PostCount      int       `gorm:"->" json:"post_count,omitempty"`
	FollowerCount  int       `gorm:"->" json:"follower_count,omitempty"`
	FollowingCount int       `gorm:"->" json:"following_count,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PublicUser is the author shape embedded in post responses.
type PublicUser struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatar_url"`
}

// Public strips private fields for embedding in other payloads.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Handle:    u.Handle,
		AvatarURL: u.AvatarURL,
	}
}
