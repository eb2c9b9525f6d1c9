package models

import "time"

// Tag is created lazily the first time a post references its name and is
// never garbage-collected; orphaned tags simply stop appearing in rankings.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PostTag is the post/tag join row. The composite primary key doubles as the
// uniqueness guarantee for the association.
type PostTag struct {
	PostID uint `gorm:"primaryKey" json:"post_id"`
	TagID  uint `gorm:"primaryKey" json:"tag_id"`
	Post   Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Tag    Tag  `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}

// TagRank is one row of the tag ranking response.
type TagRank struct {
	Rank      int    `json:"rank"`
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	PostCount int    `json:"post_count"`
}

// TagSuggestion is one row of the tag suggestion response.
type TagSuggestion struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// UserRank is one row of the user ranking response.
type UserRank struct {
	Rank      int    `json:"rank"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Count     int    `json:"count"`
}
