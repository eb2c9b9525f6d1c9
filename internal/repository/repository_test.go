package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"promptfolio/internal/database"
	"promptfolio/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))
	return db
}

func strptr(s string) *string { return &s }

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     name,
		Handle:       name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createPost(t *testing.T, db *gorm.DB, userID uint, title string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:     userID,
		Type:       models.PostTypeArticle,
		Title:      title,
		Content:    strptr(title + " body"),
		Visibility: models.VisibilityPublic,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Omit("Tags").Create(post).Error)
	return post
}

func tagPost(t *testing.T, db *gorm.DB, postID uint, tag *models.Tag) {
	t.Helper()
	require.NoError(t, db.Create(&models.PostTag{PostID: postID, TagID: tag.ID}).Error)
}

var testCtx = context.Background()
