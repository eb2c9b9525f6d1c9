package service

import (
	"context"
	"fmt"
	"testing"

	"promptfolio/internal/database"
	"promptfolio/internal/models"
	"promptfolio/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	users   repository.UserRepository
	posts   repository.PostRepository
	tags    repository.TagRepository
	rels    repository.RelationRepository
	tagSvc  *TagService
	postSvc *PostService
	relSvc  *RelationService
	rankSvc *RankingService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:    db,
		users: repository.NewUserRepository(db),
		posts: repository.NewPostRepository(db),
		tags:  repository.NewTagRepository(db),
		rels:  repository.NewRelationRepository(db),
	}
	env.tagSvc = NewTagService(env.tags)
	env.postSvc = NewPostService(db, env.posts, env.rels, env.tagSvc)
	env.relSvc = NewRelationService(env.rels, env.posts, env.users)
	env.rankSvc = NewRankingService(env.tags, env.users)
	return env
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     name,
		Handle:       name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) article(t *testing.T, userID uint, title string) *models.Post {
	t.Helper()
	content := title + " body"
	post := &models.Post{
		UserID:     userID,
		Type:       models.PostTypeArticle,
		Title:      title,
		Content:    &content,
		Visibility: models.VisibilityPublic,
	}
	require.NoError(t, e.db.Omit("Tags").Create(post).Error)
	return post
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T: %v", err, err)
	return appErr.Code
}

var testCtx = context.Background()
