package repository

import (
	"testing"
	"time"

	"promptfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByIDComputesLikeState(t *testing.T) {
	db := setupDB(t)
	postRepo := NewPostRepository(db)
	relRepo := NewRelationRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, alice.ID, "hello", time.Now())

	require.NoError(t, relRepo.AddLike(testCtx, bob.ID, post.ID))

	// The liker sees liked=true and the live count.
	got, err := postRepo.GetByID(testCtx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
	assert.True(t, got.Liked)
	assert.False(t, got.Favorited)
	assert.Equal(t, alice.ID, got.User.ID)

	// Anonymous viewers get the count but no personal flags.
	got, err = postRepo.GetByID(testCtx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
	assert.False(t, got.Liked)
}

func TestGetByIDNotFound(t *testing.T) {
	db := setupDB(t)
	postRepo := NewPostRepository(db)

	_, err := postRepo.GetByID(testCtx, 999, 0)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestSearchFiltersCombine(t *testing.T) {
	db := setupDB(t)
	postRepo := NewPostRepository(db)
	tagRepo := NewTagRepository(db)
	alice := createUser(t, db, "alice")

	golang, err := tagRepo.GetOrCreate(testCtx, "golang")
	require.NoError(t, err)

	matching := createPost(t, db, alice.ID, "Go concurrency patterns", time.Now())
	tagPost(t, db, matching.ID, golang)

	other := &models.Post{
		UserID:      alice.ID,
		Type:        models.PostTypePrompt,
		Title:       "Concurrency prompt",
		Content:     strptr("explain concurrency"),
		Description: strptr("desc"),
		Visibility:  models.VisibilityPublic,
	}
	require.NoError(t, db.Omit("Tags").Create(other).Error)

	// Query only, case-insensitive, matches both titles.
	posts, err := postRepo.Search(testCtx, SearchFilter{Query: "CONCURRENCY", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	// Query + type narrows to the prompt.
	posts, err = postRepo.Search(testCtx, SearchFilter{Query: "concurrency", Type: models.PostTypePrompt, Limit: 10})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, other.ID, posts[0].ID)

	// Tag filter narrows to the tagged article, case-insensitively.
	posts, err = postRepo.Search(testCtx, SearchFilter{Tag: "GOLANG", Limit: 10})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, matching.ID, posts[0].ID)

	// Query matches content as well as title.
	posts, err = postRepo.Search(testCtx, SearchFilter{Query: "explain", Limit: 10})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, other.ID, posts[0].ID)

	// No match yields an empty result, not an error.
	posts, err = postRepo.Search(testCtx, SearchFilter{Query: "no-such-text", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestSearchPopularSortUsesLikeCount(t *testing.T) {
	db := setupDB(t)
	postRepo := NewPostRepository(db)
	relRepo := NewRelationRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	older := createPost(t, db, alice.ID, "older", time.Now().Add(-time.Hour))
	newer := createPost(t, db, alice.ID, "newer", time.Now())

	require.NoError(t, relRepo.AddLike(testCtx, bob.ID, older.ID))
	require.NoError(t, relRepo.AddLike(testCtx, carol.ID, older.ID))
	require.NoError(t, relRepo.AddLike(testCtx, bob.ID, newer.ID))

	posts, err := postRepo.Search(testCtx, SearchFilter{Sort: "popular", Limit: 10})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, older.ID, posts[0].ID)
	assert.Equal(t, 2, posts[0].LikeCount)

	// Default sort is newest first.
	posts, err = postRepo.Search(testCtx, SearchFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
}

func TestListHidesNonPublicPosts(t *testing.T) {
	db := setupDB(t)
	postRepo := NewPostRepository(db)
	alice := createUser(t, db, "alice")

	createPost(t, db, alice.ID, "public", time.Now())
	private := &models.Post{
		UserID:     alice.ID,
		Type:       models.PostTypeArticle,
		Title:      "private",
		Content:    strptr("secret"),
		Visibility: models.VisibilityPrivate,
	}
	require.NoError(t, db.Omit("Tags").Create(private).Error)

	posts, err := postRepo.List(testCtx, SearchFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "public", posts[0].Title)

	// The owner sees both on their own profile listing.
	mine, err := postRepo.GetByUserID(testCtx, alice.ID, 10, 0, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	// Everyone else sees only the public one.
	theirs, err := postRepo.GetByUserID(testCtx, alice.ID, 10, 0, 0)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestFavoritedByReturnsPublicFavorites(t *testing.T) {
	db := setupDB(t)
	postRepo := NewPostRepository(db)
	relRepo := NewRelationRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	liked := createPost(t, db, alice.ID, "first", time.Now())
	createPost(t, db, alice.ID, "ignored", time.Now())

	require.NoError(t, relRepo.AddFavorite(testCtx, bob.ID, liked.ID))

	posts, err := postRepo.FavoritedBy(testCtx, bob.ID, 10, 0, bob.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, liked.ID, posts[0].ID)
	assert.True(t, posts[0].Favorited)
}

func TestIncrementViewCount(t *testing.T) {
	db := setupDB(t)
	postRepo := NewPostRepository(db)
	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice.ID, "hello", time.Now())

	require.NoError(t, postRepo.IncrementViewCount(testCtx, post.ID))
	require.NoError(t, postRepo.IncrementViewCount(testCtx, post.ID))

	got, err := postRepo.GetByID(testCtx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount)
}
