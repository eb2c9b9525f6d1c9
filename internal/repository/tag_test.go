package repository

import (
	"testing"
	"time"

	"promptfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	db := setupDB(t)
	repo := NewTagRepository(db)

	first, err := repo.GetOrCreate(testCtx, "ChatGPT")
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	assert.Equal(t, "ChatGPT", first.Name)

	// Same name in different case and with whitespace resolves to the same row.
	second, err := repo.GetOrCreate(testCtx, "  chatgpt ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "ChatGPT", second.Name, "original casing is kept")

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateRejectsEmptyName(t *testing.T) {
	db := setupDB(t)
	repo := NewTagRepository(db)

	_, err := repo.GetOrCreate(testCtx, "   ")
	assert.Error(t, err)
}

func TestReplaceForPostSwapsAssociations(t *testing.T) {
	db := setupDB(t)
	repo := NewTagRepository(db)
	user := createUser(t, db, "alice")
	post := createPost(t, db, user.ID, "hello", time.Now())

	a, err := repo.GetOrCreate(testCtx, "a")
	require.NoError(t, err)
	b, err := repo.GetOrCreate(testCtx, "b")
	require.NoError(t, err)
	c, err := repo.GetOrCreate(testCtx, "c")
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceForPost(testCtx, post.ID, []uint{a.ID, b.ID}))

	var rows []models.PostTag
	require.NoError(t, db.Where("post_id = ?", post.ID).Find(&rows).Error)
	require.Len(t, rows, 2)

	// Full replace: old set is gone, only the new set remains.
	require.NoError(t, repo.ReplaceForPost(testCtx, post.ID, []uint{c.ID}))
	require.NoError(t, db.Where("post_id = ?", post.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, c.ID, rows[0].TagID)

	// Replacing with the same set is a no-op in effect.
	require.NoError(t, repo.ReplaceForPost(testCtx, post.ID, []uint{c.ID}))
	require.NoError(t, db.Where("post_id = ?", post.ID).Find(&rows).Error)
	require.Len(t, rows, 1)

	// Empty set clears everything; the tag rows themselves survive.
	require.NoError(t, repo.ReplaceForPost(testCtx, post.ID, nil))
	require.NoError(t, db.Where("post_id = ?", post.ID).Find(&rows).Error)
	require.Len(t, rows, 0)

	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.EqualValues(t, 3, tagCount, "orphaned tags are not garbage-collected")
}

func TestSuggestOrdersByUsage(t *testing.T) {
	db := setupDB(t)
	repo := NewTagRepository(db)
	user := createUser(t, db, "alice")

	popular, err := repo.GetOrCreate(testCtx, "prompting")
	require.NoError(t, err)
	rare, err := repo.GetOrCreate(testCtx, "prompt-design")
	require.NoError(t, err)
	_, err = repo.GetOrCreate(testCtx, "unrelated")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		post := createPost(t, db, user.ID, "p", time.Now())
		tagPost(t, db, post.ID, popular)
	}
	post := createPost(t, db, user.ID, "q", time.Now())
	tagPost(t, db, post.ID, rare)

	suggestions, err := repo.Suggest(testCtx, "PROMPT", 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "prompting", suggestions[0].Name)
	assert.Equal(t, 3, suggestions[0].Count)
	assert.Equal(t, "prompt-design", suggestions[1].Name)
}

func TestSuggestEmptyQuery(t *testing.T) {
	db := setupDB(t)
	repo := NewTagRepository(db)

	suggestions, err := repo.Suggest(testCtx, "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestRankCountsWithinWindow(t *testing.T) {
	db := setupDB(t)
	repo := NewTagRepository(db)
	user := createUser(t, db, "alice")

	hot, err := repo.GetOrCreate(testCtx, "hot")
	require.NoError(t, err)
	old, err := repo.GetOrCreate(testCtx, "old")
	require.NoError(t, err)

	now := time.Now()
	for i := 0; i < 2; i++ {
		post := createPost(t, db, user.ID, "recent", now)
		tagPost(t, db, post.ID, hot)
	}
	for i := 0; i < 3; i++ {
		post := createPost(t, db, user.ID, "ancient", now.AddDate(0, 0, -30))
		tagPost(t, db, post.ID, old)
	}

	// All time: "old" wins on volume.
	ranks, err := repo.Rank(testCtx, nil, 10)
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	assert.Equal(t, "old", ranks[0].Name)
	assert.Equal(t, 3, ranks[0].PostCount)

	// Last week: only recent posts count, old tag still appears with zero.
	since := now.AddDate(0, 0, -7)
	ranks, err = repo.Rank(testCtx, &since, 10)
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	assert.Equal(t, "hot", ranks[0].Name)
	assert.Equal(t, 2, ranks[0].PostCount)
	assert.Equal(t, 0, ranks[1].PostCount)
}
