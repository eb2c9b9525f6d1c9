package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeFlipsState(t *testing.T) {
	env := setupEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.article(t, alice.ID, "hello")

	liked, err := env.relSvc.ToggleLike(testCtx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = env.relSvc.ToggleLike(testCtx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	// A third toggle lands back at liked, a fourth clears it again.
	liked, err = env.relSvc.ToggleLike(testCtx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = env.relSvc.ToggleLike(testCtx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestToggleLikeMissingPost(t *testing.T) {
	env := setupEnv(t)
	bob := env.user(t, "bob")

	_, err := env.relSvc.ToggleLike(testCtx, bob.ID, 999)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appCode(t, err))
}

func TestToggleFavoriteFlipsState(t *testing.T) {
	env := setupEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.article(t, alice.ID, "hello")

	favorited, err := env.relSvc.ToggleFavorite(testCtx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.True(t, env.relSvc.FavoriteStatus(testCtx, bob.ID, post.ID))

	favorited, err = env.relSvc.ToggleFavorite(testCtx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, favorited)
}

func TestToggleFollowRejectsSelf(t *testing.T) {
	env := setupEnv(t)
	alice := env.user(t, "alice")

	_, err := env.relSvc.ToggleFollow(testCtx, alice.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}

func TestToggleFollowMissingTarget(t *testing.T) {
	env := setupEnv(t)
	alice := env.user(t, "alice")

	_, err := env.relSvc.ToggleFollow(testCtx, alice.ID, 999)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appCode(t, err))
}

func TestToggleFollowFlipsState(t *testing.T) {
	env := setupEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	following, err := env.relSvc.ToggleFollow(testCtx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)
	assert.True(t, env.relSvc.FollowStatus(testCtx, alice.ID, bob.ID))
	assert.False(t, env.relSvc.FollowStatus(testCtx, bob.ID, alice.ID), "follows are directional")

	following, err = env.relSvc.ToggleFollow(testCtx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}
