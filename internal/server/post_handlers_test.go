package server

import (
	"net/http"
	"testing"

	"promptfolio/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	s, app := newTestServer(t)
	_, token := seedUser(t, s, "alice", false)

	resp, body := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"type":    "article",
		"title":   "Getting started with prompts",
		"content": "Long form text",
		"tags":    []string{"Beginners", "ChatGPT"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "article", body["type"])
	assert.Len(t, body["tags"], 2)
	assert.EqualValues(t, 0, body["like_count"])
}

func TestCreatePostShapeErrors(t *testing.T) {
	s, app := newTestServer(t)
	_, token := seedUser(t, s, "alice", false)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"conversation without description", map[string]any{
			"type": "conversation", "title": "Chat", "platform": "ChatGPT",
		}},
		{"prompt without description", map[string]any{
			"type": "prompt", "title": "P", "content": "do the thing",
		}},
		{"article without content", map[string]any{
			"type": "article", "title": "A",
		}},
		{"unknown type", map[string]any{
			"type": "poem", "title": "A", "content": "x",
		}},
		{"too many tags", map[string]any{
			"type": "article", "title": "A", "content": "x",
			"tags": []string{"a", "b", "c", "d", "e", "f"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, http.MethodPost, "/api/posts", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUpdatePostForbiddenForNonOwner(t *testing.T) {
	s, app := newTestServer(t)
	alice, _ := seedUser(t, s, "alice", false)
	_, malloryToken := seedUser(t, s, "mallory", false)
	post := seedArticle(t, s, alice.ID, "original")

	resp, _ := doJSON(t, app, http.MethodPut, postPath(post), malloryToken, map[string]any{
		"type": "article", "title": "hijacked", "content": "x",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdatePostByOwner(t *testing.T) {
	s, app := newTestServer(t)
	alice, token := seedUser(t, s, "alice", false)
	post := seedArticle(t, s, alice.ID, "original")

	resp, body := doJSON(t, app, http.MethodPut, postPath(post), token, map[string]any{
		"type": "article", "title": "edited", "content": "new body",
		"tags": []string{"Updated"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "edited", body["title"])
	assert.Len(t, body["tags"], 1)
}

func TestDeletePost(t *testing.T) {
	s, app := newTestServer(t)
	alice, token := seedUser(t, s, "alice", false)
	post := seedArticle(t, s, alice.ID, "doomed")

	resp, _ := doJSON(t, app, http.MethodDelete, postPath(post), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, postPath(post), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPostAnonymous(t *testing.T) {
	s, app := newTestServer(t)
	alice, _ := seedUser(t, s, "alice", false)
	post := seedArticle(t, s, alice.ID, "hello")

	resp, body := doJSON(t, app, http.MethodGet, postPath(post), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", body["title"])
	assert.Equal(t, false, body["liked"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
}

func TestOptionalIdentityRejectsBadTokens(t *testing.T) {
	s, app := newTestServer(t)
	mr := miniredis.RunT(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	alice, token := seedUser(t, s, "alice", false)
	post := seedArticle(t, s, alice.ID, "hello")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/likes", token, map[string]any{"post_id": post.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, postPath(post), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["liked"])

	// Same subject, wrong issuer: the browse path must read it as anonymous.
	resp, body = doJSON(t, app, http.MethodGet, postPath(post), foreignToken(t, s, alice.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["liked"])

	// A revoked token must stop personalizing responses too.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, postPath(post), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["liked"])
}

func TestGetPostInvalidID(t *testing.T) {
	_, app := newTestServer(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/posts/banana", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListPostsHidesPrivate(t *testing.T) {
	s, app := newTestServer(t)
	alice, _ := seedUser(t, s, "alice", false)
	seedArticle(t, s, alice.ID, "public one")

	secret := "hidden"
	content := "secret"
	require.NoError(t, s.db.Omit("Tags").Create(&models.Post{
		UserID: alice.ID, Type: models.PostTypeArticle, Title: secret,
		Content: &content, Visibility: models.VisibilityPrivate,
	}).Error)

	resp, body := doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	posts := body["posts"].([]any)
	require.Len(t, posts, 1)
}

func TestSearchPosts(t *testing.T) {
	s, app := newTestServer(t)
	alice, token := seedUser(t, s, "alice", false)
	seedArticle(t, s, alice.ID, "Unrelated")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"type": "prompt", "title": "Recipe generator", "content": "make food",
		"description": "kitchen things", "tags": []string{"Cooking"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/posts/search?q=recipe", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["posts"], 1)

	resp, body = doJSON(t, app, http.MethodGet, "/api/posts/search?tag=cooking&type=prompt", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["posts"], 1)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/posts/search?type=poem", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/posts/search?q=recipe&tag=wrongtag", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["posts"], 0)
}

func postPath(post *models.Post) string {
	return "/api/posts/" + itoa(post.ID)
}
