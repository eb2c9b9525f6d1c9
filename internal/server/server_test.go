package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"promptfolio/internal/config"
	"promptfolio/internal/database"
	"promptfolio/internal/models"
	"promptfolio/internal/repository"
	"promptfolio/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a Server against an in-memory database with no Redis.
// Prometheus middleware is left out: registering collectors twice in one test
// binary panics.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret: strings.Repeat("s", 32),
		Env:       "test",
	}

	s := &Server{
		config:       cfg,
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		postRepo:     repository.NewPostRepository(db),
		tagRepo:      repository.NewTagRepository(db),
		relationRepo: repository.NewRelationRepository(db),
	}
	s.tagService = service.NewTagService(s.tagRepo)
	s.postService = service.NewPostService(db, s.postRepo, s.relationRepo, s.tagService)
	s.rankingService = service.NewRankingService(s.tagRepo, s.userRepo)
	s.relationService = service.NewRelationService(s.relationRepo, s.postRepo, s.userRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

var testPasswordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

func seedUser(t *testing.T, s *Server, name string, admin bool) (*models.User, string) {
	t.Helper()
	user := &models.User{
		Username:     name,
		Handle:       name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: testPasswordHash,
		IsAdmin:      admin,
	}
	require.NoError(t, s.db.Create(user).Error)

	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

// foreignToken signs a token with the server's secret but a different issuer.
func foreignToken(t *testing.T, s *Server, userID uint) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": "someone-else",
		"aud": tokenAudience,
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.JWTSecret))
	require.NoError(t, err)
	return signed
}

func seedArticle(t *testing.T, s *Server, userID uint, title string) *models.Post {
	t.Helper()
	content := title + " body"
	post := &models.Post{
		UserID:     userID,
		Type:       models.PostTypeArticle,
		Title:      title,
		Content:    &content,
		Visibility: models.VisibilityPublic,
	}
	require.NoError(t, s.db.Omit("Tags").Create(post).Error)
	return post
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}
