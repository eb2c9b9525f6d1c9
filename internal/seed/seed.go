// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"promptfolio/internal/models"
	"promptfolio/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var tagPool = []string{
	"ChatGPT", "Claude", "Gemini", "Midjourney", "StableDiffusion",
	"PromptEngineering", "Coding", "Writing", "Productivity", "ImageGen",
	"Research", "Translation", "Roleplay", "Education", "Marketing",
	"DataAnalysis", "Summarization", "Brainstorming", "Debugging", "Design",
}

var platforms = []string{"ChatGPT", "Claude", "Gemini", "Copilot", "Perplexity"}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	tags, err := createTags(db)
	if err != nil {
		return fmt.Errorf("failed to create tags: %w", err)
	}

	posts, err := createPosts(db, users, tags, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createEngagement(db, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE follows, favorites, likes, post_tags, tags, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", gofakeit.Username(), i)
		if len(username) > 30 {
			username = username[:30]
		}
		user := models.User{
			Username:     username,
			Handle:       validation.DefaultHandle(username),
			Email:        fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			PasswordHash: string(hash),
			Bio:          gofakeit.Sentence(12),
			IsAdmin:      i == 0,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createTags(db *gorm.DB) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagPool))
	for _, name := range tagPool {
		tag := models.Tag{Name: name}
		if err := db.Where("LOWER(name) = LOWER(?)", name).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func strptr(s string) *string { return &s }

func createPosts(db *gorm.DB, users []models.User, tags []models.Tag, count int) ([]models.Post, error) {
	types := []string{models.PostTypeArticle, models.PostTypePrompt, models.PostTypeConversation}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[rand.Intn(len(users))]
		post := models.Post{
			UserID:     user.ID,
			Type:       types[rand.Intn(len(types))],
			Title:      strings.TrimSuffix(gofakeit.Sentence(6), "."),
			Visibility: models.VisibilityPublic,
		}
		switch post.Type {
		case models.PostTypeArticle:
			post.Content = strptr(gofakeit.Paragraph(3, 4, 10, "\n\n"))
		case models.PostTypePrompt:
			post.Content = strptr(gofakeit.Paragraph(1, 4, 12, " "))
			post.Description = strptr(gofakeit.Sentence(15))
		case models.PostTypeConversation:
			post.Description = strptr(gofakeit.Sentence(15))
			post.Platform = strptr(platforms[rand.Intn(len(platforms))])
			post.Link = strptr(gofakeit.URL())
		}
		if err := db.Omit("Tags").Create(&post).Error; err != nil {
			return nil, err
		}

		for _, tag := range pickTags(tags) {
			row := models.PostTag{PostID: post.ID, TagID: tag.ID}
			if err := db.Create(&row).Error; err != nil {
				return nil, err
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func pickTags(tags []models.Tag) []models.Tag {
	n := 1 + rand.Intn(3)
	picked := make([]models.Tag, 0, n)
	seen := map[uint]bool{}
	for len(picked) < n {
		t := tags[rand.Intn(len(tags))]
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		picked = append(picked, t)
	}
	return picked
}

func createEngagement(db *gorm.DB, users []models.User, posts []models.Post) error {
	for _, user := range users {
		for _, post := range posts {
			if rand.Float32() < 0.15 {
				like := models.Like{UserID: user.ID, PostID: post.ID}
				if err := db.Create(&like).Error; err != nil {
					return err
				}
			}
			if rand.Float32() < 0.05 {
				fav := models.Favorite{UserID: user.ID, PostID: post.ID}
				if err := db.Create(&fav).Error; err != nil {
					return err
				}
			}
		}
		for _, other := range users {
			if other.ID != user.ID && rand.Float32() < 0.1 {
				follow := models.Follow{FollowerID: user.ID, FollowedID: other.ID}
				if err := db.Create(&follow).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}
