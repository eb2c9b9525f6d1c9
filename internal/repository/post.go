package repository

import (
	"context"
	"errors"
	"strings"

	"promptfolio/internal/cache"
	"promptfolio/internal/models"

	"gorm.io/gorm"
)

// SearchFilter is the dynamic predicate for listing and searching posts.
// Zero values mean "no filter" for Query/Type/Tag.
type SearchFilter struct {
	Query         string
	Type          string
	Tag           string
	Sort          string // "new" (default) or "popular"
	Limit         int
	Offset        int
	CurrentUserID uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, f SearchFilter) ([]*models.Post, error)
	Search(ctx context.Context, f SearchFilter) ([]*models.Post, error)
	FavoritedBy(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error
	WithTx(tx *gorm.DB) PostRepository
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Tags", "User").Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyPostDetails adds subqueries to fetch the live like count and the
// requesting user's liked/favorited state in a single query. The likes table
// is the source of truth for counts; there is no cached counter column.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as like_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked"+
			", EXISTS(SELECT 1 FROM favorites WHERE favorites.post_id = posts.id AND favorites.user_id = ?) as favorited",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", 1=0 as liked, 1=0 as favorited")
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Tags").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	posts := make([]*models.Post, 0)
	q := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Tags").
		Where("posts.user_id = ?", userID)
	// Only the owner sees their private, draft and followers-only posts here.
	if currentUserID != userID {
		q = q.Where("posts.visibility = ?", models.VisibilityPublic)
	}
	err := q.Order("posts.created_at DESC, posts.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applySort appends the ORDER BY clause for the requested sort type.
// like_count is a SELECT alias from applyPostDetails.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "popular":
		return db.Order("like_count DESC, posts.id ASC")
	default: // "new" and anything unrecognized
		return db.Order("posts.created_at DESC, posts.id ASC")
	}
}

// applyFilter composes the dynamic search predicate. Text and tag matching
// are case-insensitive (uniform policy across all lookup paths).
func (r *postRepository) applyFilter(db *gorm.DB, f SearchFilter) *gorm.DB {
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		db = db.Where("LOWER(posts.title) LIKE ? OR LOWER(COALESCE(posts.content, '')) LIKE ?", like, like)
	}
	if f.Type != "" && f.Type != "all" {
		db = db.Where("posts.type = ?", f.Type)
	}
	if f.Tag != "" {
		db = db.Where("posts.id IN (?)",
			r.db.Model(&models.PostTag{}).
				Select("post_tags.post_id").
				Joins("JOIN tags ON tags.id = post_tags.tag_id").
				Where("LOWER(tags.name) = LOWER(?)", strings.TrimSpace(f.Tag)))
	}
	return db
}

func (r *postRepository) list(ctx context.Context, f SearchFilter) ([]*models.Post, error) {
	// Non-nil so an empty page serializes as [] rather than null.
	posts := make([]*models.Post, 0)
	base := r.applyPostDetails(r.db.WithContext(ctx), f.CurrentUserID).
		Preload("User").
		Preload("Tags").
		Where("posts.visibility = ?", models.VisibilityPublic)
	base = r.applyFilter(base, f)
	err := r.applySort(base, f.Sort).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, f SearchFilter) ([]*models.Post, error) {
	return r.list(ctx, f)
}

func (r *postRepository) Search(ctx context.Context, f SearchFilter) ([]*models.Post, error) {
	return r.list(ctx, f)
}

// FavoritedBy returns the public posts a user has favorited, newest favorite first.
func (r *postRepository) FavoritedBy(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	posts := make([]*models.Post, 0)
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Tags").
		Joins("JOIN favorites ON favorites.post_id = posts.id").
		Where("favorites.user_id = ?", userID).
		Where("posts.visibility = ?", models.VisibilityPublic).
		Order("favorites.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Tags", "User").Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	// Deletion should not linger in cached ranking pages.
	cache.InvalidateRankings(ctx)
	return nil
}

// IncrementViewCount bumps the persisted view counter with a single UPDATE.
func (r *postRepository) IncrementViewCount(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
