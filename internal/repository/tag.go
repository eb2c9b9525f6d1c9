package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"promptfolio/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines persistence operations for tags and their post
// associations.
type TagRepository interface {
	GetOrCreate(ctx context.Context, name string) (*models.Tag, error)
	ReplaceForPost(ctx context.Context, postID uint, tagIDs []uint) error
	Suggest(ctx context.Context, query string, limit int) ([]models.TagSuggestion, error)
	Rank(ctx context.Context, since *time.Time, limit int) ([]models.TagRank, error)
	WithTx(tx *gorm.DB) TagRepository
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

// GetOrCreate looks a tag up by name (case-insensitive, trimmed) and creates
// it if absent. A concurrent create racing on the unique name index is not an
// error: the conflict is treated as "someone else created it" and the row is
// re-fetched.
func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("tag name is empty")
	}

	var tag models.Tag
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	tag = models.Tag{Name: name}
	if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if !IsUniqueConstraintError(err) {
			return nil, models.NewInternalError(err)
		}
		// Lost the race; fetch the winner's row.
		if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&tag).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	return &tag, nil
}

// ReplaceForPost swaps the post's tag set: delete all existing join rows,
// then insert the new ones. Callers wrap this in a transaction together with
// the post write so a crash cannot strip a post of its tags.
func (r *tagRepository) ReplaceForPost(ctx context.Context, postID uint, tagIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	for _, tagID := range tagIDs {
		row := models.PostTag{PostID: postID, TagID: tagID}
		if err := db.Create(&row).Error; err != nil {
			if IsUniqueConstraintError(err) {
				continue
			}
			return models.NewInternalError(err)
		}
	}
	return nil
}

// Suggest returns tags whose name contains the query (case-insensitive),
// ordered by how many posts use them.
func (r *tagRepository) Suggest(ctx context.Context, query string, limit int) ([]models.TagSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.TagSuggestion{}, nil
	}

	suggestions := make([]models.TagSuggestion, 0)
	like := "%" + strings.ToLower(query) + "%"
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.id, tags.name, COUNT(post_tags.post_id) as count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("LOWER(tags.name) LIKE ?", like).
		Group("tags.id, tags.name").
		Order("count DESC, tags.id ASC").
		Limit(limit).
		Scan(&suggestions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return suggestions, nil
}

// Rank returns tags ordered by the number of posts referencing them, counting
// only posts created since the given time (nil means all time). Rank numbers
// are assigned by the caller.
func (r *tagRepository) Rank(ctx context.Context, since *time.Time, limit int) ([]models.TagRank, error) {
	var ranks []models.TagRank
	join := "LEFT JOIN post_tags ON post_tags.tag_id = tags.id " +
		"LEFT JOIN posts ON posts.id = post_tags.post_id"
	q := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Joins(join)
	if since != nil {
		q = q.Select("tags.id, tags.name, COUNT(CASE WHEN posts.created_at >= ? THEN posts.id END) as post_count", *since)
	} else {
		q = q.Select("tags.id, tags.name, COUNT(posts.id) as post_count")
	}
	err := q.Group("tags.id, tags.name").
		Order("post_count DESC, tags.id ASC").
		Limit(limit).
		Scan(&ranks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ranks, nil
}
