package service

import (
	"context"
	"strings"

	"promptfolio/internal/models"
	"promptfolio/internal/repository"

	"gorm.io/gorm"
)

// MaxTagsPerPost caps the tag list on a post.
const MaxTagsPerPost = 5

// TagService owns tag normalization and the post/tag association lifecycle.
type TagService struct {
	tagRepo repository.TagRepository
}

// NewTagService returns a new TagService.
func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// NormalizeNames trims the incoming tag names, drops empties and dedupes them
// case-insensitively, preserving first-seen order and casing.
func NormalizeNames(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	if len(out) > MaxTagsPerPost {
		return nil, models.NewValidationError("a post can have at most 5 tags")
	}
	return out, nil
}

// ReplaceTags sets the post's tag list to exactly the given names, creating
// missing tags on the way. Runs against the caller's transaction so the tag
// swap commits or rolls back together with the post write. Returns the
// resolved tags in input order.
func (s *TagService) ReplaceTags(ctx context.Context, tx *gorm.DB, postID uint, names []string) ([]models.Tag, error) {
	normalized, err := NormalizeNames(names)
	if err != nil {
		return nil, err
	}

	repo := s.tagRepo.WithTx(tx)
	tags := make([]models.Tag, 0, len(normalized))
	tagIDs := make([]uint, 0, len(normalized))
	for _, name := range normalized {
		tag, err := repo.GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
		tagIDs = append(tagIDs, tag.ID)
	}

	if err := repo.ReplaceForPost(ctx, postID, tagIDs); err != nil {
		return nil, err
	}
	return tags, nil
}

// Suggest returns up to limit tags matching the query, most-used first.
func (s *TagService) Suggest(ctx context.Context, query string, limit int) ([]models.TagSuggestion, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.tagRepo.Suggest(ctx, query, limit)
}
