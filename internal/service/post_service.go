package service

import (
	"context"

	"promptfolio/internal/models"
	"promptfolio/internal/repository"

	"gorm.io/gorm"
)

// PostInput carries the writable post fields from the API layer.
type PostInput struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Content     *string  `json:"content"`
	Description *string  `json:"description"`
	Platform    *string  `json:"platform"`
	Link        *string  `json:"link"`
	Visibility  string   `json:"visibility"`
	Tags        []string `json:"tags"`
}

// PostService owns the post lifecycle: shape validation, ownership checks,
// visibility gating and the transactional tag swap.
type PostService struct {
	db           *gorm.DB
	postRepo     repository.PostRepository
	relationRepo repository.RelationRepository
	tagService   *TagService
}

// NewPostService returns a new PostService.
func NewPostService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	relationRepo repository.RelationRepository,
	tagService *TagService,
) *PostService {
	return &PostService{
		db:           db,
		postRepo:     postRepo,
		relationRepo: relationRepo,
		tagService:   tagService,
	}
}

// Create validates and persists a new post together with its tags, in one
// transaction.
func (s *PostService) Create(ctx context.Context, userID uint, in PostInput) (*models.Post, error) {
	post := &models.Post{
		UserID:      userID,
		Type:        in.Type,
		Title:       in.Title,
		Content:     in.Content,
		Description: in.Description,
		Platform:    in.Platform,
		Link:        in.Link,
		Visibility:  in.Visibility,
	}
	if err := post.ValidateShape(); err != nil {
		return nil, err
	}
	if _, err := NormalizeNames(in.Tags); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.WithTx(tx).Create(ctx, post); err != nil {
			return err
		}
		tags, err := s.tagService.ReplaceTags(ctx, tx, post.ID, in.Tags)
		if err != nil {
			return err
		}
		post.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, userID)
}

// Update applies the input to an existing post. Only the owner or an admin
// may edit; the updated post must still satisfy its type's shape.
func (s *PostService) Update(ctx context.Context, postID, actorID uint, isAdmin bool, in PostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	if post.UserID != actorID && !isAdmin {
		return nil, models.NewForbiddenError("you can only edit your own posts")
	}

	post.Type = in.Type
	post.Title = in.Title
	post.Content = in.Content
	post.Description = in.Description
	post.Platform = in.Platform
	post.Link = in.Link
	post.Visibility = in.Visibility
	if err := post.ValidateShape(); err != nil {
		return nil, err
	}
	if _, err := NormalizeNames(in.Tags); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.WithTx(tx).Update(ctx, post); err != nil {
			return err
		}
		_, err := s.tagService.ReplaceTags(ctx, tx, post.ID, in.Tags)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, actorID)
}

// Delete removes a post. Only the owner or an admin may delete. Tag and
// relation rows go with it via cascading foreign keys.
func (s *PostService) Delete(ctx context.Context, postID, actorID uint, isAdmin bool) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}
	if post.UserID != actorID && !isAdmin {
		return models.NewForbiddenError("you can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// canView applies the visibility gate for a fetched post.
func (s *PostService) canView(ctx context.Context, post *models.Post, viewerID uint) (bool, error) {
	if post.Visibility == models.VisibilityPublic || post.UserID == viewerID {
		return true, nil
	}
	if post.Visibility == models.VisibilityFollowersOnly && viewerID != 0 {
		return s.relationRepo.FollowExists(ctx, viewerID, post.UserID)
	}
	return false, nil
}

// Get fetches a post for the given viewer, enforcing visibility and bumping
// the view counter. Hidden posts read as not found rather than forbidden so
// private post IDs are not probeable.
func (s *PostService) Get(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	visible, err := s.canView(ctx, post, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if viewerID != post.UserID {
		if err := s.postRepo.IncrementViewCount(ctx, postID); err == nil {
			post.ViewCount++
		}
	}
	return post, nil
}

// Search runs the combined text/type/tag filter over public posts.
func (s *PostService) Search(ctx context.Context, f repository.SearchFilter) ([]*models.Post, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Type != "" && f.Type != "all" && !models.ValidType(f.Type) {
		return nil, models.NewValidationError("type must be article, prompt or conversation")
	}
	return s.postRepo.Search(ctx, f)
}

// List returns the public feed with the same filter machinery as Search.
func (s *PostService) List(ctx context.Context, f repository.SearchFilter) ([]*models.Post, error) {
	return s.Search(ctx, f)
}
