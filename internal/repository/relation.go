package repository

import (
	"context"

	"promptfolio/internal/cache"
	"promptfolio/internal/models"

	"gorm.io/gorm"
)

// RelationRepository holds the row-level primitives for the three toggle
// relationships. Insert legs use INSERT ... ON CONFLICT DO NOTHING so the
// toggle race degrades to a no-op instead of a duplicate-key failure.
type RelationRepository interface {
	LikeExists(ctx context.Context, userID, postID uint) (bool, error)
	AddLike(ctx context.Context, userID, postID uint) error
	RemoveLike(ctx context.Context, userID, postID uint) error
	CountLikes(ctx context.Context, postID uint) (int64, error)

	FavoriteExists(ctx context.Context, userID, postID uint) (bool, error)
	AddFavorite(ctx context.Context, userID, postID uint) error
	RemoveFavorite(ctx context.Context, userID, postID uint) error

	FollowExists(ctx context.Context, followerID, followedID uint) (bool, error)
	AddFollow(ctx context.Context, followerID, followedID uint) error
	RemoveFollow(ctx context.Context, followerID, followedID uint) error
	Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
	Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
}

type relationRepository struct {
	db *gorm.DB
}

// NewRelationRepository returns a new RelationRepository implementation.
func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) pairExists(ctx context.Context, model interface{}, cond string, a, b uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where(cond, a, b).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *relationRepository) LikeExists(ctx context.Context, userID, postID uint) (bool, error) {
	return r.pairExists(ctx, &models.Like{}, "user_id = ? AND post_id = ?", userID, postID)
}

func (r *relationRepository) AddLike(ctx context.Context, userID, postID uint) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	return nil
}

func (r *relationRepository) RemoveLike(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *relationRepository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *relationRepository) FavoriteExists(ctx context.Context, userID, postID uint) (bool, error) {
	return r.pairExists(ctx, &models.Favorite{}, "user_id = ? AND post_id = ?", userID, postID)
}

func (r *relationRepository) AddFavorite(ctx context.Context, userID, postID uint) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO favorites (user_id, post_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	return nil
}

func (r *relationRepository) RemoveFavorite(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Favorite{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *relationRepository) FollowExists(ctx context.Context, followerID, followedID uint) (bool, error) {
	return r.pairExists(ctx, &models.Follow{}, "follower_id = ? AND followed_id = ?", followerID, followedID)
}

func (r *relationRepository) AddFollow(ctx context.Context, followerID, followedID uint) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, followed_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (follower_id, followed_id) DO NOTHING`,
		followerID, followedID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateUser(ctx, followedID)
	return nil
}

func (r *relationRepository) RemoveFollow(ctx context.Context, followerID, followedID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, followedID)
	return nil
}

func (r *relationRepository) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *relationRepository) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
