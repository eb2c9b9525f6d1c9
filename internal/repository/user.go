// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"promptfolio/internal/cache"
	"promptfolio/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDWithCounts(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByHandle(ctx context.Context, handle string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	RankByPosts(ctx context.Context, since *time.Time, limit int) ([]models.UserRank, error)
	RankByLikes(ctx context.Context, since *time.Time, limit int) ([]models.UserRank, error)
	RankByFollowers(ctx context.Context, limit int) ([]models.UserRank, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// cachedUser is the cache representation of a user. models.User hides its
// password hash from JSON, so the domain struct cannot round-trip through the
// cache without losing the credential column; the hash is carried alongside.
type cachedUser struct {
	User         models.User `json:"user"`
	PasswordHash string      `json:"password_hash"`
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var entry cachedUser
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &entry, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&entry.User, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		entry.PasswordHash = entry.User.PasswordHash
		return nil
	})
	if err != nil {
		return nil, err
	}
	user := entry.User
	user.PasswordHash = entry.PasswordHash
	return &user, nil
}

func (r *userRepository) GetByIDWithCounts(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Select("users.*, "+
			"(SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id) as post_count, "+
			"(SELECT COUNT(*) FROM follows WHERE follows.followed_id = users.id) as follower_count, "+
			"(SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id) as following_count").
		First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) getByField(ctx context.Context, field, value string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(field+" = ?", value).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getByField(ctx, "email", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getByField(ctx, "username", username)
}

func (r *userRepository) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	return r.getByField(ctx, "handle", handle)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if IsUniqueConstraintError(err) {
			return models.NewConflictError("username, handle or email already in use")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// IsUniqueConstraintError checks if a DB error is a unique constraint violation.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite says "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if IsUniqueConstraintError(err) {
			return models.NewConflictError("username, handle or email already in use")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	cache.InvalidateRankings(ctx)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// RankByPosts returns users ordered by number of posts created since the
// given time (nil means all time). Rank numbers are assigned by the caller.
func (r *userRepository) RankByPosts(ctx context.Context, since *time.Time, limit int) ([]models.UserRank, error) {
	var ranks []models.UserRank
	join := "LEFT JOIN posts ON posts.user_id = users.id"
	args := []interface{}{}
	if since != nil {
		join += " AND posts.created_at >= ?"
		args = append(args, *since)
	}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id, users.username, users.avatar_url, COUNT(posts.id) as count").
		Joins(join, args...).
		Group("users.id, users.username, users.avatar_url").
		Order("count DESC, users.id ASC").
		Limit(limit).
		Scan(&ranks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ranks, nil
}

// RankByLikes returns users ordered by total likes received across their
// posts, counting only posts created since the given time.
func (r *userRepository) RankByLikes(ctx context.Context, since *time.Time, limit int) ([]models.UserRank, error) {
	var ranks []models.UserRank
	join := "LEFT JOIN posts ON posts.user_id = users.id"
	args := []interface{}{}
	if since != nil {
		join += " AND posts.created_at >= ?"
		args = append(args, *since)
	}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id, users.username, users.avatar_url, COUNT(likes.id) as count").
		Joins(join, args...).
		Joins("LEFT JOIN likes ON likes.post_id = posts.id").
		Group("users.id, users.username, users.avatar_url").
		Order("count DESC, users.id ASC").
		Limit(limit).
		Scan(&ranks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ranks, nil
}

// RankByFollowers returns users ordered by follower count. Follow rows carry
// no date meaningful for windowing, so no period filter applies.
func (r *userRepository) RankByFollowers(ctx context.Context, limit int) ([]models.UserRank, error) {
	var ranks []models.UserRank
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id, users.username, users.avatar_url, COUNT(follows.id) as count").
		Joins("LEFT JOIN follows ON follows.followed_id = users.id").
		Group("users.id, users.username, users.avatar_url").
		Order("count DESC, users.id ASC").
		Limit(limit).
		Scan(&ranks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ranks, nil
}
