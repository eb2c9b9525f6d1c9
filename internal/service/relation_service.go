// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"context"

	"promptfolio/internal/models"
	"promptfolio/internal/repository"
)

// RelationService implements the symmetric create/delete ("toggle") semantics
// shared by likes, favorites and follows: if the unique pair row exists it is
// removed, otherwise it is created, and the new state is reported back.
type RelationService struct {
	relationRepo repository.RelationRepository
	postRepo     repository.PostRepository
	userRepo     repository.UserRepository
}

// NewRelationService returns a new RelationService.
func NewRelationService(
	relationRepo repository.RelationRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *RelationService {
	return &RelationService{
		relationRepo: relationRepo,
		postRepo:     postRepo,
		userRepo:     userRepo,
	}
}

func (s *RelationService) toggle(
	exists func() (bool, error),
	add func() error,
	remove func() error,
) (bool, error) {
	active, err := exists()
	if err != nil {
		return false, err
	}
	if active {
		if err := remove(); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := add(); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleLike flips the like state for (userID, postID) and returns the new state.
func (s *RelationService) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return false, err
	}
	return s.toggle(
		func() (bool, error) { return s.relationRepo.LikeExists(ctx, userID, postID) },
		func() error { return s.relationRepo.AddLike(ctx, userID, postID) },
		func() error { return s.relationRepo.RemoveLike(ctx, userID, postID) },
	)
}

// ToggleFavorite flips the favorite state for (userID, postID) and returns the new state.
func (s *RelationService) ToggleFavorite(ctx context.Context, userID, postID uint) (bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return false, err
	}
	return s.toggle(
		func() (bool, error) { return s.relationRepo.FavoriteExists(ctx, userID, postID) },
		func() error { return s.relationRepo.AddFavorite(ctx, userID, postID) },
		func() error { return s.relationRepo.RemoveFavorite(ctx, userID, postID) },
	)
}

// ToggleFollow flips the follow state for (followerID, followedID) and
// returns the new state. Following yourself is rejected before any row is
// touched.
func (s *RelationService) ToggleFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	if followerID == followedID {
		return false, models.NewValidationError("you cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return false, err
	}
	return s.toggle(
		func() (bool, error) { return s.relationRepo.FollowExists(ctx, followerID, followedID) },
		func() error { return s.relationRepo.AddFollow(ctx, followerID, followedID) },
		func() error { return s.relationRepo.RemoveFollow(ctx, followerID, followedID) },
	)
}

// LikeStatus reports whether userID has liked postID. Best-effort: any
// failure reads as "not liked" because this backs a UI affordance only.
func (s *RelationService) LikeStatus(ctx context.Context, userID, postID uint) bool {
	liked, err := s.relationRepo.LikeExists(ctx, userID, postID)
	if err != nil {
		return false
	}
	return liked
}

// FavoriteStatus reports whether userID has favorited postID, best-effort.
func (s *RelationService) FavoriteStatus(ctx context.Context, userID, postID uint) bool {
	favorited, err := s.relationRepo.FavoriteExists(ctx, userID, postID)
	if err != nil {
		return false
	}
	return favorited
}

// FollowStatus reports whether followerID follows followedID, best-effort.
func (s *RelationService) FollowStatus(ctx context.Context, followerID, followedID uint) bool {
	following, err := s.relationRepo.FollowExists(ctx, followerID, followedID)
	if err != nil {
		return false
	}
	return following
}
