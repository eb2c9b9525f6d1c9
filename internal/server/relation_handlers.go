package server

import (
	"promptfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

type toggleRequest struct {
	PostID uint `json:"post_id"`
	UserID uint `json:"user_id"`
}

func parseToggleBody(c *fiber.Ctx) (*toggleRequest, error) {
	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return nil, errResponseWritten
	}
	return &req, nil
}

// ToggleLike handles POST /api/likes
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	req, err := parseToggleBody(c)
	if err != nil {
		return nil
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post_id is required"))
	}

	liked, err := s.relationService.ToggleLike(c.Context(), currentUserID(c), req.PostID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// GetLikeStatus handles GET /api/likes/:postId/status
func (s *Server) GetLikeStatus(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	return c.JSON(fiber.Map{
		"liked": s.relationService.LikeStatus(c.Context(), currentUserID(c), postID),
	})
}

// ToggleFavorite handles POST /api/favorites
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	req, err := parseToggleBody(c)
	if err != nil {
		return nil
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post_id is required"))
	}

	favorited, err := s.relationService.ToggleFavorite(c.Context(), currentUserID(c), req.PostID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"favorited": favorited})
}

// GetFavoriteStatus handles GET /api/favorites/:postId/status
func (s *Server) GetFavoriteStatus(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	return c.JSON(fiber.Map{
		"favorited": s.relationService.FavoriteStatus(c.Context(), currentUserID(c), postID),
	})
}

// ToggleFollow handles POST /api/follows
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	req, err := parseToggleBody(c)
	if err != nil {
		return nil
	}
	if req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	following, err := s.relationService.ToggleFollow(c.Context(), currentUserID(c), req.UserID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// GetFollowStatus handles GET /api/follows/:userId/status
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	return c.JSON(fiber.Map{
		"following": s.relationService.FollowStatus(c.Context(), currentUserID(c), userID),
	})
}
