package server

import (
	"strings"

	"promptfolio/internal/models"
	"promptfolio/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByIDWithCounts(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Username  *string `json:"username"`
		Handle    *string `json:"handle"`
		Bio       *string `json:"bio"`
		Website   *string `json:"website"`
		XLink     *string `json:"x_link"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if req.Username != nil {
		if err := validation.ValidateUsername(*req.Username); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		user.Username = *req.Username
	}
	if req.Handle != nil {
		handle := strings.TrimSpace(*req.Handle)
		if err := validation.ValidateHandle(handle); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		user.Handle = handle
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Website != nil {
		user.Website = *req.Website
	}
	if req.XLink != nil {
		user.XLink = *req.XLink
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByIDWithCounts(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	viewerID, _ := s.optionalUserID(c)
	posts, err := s.postRepo.GetByUserID(c.Context(), userID, p.Limit, p.Offset, viewerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	users, err := s.relationRepo.Followers(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": publicUsers(users)})
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	users, err := s.relationRepo.Following(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": publicUsers(users)})
}

// GetMyFavorites handles GET /api/me/favorites
func (s *Server) GetMyFavorites(c *fiber.Ctx) error {
	userID := currentUserID(c)
	p := parsePagination(c, 20)
	posts, err := s.postRepo.FavoritedBy(c.Context(), userID, p.Limit, p.Offset, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func publicUsers(users []models.User) []models.PublicUser {
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}
