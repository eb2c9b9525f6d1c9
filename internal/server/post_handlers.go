package server

import (
	"promptfolio/internal/models"
	"promptfolio/internal/repository"
	"promptfolio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// searchFilterFromQuery builds the repository filter from query parameters.
// Browsing is anonymous-friendly; a bearer token only enriches liked/favorited
// flags.
func (s *Server) searchFilterFromQuery(c *fiber.Ctx) repository.SearchFilter {
	p := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)
	return repository.SearchFilter{
		Query:         c.Query("q"),
		Type:          c.Query("type"),
		Tag:           c.Query("tag"),
		Sort:          c.Query("sort"),
		Limit:         p.Limit,
		Offset:        p.Offset,
		CurrentUserID: userID,
	}
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.List(c.Context(), s.searchFilterFromQuery(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// SearchPosts handles GET /api/posts/search
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.postService.Search(c.Context(), s.searchFilterFromQuery(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID, _ := s.optionalUserID(c)
	post, err := s.postService.Get(c.Context(), postID, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.PostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.Context(), currentUserID(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.PostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID := currentUserID(c)
	admin, aerr := s.isAdmin(c, userID)
	if aerr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(aerr))
	}

	post, err := s.postService.Update(c.Context(), postID, userID, admin, req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	admin, aerr := s.isAdmin(c, userID)
	if aerr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(aerr))
	}

	if err := s.postService.Delete(c.Context(), postID, userID, admin); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
