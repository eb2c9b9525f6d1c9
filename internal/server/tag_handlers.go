package server

import (
	"promptfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SuggestTags handles GET /api/tags/suggest?q=...&limit=N
func (s *Server) SuggestTags(c *fiber.Ctx) error {
	suggestions, err := s.tagService.Suggest(c.Context(),
		c.Query("q"), c.QueryInt("limit", 10))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"tags": suggestions})
}
