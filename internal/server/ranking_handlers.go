package server

import (
	"promptfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTagRankings handles GET /api/rankings/tags?period=all|week|month&limit=N
func (s *Server) GetTagRankings(c *fiber.Ctx) error {
	ranks, err := s.rankingService.RankTags(c.Context(),
		c.Query("period", "all"), c.QueryInt("limit", 0))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"rankings": ranks})
}

// GetUserRankings handles GET /api/rankings/users?metric=posts|likes|followers&period=...&limit=N
func (s *Server) GetUserRankings(c *fiber.Ctx) error {
	ranks, err := s.rankingService.RankUsers(c.Context(),
		c.Query("metric", "posts"), c.Query("period", "all"), c.QueryInt("limit", 0))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"rankings": ranks})
}
