package server

import (
	"promptfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/uploads/:bucket with a multipart "file" field.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	if s.store == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}

	header, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A file field is required"))
	}

	result, err := s.store.Upload(c.Context(), currentUserID(c), c.Params("bucket"), header, resizeParams(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// resizeParams collects the optional resize hints from the multipart form.
// They ride along as object metadata for the image pipeline.
func resizeParams(c *fiber.Ctx) map[string]string {
	meta := map[string]string{}
	for _, key := range []string{"max_width", "max_height", "quality", "format"} {
		if v := c.FormValue(key); v != "" {
			meta[key] = v
		}
	}
	return meta
}

// DeleteImage handles DELETE /api/uploads with a JSON body {"path": "..."}.
func (s *Server) DeleteImage(c *fiber.Ctx) error {
	if s.store == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}

	var req struct {
		Path string `json:"path"`
	}
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An object path is required"))
	}

	userID := currentUserID(c)
	admin, aerr := s.isAdmin(c, userID)
	if aerr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(aerr))
	}

	if err := s.store.Delete(c.Context(), userID, admin, req.Path); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Image deleted"})
}
