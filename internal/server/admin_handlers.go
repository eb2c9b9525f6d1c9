package server

import (
	"strings"

	"promptfolio/internal/models"
	"promptfolio/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	users, err := s.userRepo.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// AdminCreateUser handles POST /api/admin/users
func (s *Server) AdminCreateUser(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Handle   string `json:"handle"`
		Email    string `json:"email"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	handle := strings.TrimSpace(req.Handle)
	if handle == "" {
		handle = validation.DefaultHandle(req.Username)
	}
	if err := validation.ValidateHandle(handle); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Username:     req.Username,
		Handle:       handle,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		IsAdmin:      req.IsAdmin,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// AdminDeleteUser handles DELETE /api/admin/users/:id. Admins cannot delete
// themselves or other admin accounts.
func (s *Server) AdminDeleteUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if targetID == currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot delete your own account"))
	}

	target, err := s.userRepo.GetByIDWithCounts(c.Context(), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if target.IsAdmin {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin accounts cannot be deleted"))
	}

	if err := s.userRepo.Delete(c.Context(), targetID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// AdminListPosts handles GET /api/admin/posts. Unlike the public feed this
// lists every visibility state.
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	var posts []models.Post
	err := s.db.WithContext(c.Context()).
		Preload("User").
		Preload("Tags").
		Order("created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&posts).Error
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// AdminDeletePost handles DELETE /api/admin/posts/:id
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.postRepo.GetByID(c.Context(), postID, 0); err != nil {
		return models.RespondWithAppError(c, err)
	}
	if err := s.postRepo.Delete(c.Context(), postID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
