package server

import (
	"devnest/internal/middleware"
	"devnest/internal/models"
	"devnest/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SyncUser handles POST /api/users/sync. It creates an account on first login
// with the identity provider and is a no-op for known identities.
func (s *Server) SyncUser(c *fiber.Ctx) error {
	claims, ok := c.Locals(middleware.LocalClaims).(*middleware.IdentityClaims)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	user, created, err := s.userService.SyncUser(c.Context(), service.SyncUserInput{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		FirstName:  claims.FirstName,
		LastName:   claims.LastName,
		AvatarURL:  claims.AvatarURL,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(user)
}

// GetCurrentUser handles GET /api/users/me
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/profile/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	user, err := s.userService.GetProfile(c.Context(), username)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /api/users/me
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
		BannerURL string `json:"banner_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.userService.UpdateProfile(c.Context(), user, service.UpdateProfileInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		BannerURL: req.BannerURL,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(updated)
}

// ToggleFollow handles POST /api/users/:id/follow
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.userService.ToggleFollow(c.Context(), user, targetID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// SearchUsers handles GET /api/users/search?q=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	users, err := s.userService.SearchUsers(c.Context(), c.Query("q"), c.QueryInt("limit", 50))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(users)
}

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	notifications, err := s.notifRepo.ListForUser(c.Context(), user.ID, limit)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(notifications)
}
