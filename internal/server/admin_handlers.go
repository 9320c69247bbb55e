package server

import (
	"time"

	"devnest/internal/middleware"
	"devnest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetDashboard handles GET /api/admin/dashboard. The snapshot is assembled
// from concurrent store reads and is all-or-nothing: any failed read fails
// the request.
func (s *Server) GetDashboard(c *fiber.Ctx) error {
	start := time.Now()
	snapshot, err := s.dashboardService.Build(c.Context())
	if err != nil {
		return s.respondError(c, err)
	}
	middleware.DashboardBuildDuration.Observe(time.Since(start).Seconds())

	return c.JSON(snapshot)
}

// AdminDeletePost handles DELETE /api/admin/posts/:id
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), user, postID); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// BanUser handles POST /api/admin/users/:id/ban
func (s *Server) BanUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Minutes int    `json:"minutes"`
		Reason  string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	banned, err := s.userService.BanUser(c.Context(), targetID, req.Minutes, req.Reason)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(banned)
}
