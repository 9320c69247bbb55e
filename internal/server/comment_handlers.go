package server

import (
	"devnest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), user, postID, req.Content)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListByPost(c.Context(), postID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), user, commentID); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
