package server

import (
	"devnest/internal/middleware"
	"devnest/internal/models"
	"devnest/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed. Anonymous callers get the popularity feed;
// authenticated callers get posts from followed accounts blended with popular
// posts.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	viewerID := s.optionalViewerID(c)

	posts, err := s.feedService.ComposeFeed(c.Context(), viewerID)
	if err != nil {
		return s.respondError(c, err)
	}

	viewer := "anonymous"
	if viewerID != 0 {
		viewer = "authenticated"
	}
	middleware.FeedCompositions.WithLabelValues(viewer).Inc()

	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		Content    string   `json:"content"`
		Type       string   `json:"type"`
		Categories []string `json:"categories"`
		Price      *float64 `json:"price"`
		ImageURL   string   `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), user, service.CreatePostInput{
		Content:    req.Content,
		Type:       req.Type,
		Categories: req.Categories,
		Price:      req.Price,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, s.optionalViewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/profile/:username/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	posts, err := s.postService.GetUserPosts(c.Context(), username, s.optionalViewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
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

	post, err := s.postService.UpdateContent(c.Context(), user, postID, req.Content)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
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

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.postService.ToggleLike(c.Context(), user, postID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// SharePost handles POST /api/posts/:id/share
func (s *Server) SharePost(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	share, err := s.postService.SharePost(c.Context(), user, postID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(share)
}

// ReportPost handles POST /api/posts/:id/report
func (s *Server) ReportPost(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.postService.ReportPost(c.Context(), user, postID, req.Reason); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post reported"})
}

// SearchPostsByCategories handles GET /api/posts/search/categories?categories=a,b
func (s *Server) SearchPostsByCategories(c *fiber.Ctx) error {
	posts, err := s.postService.SearchByCategories(c.Context(), c.Query("categories"), s.optionalViewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(posts)
}

// SearchPostsByType handles GET /api/posts/search/type/:type
func (s *Server) SearchPostsByType(c *fiber.Ctx) error {
	posts, err := s.postService.SearchByType(c.Context(), c.Params("type"), s.optionalViewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(posts)
}
