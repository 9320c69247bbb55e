// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"devnest/internal/cache"
	"devnest/internal/config"
	"devnest/internal/database"
	"devnest/internal/middleware"
	"devnest/internal/models"
	"devnest/internal/repository"
	"devnest/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	notifRepo   repository.NotificationRepository

	feedService      *service.FeedService
	dashboardService *service.DashboardService
	userService      *service.UserService
	postService      *service.PostService
	commentService   *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	middleware.InitMiddleware(cfg)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	prom := middleware.InitMetrics("devnest-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		notifRepo:      notifRepo,
	}

	feedService, err := service.NewFeedService(postRepo, userRepo, cfg.FeedSocialRatio)
	if err != nil {
		return nil, err
	}
	dashboardService, err := service.NewDashboardService(userRepo, postRepo, commentRepo, notifRepo, cfg.DashboardWindowDays)
	if err != nil {
		return nil, err
	}
	server.feedService = feedService
	server.dashboardService = dashboardService
	server.userService = service.NewUserService(userRepo, notifRepo)
	server.postService = service.NewPostService(postRepo, userRepo, notifRepo)
	server.commentService = service.NewCommentService(commentRepo, postRepo, notifRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Feed: public, personalizes when a valid token is present
	api.Get("/feed", middleware.AuthOptional, s.GetFeed)

	// Public post routes (browse/search)
	publicPosts := api.Group("/posts", middleware.AuthOptional)
	publicPosts.Get("/search/categories", s.SearchPostsByCategories)
	publicPosts.Get("/search/type/:type", s.SearchPostsByType)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id", s.GetPost)

	// Public profile routes
	api.Get("/users/profile/:username", middleware.AuthOptional, s.GetUserProfile)
	api.Get("/users/profile/:username/posts", middleware.AuthOptional, s.GetUserPosts)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// User routes
	users := protected.Group("/users")
	users.Post("/sync", s.SyncUser)
	users.Get("/me", s.GetCurrentUser)
	users.Put("/me", s.UpdateProfile)
	users.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "user_search"), s.SearchUsers)
	users.Post("/:id/follow", s.ToggleFollow)

	// Protected post routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_post"), s.CreatePost)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Post("/:id/like", s.ToggleLike)
	posts.Post("/:id/share", s.SharePost)
	posts.Post("/:id/report", s.ReportPost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Comment routes
	protected.Delete("/comments/:id", s.DeleteComment)

	// Notification routes
	protected.Get("/notifications", s.GetNotifications)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/dashboard", s.GetDashboard)
	admin.Delete("/posts/:id", s.AdminDeletePost)
	admin.Post("/users/:id/ban", s.BanUser)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The cache is optional; readiness only degrades, it does not fail.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so the external identity is available.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.currentUser(c)
		if err != nil {
			return nil
		}
		if !user.IsAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		c.Locals(localUser, user)
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Devnest API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
