package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/illegalcall/emerge/internal/coach"
	"github.com/illegalcall/emerge/internal/config"
	"github.com/illegalcall/emerge/internal/dashboard"
	"github.com/illegalcall/emerge/internal/goals"
	"github.com/illegalcall/emerge/internal/models"
	"github.com/illegalcall/emerge/internal/profile"
	"github.com/illegalcall/emerge/internal/recommend"
	"github.com/illegalcall/emerge/internal/storage"
)

// Services are the domain components the handlers delegate to
type Services struct {
	Profiles   *profile.Service
	Goals      *goals.Manager
	Dashboard  *dashboard.Aggregator
	Recommend  *recommend.Service
	Coach      *coach.Coach
	Activities storage.ActivityStore
}

type Server struct {
	app    *fiber.App
	cfg    *config.Config
	svc    Services
	logger *slog.Logger
}

func NewServer(cfg *config.Config, svc Services, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:      "emerge",
		ErrorHandler: fiberErrorHandler,
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Server.MaxRequests,
		Expiration: cfg.Server.RequestTimeout,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.APIResponse{
				Success: false,
				Error:   "Too many requests",
			})
		},
	}))

	server := &Server{
		app:    app,
		cfg:    cfg,
		svc:    svc,
		logger: log,
	}

	// Routes
	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api")

	api.Post("/survey", s.handleSubmitSurvey)
	api.Get("/user/:userId", s.handleGetUser)
	api.Get("/dashboard/:userId", s.handleDashboard)

	// suggest must be registered before /goals/:userId
	api.Get("/goals/suggest/:userId", s.handleSuggestGoals)
	api.Post("/goals/refresh/:userId", s.handleRefreshGoals)
	api.Get("/goals/:userId", s.handleListGoals)
	api.Post("/goals", s.handleCreateGoal)
	api.Put("/goals/:id", s.handleUpdateGoal)
	api.Post("/goals/:id/complete", s.handleCompleteGoal)
	api.Delete("/goals/:id", s.handleDeleteGoal)

	api.Get("/course-recommendation/:userId", s.handleCourseRecommendation)
	api.Get("/personalized-recommendations/:userId", s.handlePersonalizedRecommendations)
	// trends are the same for every user of a subject, so they are safe to cache
	api.Get("/career-trends/:subject", cache.New(cache.Config{
		Expiration:   s.cfg.Server.CacheExpiration,
		CacheControl: true,
	}), s.handleTrends)

	api.Post("/career-coach", s.handleCareerCoach)
	api.Post("/activities", s.handleCreateActivity)
	api.Get("/activities/:userId", s.handleListActivities)
}

// App exposes the fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	return s.app.Listen(s.cfg.Server.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) userID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("userId")
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid user ID")
	}
	return int64(id), nil
}

// respondError maps the error kind to a status code and writes the failure body.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status, message := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return c.Status(status).JSON(models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func statusFor(err error) (int, string) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return fiber.StatusGatewayTimeout, "Request timed out"
		}
		return fiber.StatusInternalServerError, "Internal server error"
	}

	switch {
	case errors.Is(appErr.Kind, models.ErrValidation):
		return fiber.StatusBadRequest, appErr.Message
	case errors.Is(appErr.Kind, models.ErrNotFound):
		return fiber.StatusNotFound, appErr.Message
	case errors.Is(appErr.Kind, models.ErrGeneration):
		return fiber.StatusBadGateway, appErr.Message
	case errors.Is(appErr.Kind, models.ErrUpstreamUnavailable):
		return fiber.StatusServiceUnavailable, appErr.Message
	case errors.Is(appErr.Kind, models.ErrConflict):
		return fiber.StatusConflict, appErr.Message
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

func fiberErrorHandler(c *fiber.Ctx, err error) error {
	code, message := fiber.StatusInternalServerError, "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, message = fe.Code, fe.Message
	}
	return c.Status(code).JSON(models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func ok(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}
