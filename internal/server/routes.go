package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"ai-fitness-coach/internal/metrics"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true

	e.Use(RequestIDMiddleware)
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "https://localhost:3000", "http://localhost:3001", "https://localhost:3001"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", s.healthHandler)

	e.POST("/auth/register", s.registerHandler)
	e.POST("/auth/token", s.tokenHandler)

	protected := e.Group("/user")
	protected.Use(s.auth.Middleware())

	protected.GET("/preferences", s.getPreferencesHandler)
	protected.POST("/preferences", s.updatePreferencesHandler)

	protected.GET("/meal-plan", s.getMealPlanHandler)
	protected.POST("/meal-plan", s.generateMealPlanHandler)
	protected.GET("/workout-plan", s.getWorkoutPlanHandler)
	protected.POST("/workout-plan", s.generateWorkoutPlanHandler)

	protected.POST("/feedback", s.feedbackHandler)

	return e
}

// RequestIDMiddleware tags every request with an id and hangs a
// request-scoped logger on the echo context.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()
		c.Set("logger", &logger)

		return next(c)
	}
}

// healthHandler reports liveness plus a runtime snapshot and the last
// week of completion token usage.
func (s *Server) healthHandler(c echo.Context) error {
	ctx := c.Request().Context()
	if err := s.db.SQL.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "down", "error": err.Error()})
	}

	usage, err := s.metrics.GetDailyUsage(ctx, 7)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load daily usage")
	}
	if usage == nil {
		usage = []metrics.DailyUsage{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "up",
		"sys":    metrics.GetSysHealth(s.dataPath),
		"usage":  usage,
	})
}
