/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the
auth, profile and coach services into the router.
*/
package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"ai-fitness-coach/internal/auth"
	"ai-fitness-coach/internal/coach"
	"ai-fitness-coach/internal/config"
	"ai-fitness-coach/internal/database"
	"ai-fitness-coach/internal/metrics"
	"ai-fitness-coach/internal/profile"
)

// Server holds the dependencies for the HTTP service.
type Server struct {
	port     int
	dataPath string

	db       *database.DB
	auth     *auth.Service
	profiles *profile.Repository
	coach    *coach.Service
	metrics  *metrics.Store
}

// New initializes a Server and returns a configured *http.Server with
// production network timeouts. The write timeout leaves room for the
// external completion call made inside plan generation.
func New(cfg *config.Config, db *database.DB, authSvc *auth.Service, profiles *profile.Repository, coachSvc *coach.Service, metricsStore *metrics.Store) *http.Server {
	s := &Server{
		port:     cfg.Port,
		dataPath: filepath.Dir(cfg.DatabasePath),
		db:       db,
		auth:     authSvc,
		profiles: profiles,
		coach:    coachSvc,
		metrics:  metricsStore,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
}
