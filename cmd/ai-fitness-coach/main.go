package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ai-fitness-coach/internal/auth"
	"ai-fitness-coach/internal/coach"
	"ai-fitness-coach/internal/config"
	"ai-fitness-coach/internal/database"
	"ai-fitness-coach/internal/llm"
	"ai-fitness-coach/internal/metrics"
	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/server"
)

// extractionCacheSize caps the LRU cache on the keyword-extraction path.
const extractionCacheSize = 256

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	done <- true
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)

	// Subcommands run against the database and exit; no arguments
	// starts the API server.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "metrics-cleanup":
			cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
			days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
			cleanupCmd.Parse(os.Args[2:])

			removed, err := metricsStore.Cleanup(ctx, *days)
			if err != nil {
				log.Fatal().Err(err).Msg("metrics cleanup failed")
			}
			log.Info().Int64("removed", removed).Int("days", *days).Msg("metrics cleanup complete")
			return
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			fmt.Println("Usage: ai-fitness-coach [metrics-cleanup -days N]")
			os.Exit(1)
		}
	}

	var textGen llm.TextGenerator
	switch cfg.LLMProvider {
	case "gemini":
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Gemini client")
		}
		if closer, ok := geminiClient.(llm.Closer); ok {
			defer closer.Close()
		}
		textGen = geminiClient
	default:
		textGen = llm.NewOpenRouterClient(cfg)
	}

	// Identical feedback text maps to identical keyword lists, so the
	// extraction path gets a caching wrapper; plan generation does not.
	extractGen, err := llm.NewCachedTextGenerator(textGen, extractionCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize extraction cache")
	}

	profiles := profile.NewRepository(db.SQL)
	authSvc := auth.NewService(cfg.AuthSecretKey, profiles)
	coachSvc := coach.NewService(profiles, textGen, extractGen, metricsStore)

	apiServer := server.New(cfg, db, authSvc, profiles, coachSvc, metricsStore)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, done)

	log.Info().Int("port", cfg.Port).Str("provider", cfg.LLMProvider).Msg("starting server")
	if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server error")
	}

	<-done
	log.Info().Msg("graceful shutdown complete")
}
