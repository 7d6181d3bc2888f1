package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"ai-fitness-coach/internal/llm"
	"ai-fitness-coach/internal/metrics"
	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/shared"

	"github.com/rs/zerolog/log"
)

// Service runs the plan-generation and preference-learning pipelines.
// Each call is one unit of work: load the profile once, talk to the
// model, write back once. Nothing survives a request except what the
// repository persists.
type Service struct {
	profiles   *profile.Repository
	textGen    llm.TextGenerator
	extractGen llm.TextGenerator
	metrics    *metrics.Store

	// Serializes read-modify-write cycles per user so two concurrent
	// updates to the same record cannot lose writes.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a coach Service. extractGen is used for the
// keyword-extraction pipeline and may be a cached wrapper around
// textGen; metricsStore may be nil to disable usage recording.
func NewService(profiles *profile.Repository, textGen, extractGen llm.TextGenerator, metricsStore *metrics.Store) *Service {
	return &Service{
		profiles:   profiles,
		textGen:    textGen,
		extractGen: extractGen,
		metrics:    metricsStore,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *Service) recordUsage(ctx context.Context, pipeline string, usage shared.TokenUsage, latency time.Duration) {
	if s.metrics == nil {
		return
	}
	meta := shared.PipelineMeta{Pipeline: pipeline, Usage: usage, Latency: latency}
	if err := s.metrics.RecordMeta(ctx, meta); err != nil {
		log.Warn().Err(err).Str("pipeline", pipeline).Msg("failed to record usage metrics")
	}
}

// GenerateMealPlan builds a prompt from the user's stored attributes,
// asks the model for a 7-day meal plan, parses the reply permissively
// and persists the result. A degraded parse (fewer than seven days) is
// still a success; missing days are never fabricated.
func (s *Service) GenerateMealPlan(ctx context.Context, userID string) (MealPlan, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	u, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt, err := BuildMealPlanPrompt(u)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("meal plan generation: %w", err)
	}
	s.recordUsage(ctx, "meal_plan", resp.Usage, time.Since(start))

	plan := ParseMealPlan(resp.Content)

	data, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meal plan: %w", err)
	}
	if err := s.profiles.UpdateMealPlan(ctx, userID, data); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", userID).Int("days", len(plan)).Msg("meal plan generated")
	return plan, nil
}

// GenerateWorkoutPlan is the workout counterpart of GenerateMealPlan.
func (s *Service) GenerateWorkoutPlan(ctx context.Context, userID string) (WorkoutPlan, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	u, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt, err := BuildWorkoutPlanPrompt(u)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("workout plan generation: %w", err)
	}
	s.recordUsage(ctx, "workout_plan", resp.Usage, time.Since(start))

	plan := ParseWorkoutPlan(resp.Content)

	data, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workout plan: %w", err)
	}
	if err := s.profiles.UpdateWorkoutPlan(ctx, userID, data); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", userID).Int("days", len(plan)).Msg("workout plan generated")
	return plan, nil
}

// LearnPreference extracts taste keywords from free-text feedback via
// the model and merges the net-new entries into the matching stored
// liked/disliked set. Blank feedback short-circuits before any
// completion call. Returns the entries that were actually added.
func (s *Service) LearnPreference(ctx context.Context, userID, feedback string, polarity Polarity, domain Domain) ([]string, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	u, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(feedback) == "" {
		return nil, nil
	}

	prompt, err := BuildExtractionPrompt(feedback, polarity, domain)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.extractGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("keyword extraction: %w", err)
	}
	s.recordUsage(ctx, fmt.Sprintf("extract_%s_%s", polarity, domain), resp.Usage, time.Since(start))

	set := tasteSetFor(polarity, domain)
	existing := u.Taste(set)

	newEntries := MergeKeywords(resp.Content, existing)
	if len(newEntries) == 0 {
		return nil, nil
	}

	if err := s.profiles.UpdateTasteSet(ctx, userID, set, append(existing, newEntries...)); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", userID).Str("set", string(set)).Int("added", len(newEntries)).Msg("preferences learned")
	return newEntries, nil
}
