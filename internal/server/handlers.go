package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"ai-fitness-coach/internal/auth"
	"ai-fitness-coach/internal/coach"
	"ai-fitness-coach/internal/llm"
	"ai-fitness-coach/internal/profile"
)

// planTimeout bounds the external completion call for one request. A
// stuck provider surfaces as 503 instead of hanging the connection.
const planTimeout = 75 * time.Second

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (s *Server) registerHandler(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "username, email and password are required"})
	}

	u, err := s.auth.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username already registered"})
		}
		log.Error().Err(err).Msg("failed to register user")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "registration failed"})
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": u.ID, "username": u.Username})
}

func (s *Server) tokenHandler(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	token, expiresIn, err := s.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Problem validating user"})
		}
		log.Error().Err(err).Msg("failed to log user in")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", ExpiresIn: expiresIn})
}

func userID(c echo.Context) string {
	id, _ := c.Get(auth.UserIDContextKey).(string)
	return id
}

// preferencesRequest mirrors the field names the web frontend sends.
// Absent fields keep their stored values.
type preferencesRequest struct {
	Age                  *int     `json:"age"`
	Gender               *string  `json:"gender"`
	Height               *float64 `json:"height"`
	Weight               *float64 `json:"weight"`
	ActivityLevel        *string  `json:"activityLevel"`
	DietPreference       *string  `json:"dietPreference"`
	AllergyArray         []string `json:"allergyArray"`
	ExercisePreference   []string `json:"exercisePreference"`
	FitnessGoals         []string `json:"fitnessGoals"`
	MealPrepAvailability []string `json:"mealPrepAvailability"`
	ExerciseAvailability []string `json:"exerciseAvailability"`
}

func (s *Server) updatePreferencesHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req preferencesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	u, err := s.profiles.GetByID(ctx, userID(c))
	if err != nil {
		return s.mapError(c, err)
	}

	// Fitness goals are the one strictly required multi-select: when
	// provided they must all decode, and the result must be non-empty.
	if req.FitnessGoals != nil {
		goals := make([]profile.FitnessGoal, 0, len(req.FitnessGoals))
		for _, raw := range req.FitnessGoals {
			g, err := profile.ParseFitnessGoal(raw)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			goals = append(goals, g)
		}
		if len(goals) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "at least one fitness goal is required"})
		}
		u.FitnessGoals = goals
	}

	if req.Age != nil {
		u.Age = req.Age
	}
	if req.Height != nil {
		u.HeightCm = req.Height
	}
	if req.Weight != nil {
		u.WeightKg = req.Weight
	}
	if req.DietPreference != nil {
		u.DietPreference = *req.DietPreference
	}
	if req.AllergyArray != nil {
		u.Allergies = req.AllergyArray
	}

	// Optional enums: invalid values are dropped rather than failing
	// the whole update.
	if req.Gender != nil {
		if g, err := profile.ParseGender(*req.Gender); err == nil {
			u.Gender = &g
		} else {
			log.Warn().Str("value", *req.Gender).Msg("ignoring invalid gender")
		}
	}
	if req.ActivityLevel != nil {
		if a, err := profile.ParseActivityLevel(*req.ActivityLevel); err == nil {
			u.ActivityLevel = &a
		} else {
			log.Warn().Str("value", *req.ActivityLevel).Msg("ignoring invalid activity level")
		}
	}
	if req.ExercisePreference != nil {
		var prefs []profile.ExercisePreference
		for _, raw := range req.ExercisePreference {
			if p, err := profile.ParseExercisePreference(raw); err == nil {
				prefs = append(prefs, p)
			} else {
				log.Warn().Str("value", raw).Msg("ignoring invalid exercise preference")
			}
		}
		u.ExercisePreferences = prefs
	}
	if req.MealPrepAvailability != nil {
		u.MealAvailability = parseWeekdays(req.MealPrepAvailability)
	}
	if req.ExerciseAvailability != nil {
		u.ExerciseAvailability = parseWeekdays(req.ExerciseAvailability)
	}

	if err := s.profiles.UpdatePreferences(ctx, u); err != nil {
		return s.mapError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "User preferences updated successfully"})
}

func parseWeekdays(raw []string) []profile.Weekday {
	var days []profile.Weekday
	for _, r := range raw {
		if d, err := profile.ParseWeekday(r); err == nil {
			days = append(days, d)
		} else {
			log.Warn().Str("value", r).Msg("ignoring invalid weekday")
		}
	}
	return days
}

func (s *Server) getPreferencesHandler(c echo.Context) error {
	u, err := s.profiles.GetByID(c.Request().Context(), userID(c))
	if err != nil {
		return s.mapError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"age":                  u.Age,
		"gender":               u.Gender,
		"height":               u.HeightCm,
		"weight":               u.WeightKg,
		"activityLevel":        u.ActivityLevel,
		"dietPreference":       u.DietPreference,
		"allergyArray":         u.Allergies,
		"exercisePreference":   u.ExercisePreferences,
		"fitnessGoals":         u.FitnessGoals,
		"mealPrepAvailability": u.MealAvailability,
		"exerciseAvailability": u.ExerciseAvailability,
		"likedMeals":           u.LikedMeals,
		"dislikedMeals":        u.DislikedMeals,
		"likedWorkouts":        u.LikedWorkouts,
		"dislikedWorkouts":     u.DislikedWorkouts,
	})
}

func (s *Server) generateMealPlanHandler(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), planTimeout)
	defer cancel()

	plan, err := s.coach.GenerateMealPlan(ctx, userID(c))
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"meal_plan": plan})
}

func (s *Server) generateWorkoutPlanHandler(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), planTimeout)
	defer cancel()

	plan, err := s.coach.GenerateWorkoutPlan(ctx, userID(c))
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"workout_plan": plan})
}

func (s *Server) getMealPlanHandler(c echo.Context) error {
	u, err := s.profiles.GetByID(c.Request().Context(), userID(c))
	if err != nil {
		return s.mapError(c, err)
	}
	if len(u.MealPlan) == 0 {
		return c.JSON(http.StatusOK, map[string]any{"meal_plan": coach.MealPlan{}})
	}
	return c.JSON(http.StatusOK, map[string]any{"meal_plan": json.RawMessage(u.MealPlan)})
}

func (s *Server) getWorkoutPlanHandler(c echo.Context) error {
	u, err := s.profiles.GetByID(c.Request().Context(), userID(c))
	if err != nil {
		return s.mapError(c, err)
	}
	if len(u.WorkoutPlan) == 0 {
		return c.JSON(http.StatusOK, map[string]any{"workout_plan": coach.WorkoutPlan{}})
	}
	return c.JSON(http.StatusOK, map[string]any{"workout_plan": json.RawMessage(u.WorkoutPlan)})
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
	Polarity string `json:"polarity"`
	Domain   string `json:"domain"`
}

func (s *Server) feedbackHandler(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	polarity, err := coach.ParsePolarity(req.Polarity)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	domain, err := coach.ParseDomain(req.Domain)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), planTimeout)
	defer cancel()

	added, err := s.coach.LearnPreference(ctx, userID(c), req.Feedback, polarity, domain)
	if err != nil {
		return s.mapError(c, err)
	}
	if added == nil {
		added = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"added": added})
}

// mapError translates pipeline failures into HTTP status codes.
func (s *Server) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	case errors.Is(err, llm.ErrCompletionUnavailable):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "completion provider unavailable, try again later"})
	case errors.Is(err, llm.ErrCompletionRejected), errors.Is(err, llm.ErrCompletionMalformed):
		log.Error().Err(err).Msg("completion provider failure")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "completion provider failure"})
	default:
		log.Error().Err(err).Msg("internal error")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
