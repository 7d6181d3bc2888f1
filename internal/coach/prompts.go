package coach

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"ai-fitness-coach/internal/profile"
)

//go:embed meal_plan_prompt.md
var mealPlanPrompt string

//go:embed workout_plan_prompt.md
var workoutPlanPrompt string

//go:embed extract_keywords_prompt.md
var extractKeywordsPrompt string

// unspecified is the placeholder rendered for absent optional profile
// fields so the instruction stays well-formed prose.
const unspecified = "unspecified"

// profilePromptData is the flattened, prose-ready view of a profile.
// Every field is already a non-empty string.
type profilePromptData struct {
	Age                  string
	Gender               string
	Height               string
	Weight               string
	ActivityLevel        string
	FitnessGoals         string
	ExercisePreferences  string
	DietPreference       string
	Allergies            string
	MealAvailability     string
	ExerciseAvailability string
	LikedMeals           string
	DislikedMeals        string
	LikedWorkouts        string
	DislikedWorkouts     string
}

type extractPromptData struct {
	Polarity string
	Domain   string
	Feedback string
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return unspecified
	}
	return s
}

func joinOrUnspecified[T ~string](list []T) string {
	if len(list) == 0 {
		return unspecified
	}
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func newProfilePromptData(u *profile.UserProfile) profilePromptData {
	d := profilePromptData{
		Age:                  unspecified,
		Gender:               unspecified,
		Height:               unspecified,
		Weight:               unspecified,
		ActivityLevel:        unspecified,
		FitnessGoals:         joinOrUnspecified(u.FitnessGoals),
		ExercisePreferences:  joinOrUnspecified(u.ExercisePreferences),
		DietPreference:       orUnspecified(u.DietPreference),
		Allergies:            joinOrUnspecified(u.Allergies),
		MealAvailability:     joinOrUnspecified(u.MealAvailability),
		ExerciseAvailability: joinOrUnspecified(u.ExerciseAvailability),
		LikedMeals:           joinOrUnspecified(u.LikedMeals),
		DislikedMeals:        joinOrUnspecified(u.DislikedMeals),
		LikedWorkouts:        joinOrUnspecified(u.LikedWorkouts),
		DislikedWorkouts:     joinOrUnspecified(u.DislikedWorkouts),
	}

	if u.Age != nil {
		d.Age = strconv.Itoa(*u.Age)
	}
	if u.Gender != nil {
		d.Gender = string(*u.Gender)
	}
	if u.HeightCm != nil {
		d.Height = strconv.FormatFloat(*u.HeightCm, 'f', -1, 64)
	}
	if u.WeightKg != nil {
		d.Weight = strconv.FormatFloat(*u.WeightKg, 'f', -1, 64)
	}
	if u.ActivityLevel != nil {
		d.ActivityLevel = string(*u.ActivityLevel)
	}

	return d
}

func renderPrompt(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}

// BuildMealPlanPrompt renders the meal-plan instruction for a profile.
// Pure function of its input.
func BuildMealPlanPrompt(u *profile.UserProfile) (string, error) {
	return renderPrompt("meal_plan", mealPlanPrompt, newProfilePromptData(u))
}

// BuildWorkoutPlanPrompt renders the workout-plan instruction for a profile.
func BuildWorkoutPlanPrompt(u *profile.UserProfile) (string, error) {
	return renderPrompt("workout_plan", workoutPlanPrompt, newProfilePromptData(u))
}

// BuildExtractionPrompt renders the keyword-extraction instruction,
// embedding the user's literal feedback text.
func BuildExtractionPrompt(feedback string, polarity Polarity, domain Domain) (string, error) {
	return renderPrompt("extract_keywords", extractKeywordsPrompt, extractPromptData{
		Polarity: string(polarity),
		Domain:   string(domain),
		Feedback: feedback,
	})
}
