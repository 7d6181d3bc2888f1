// Package coach implements the plan-generation and preference-learning
// pipelines: it renders a user's profile into model prompts, parses the
// model's delimited free-text replies into structured plans, and merges
// extracted taste keywords into the user's stored preference sets.
package coach

import (
	"fmt"

	"ai-fitness-coach/internal/profile"
)

// DayMeals holds the three meals generated for a single day.
type DayMeals struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// MealPlan maps a canonical weekday name to its meals.
type MealPlan map[string]DayMeals

// Exercise is a single workout entry: sets x reps of a named exercise.
type Exercise struct {
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	Exercise string `json:"exercise"`
}

// WorkoutPlan maps a canonical weekday name to its ordered exercise list.
type WorkoutPlan map[string][]Exercise

// Days returns the plan's days in week order, Monday first.
func (p MealPlan) Days() []string {
	var days []string
	for _, d := range profile.Weekdays {
		if _, ok := p[string(d)]; ok {
			days = append(days, string(d))
		}
	}
	return days
}

// Days returns the plan's days in week order, Monday first.
func (p WorkoutPlan) Days() []string {
	var days []string
	for _, d := range profile.Weekdays {
		if _, ok := p[string(d)]; ok {
			days = append(days, string(d))
		}
	}
	return days
}

// Polarity tags feedback as liked or disliked.
type Polarity string

const (
	PolarityLiked    Polarity = "liked"
	PolarityDisliked Polarity = "disliked"
)

// Domain tags feedback as being about meals or workouts.
type Domain string

const (
	DomainMeal    Domain = "meal"
	DomainWorkout Domain = "workout"
)

// ParsePolarity validates a raw polarity string.
func ParsePolarity(raw string) (Polarity, error) {
	switch p := Polarity(raw); p {
	case PolarityLiked, PolarityDisliked:
		return p, nil
	}
	return "", fmt.Errorf("invalid polarity %q", raw)
}

// ParseDomain validates a raw domain string.
func ParseDomain(raw string) (Domain, error) {
	switch d := Domain(raw); d {
	case DomainMeal, DomainWorkout:
		return d, nil
	}
	return "", fmt.Errorf("invalid domain %q", raw)
}

// tasteSetFor maps a polarity/domain pair to the persisted taste set it
// feeds.
func tasteSetFor(polarity Polarity, domain Domain) profile.TasteSet {
	switch {
	case polarity == PolarityLiked && domain == DomainMeal:
		return profile.LikedMeals
	case polarity == PolarityDisliked && domain == DomainMeal:
		return profile.DislikedMeals
	case polarity == PolarityLiked && domain == DomainWorkout:
		return profile.LikedWorkouts
	default:
		return profile.DislikedWorkouts
	}
}
