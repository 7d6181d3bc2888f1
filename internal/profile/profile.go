package profile

import (
	"encoding/json"
	"fmt"
)

// Gender is a user's self-reported gender.
type Gender string

const (
	GenderMale           Gender = "Male"
	GenderFemale         Gender = "Female"
	GenderOther          Gender = "Other"
	GenderPreferNotToSay Gender = "Prefer not to say"
)

// ActivityLevel describes how active a user is day to day.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "Sedentary"
	ActivityLightlyActive    ActivityLevel = "Lightly Active"
	ActivityModeratelyActive ActivityLevel = "Moderately Active"
	ActivityVeryActive       ActivityLevel = "Very Active"
)

// FitnessGoal is one of the goals a user can select. Multi-select, non-empty.
type FitnessGoal string

const (
	GoalWeightLoss         FitnessGoal = "Weight Loss"
	GoalGainMuscle         FitnessGoal = "Gain Muscle"
	GoalIncreaseEndurance  FitnessGoal = "Increase Endurance"
	GoalImproveFlexibility FitnessGoal = "Improve Flexibility"
	GoalGeneralFitness     FitnessGoal = "General Fitness"
	GoalSportsPerformance  FitnessGoal = "Sports Performance"
	GoalMaintainWeight     FitnessGoal = "Maintain Weight"
)

// ExercisePreference is a style of training the user favours.
type ExercisePreference string

const (
	ExerciseCardio      ExercisePreference = "Cardio"
	ExerciseStrength    ExercisePreference = "Strength Training"
	ExerciseFlexibility ExercisePreference = "Flexibility & Mobility"
	ExerciseHIIT        ExercisePreference = "High-Intensity Interval Training (HIIT)"
)

// Weekday is a canonical English day-of-week name.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists the seven canonical day names in week order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseGender validates a raw string against the known gender values.
func ParseGender(raw string) (Gender, error) {
	switch g := Gender(raw); g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return g, nil
	}
	return "", fmt.Errorf("invalid gender %q", raw)
}

// ParseActivityLevel validates a raw string against the known activity levels.
func ParseActivityLevel(raw string) (ActivityLevel, error) {
	switch a := ActivityLevel(raw); a {
	case ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive, ActivityVeryActive:
		return a, nil
	}
	return "", fmt.Errorf("invalid activity level %q", raw)
}

// ParseFitnessGoal validates a raw string against the known fitness goals.
func ParseFitnessGoal(raw string) (FitnessGoal, error) {
	switch g := FitnessGoal(raw); g {
	case GoalWeightLoss, GoalGainMuscle, GoalIncreaseEndurance, GoalImproveFlexibility,
		GoalGeneralFitness, GoalSportsPerformance, GoalMaintainWeight:
		return g, nil
	}
	return "", fmt.Errorf("invalid fitness goal %q", raw)
}

// ParseExercisePreference validates a raw string against the known exercise preferences.
func ParseExercisePreference(raw string) (ExercisePreference, error) {
	switch e := ExercisePreference(raw); e {
	case ExerciseCardio, ExerciseStrength, ExerciseFlexibility, ExerciseHIIT:
		return e, nil
	}
	return "", fmt.Errorf("invalid exercise preference %q", raw)
}

// ParseWeekday validates a raw string against the seven canonical day names.
func ParseWeekday(raw string) (Weekday, error) {
	switch d := Weekday(raw); d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return d, nil
	}
	return "", fmt.Errorf("invalid weekday %q", raw)
}

// IsWeekday reports whether raw is exactly one of the seven canonical day names.
func IsWeekday(raw string) bool {
	_, err := ParseWeekday(raw)
	return err == nil
}

// UserProfile is the stored view of a user that the plan pipelines read
// and write. Pointer fields are optional and render as "unspecified" in
// prompts when nil.
type UserProfile struct {
	ID             string
	Username       string
	Email          string
	HashedPassword string

	Age           *int
	Gender        *Gender
	HeightCm      *float64
	WeightKg      *float64
	ActivityLevel *ActivityLevel

	FitnessGoals        []FitnessGoal
	ExercisePreferences []ExercisePreference
	DietPreference      string
	Allergies           []string

	MealAvailability     []Weekday
	ExerciseAvailability []Weekday

	LikedMeals       []string
	DislikedMeals    []string
	LikedWorkouts    []string
	DislikedWorkouts []string

	// Serialized plans owned by the coach package.
	MealPlan    json.RawMessage
	WorkoutPlan json.RawMessage
}

// TasteSet names one of the four persisted liked/disliked lists.
type TasteSet string

const (
	LikedMeals       TasteSet = "liked_meals"
	DislikedMeals    TasteSet = "disliked_meals"
	LikedWorkouts    TasteSet = "liked_workouts"
	DislikedWorkouts TasteSet = "disliked_workouts"
)

// Taste returns the current contents of the named taste set.
func (u *UserProfile) Taste(set TasteSet) []string {
	switch set {
	case LikedMeals:
		return u.LikedMeals
	case DislikedMeals:
		return u.DislikedMeals
	case LikedWorkouts:
		return u.LikedWorkouts
	case DislikedWorkouts:
		return u.DislikedWorkouts
	}
	return nil
}
