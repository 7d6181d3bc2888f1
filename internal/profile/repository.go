package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when the referenced user has no backing record.
var ErrNotFound = errors.New("user not found")

// Repository is a database-backed store for user profiles.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func marshalList[T any](list []T) (string, error) {
	if list == nil {
		return "[]", nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal list field: %w", err)
	}
	return string(data), nil
}

func unmarshalList[T any](raw string, dst *[]T) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

// Create inserts a new user row. Taste sets start empty; plans start unset.
func (r *Repository) Create(ctx context.Context, u *UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, hashed_password)
		VALUES (?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.HashedPassword,
	)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.Username, err)
	}
	return nil
}

const userColumns = `id, username, email, hashed_password,
	age, gender, height_cm, weight_kg, activity_level,
	fitness_goals, exercise_preferences, diet_preference, allergies,
	meal_availability, exercise_availability,
	liked_meals, disliked_meals, liked_workouts, disliked_workouts,
	meal_plan, workout_plan`

func (r *Repository) scanUser(row *sql.Row) (*UserProfile, error) {
	var (
		u                               UserProfile
		age                             sql.NullInt64
		gender, activityLevel           sql.NullString
		heightCm, weightKg              sql.NullFloat64
		goals, exercisePrefs, allergies string
		mealAvail, exerciseAvail        string
		likedMeals, dislikedMeals       string
		likedWorkouts, dislikedWorkouts string
		mealPlan, workoutPlan           sql.NullString
	)

	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.HashedPassword,
		&age, &gender, &heightCm, &weightKg, &activityLevel,
		&goals, &exercisePrefs, &u.DietPreference, &allergies,
		&mealAvail, &exerciseAvail,
		&likedMeals, &dislikedMeals, &likedWorkouts, &dislikedWorkouts,
		&mealPlan, &workoutPlan,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}

	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	if gender.Valid && gender.String != "" {
		v := Gender(gender.String)
		u.Gender = &v
	}
	if heightCm.Valid {
		u.HeightCm = &heightCm.Float64
	}
	if weightKg.Valid {
		u.WeightKg = &weightKg.Float64
	}
	if activityLevel.Valid && activityLevel.String != "" {
		v := ActivityLevel(activityLevel.String)
		u.ActivityLevel = &v
	}

	stringLists := []struct {
		raw string
		dst *[]string
	}{
		{allergies, &u.Allergies},
		{likedMeals, &u.LikedMeals},
		{dislikedMeals, &u.DislikedMeals},
		{likedWorkouts, &u.LikedWorkouts},
		{dislikedWorkouts, &u.DislikedWorkouts},
	}
	for _, l := range stringLists {
		if err := unmarshalList(l.raw, l.dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user list field: %w", err)
		}
	}
	if err := unmarshalList(goals, &u.FitnessGoals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fitness goals: %w", err)
	}
	if err := unmarshalList(exercisePrefs, &u.ExercisePreferences); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exercise preferences: %w", err)
	}
	if err := unmarshalList(mealAvail, &u.MealAvailability); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal availability: %w", err)
	}
	if err := unmarshalList(exerciseAvail, &u.ExerciseAvailability); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exercise availability: %w", err)
	}

	if mealPlan.Valid && mealPlan.String != "" {
		u.MealPlan = json.RawMessage(mealPlan.String)
	}
	if workoutPlan.Valid && workoutPlan.String != "" {
		u.WorkoutPlan = json.RawMessage(workoutPlan.String)
	}

	return &u, nil
}

// GetByID loads a full user profile by its opaque id.
func (r *Repository) GetByID(ctx context.Context, id string) (*UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return r.scanUser(row)
}

// GetByUsername loads a full user profile by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return r.scanUser(row)
}

// UpdatePreferences writes the profile attribute fields. Identity,
// taste sets and plans are untouched.
func (r *Repository) UpdatePreferences(ctx context.Context, u *UserProfile) error {
	goals, err := marshalList(u.FitnessGoals)
	if err != nil {
		return err
	}
	exercisePrefs, err := marshalList(u.ExercisePreferences)
	if err != nil {
		return err
	}
	allergies, err := marshalList(u.Allergies)
	if err != nil {
		return err
	}
	mealAvail, err := marshalList(u.MealAvailability)
	if err != nil {
		return err
	}
	exerciseAvail, err := marshalList(u.ExerciseAvailability)
	if err != nil {
		return err
	}

	var (
		age           any
		gender        any
		heightCm      any
		weightKg      any
		activityLevel any
	)
	if u.Age != nil {
		age = *u.Age
	}
	if u.Gender != nil {
		gender = string(*u.Gender)
	}
	if u.HeightCm != nil {
		heightCm = *u.HeightCm
	}
	if u.WeightKg != nil {
		weightKg = *u.WeightKg
	}
	if u.ActivityLevel != nil {
		activityLevel = string(*u.ActivityLevel)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			age = ?, gender = ?, height_cm = ?, weight_kg = ?, activity_level = ?,
			fitness_goals = ?, exercise_preferences = ?, diet_preference = ?, allergies = ?,
			meal_availability = ?, exercise_availability = ?
		WHERE id = ?`,
		age, gender, heightCm, weightKg, activityLevel,
		goals, exercisePrefs, u.DietPreference, allergies,
		mealAvail, exerciseAvail,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update preferences for user %s: %w", u.ID, err)
	}
	return checkUpdated(res)
}

// UpdateMealPlan replaces the stored meal plan for a user.
func (r *Repository) UpdateMealPlan(ctx context.Context, id string, plan json.RawMessage) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET meal_plan = ? WHERE id = ?`, string(plan), id)
	if err != nil {
		return fmt.Errorf("failed to update meal plan for user %s: %w", id, err)
	}
	return checkUpdated(res)
}

// UpdateWorkoutPlan replaces the stored workout plan for a user.
func (r *Repository) UpdateWorkoutPlan(ctx context.Context, id string, plan json.RawMessage) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET workout_plan = ? WHERE id = ?`, string(plan), id)
	if err != nil {
		return fmt.Errorf("failed to update workout plan for user %s: %w", id, err)
	}
	return checkUpdated(res)
}

// UpdateTasteSet replaces the contents of one liked/disliked list.
func (r *Repository) UpdateTasteSet(ctx context.Context, id string, set TasteSet, values []string) error {
	var column string
	switch set {
	case LikedMeals, DislikedMeals, LikedWorkouts, DislikedWorkouts:
		column = string(set)
	default:
		return fmt.Errorf("unknown taste set %q", set)
	}

	data, err := marshalList(values)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE users SET `+column+` = ? WHERE id = ?`, data, id)
	if err != nil {
		return fmt.Errorf("failed to update %s for user %s: %w", column, id, err)
	}
	return checkUpdated(res)
}

func checkUpdated(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
