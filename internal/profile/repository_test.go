package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			age INTEGER,
			gender TEXT,
			height_cm REAL,
			weight_kg REAL,
			activity_level TEXT,
			fitness_goals TEXT NOT NULL DEFAULT '[]',
			exercise_preferences TEXT NOT NULL DEFAULT '[]',
			diet_preference TEXT NOT NULL DEFAULT '',
			allergies TEXT NOT NULL DEFAULT '[]',
			meal_availability TEXT NOT NULL DEFAULT '[]',
			exercise_availability TEXT NOT NULL DEFAULT '[]',
			liked_meals TEXT NOT NULL DEFAULT '[]',
			disliked_meals TEXT NOT NULL DEFAULT '[]',
			liked_workouts TEXT NOT NULL DEFAULT '[]',
			disliked_workouts TEXT NOT NULL DEFAULT '[]',
			meal_plan TEXT,
			workout_plan TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRepository(db)

	err := repo.Create(ctx, &UserProfile{
		ID:             "u1",
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "hashed",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("ByID", func(t *testing.T) {
		u, err := repo.GetByID(ctx, "u1")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if u.Username != "alice" {
			t.Errorf("Expected username 'alice', got '%s'", u.Username)
		}
		if u.Age != nil || u.Gender != nil || u.ActivityLevel != nil {
			t.Error("Expected optional fields to be nil for a fresh user")
		}
		if u.LikedMeals == nil || len(u.LikedMeals) != 0 {
			t.Errorf("Expected empty liked meals, got %v", u.LikedMeals)
		}
		if len(u.MealPlan) != 0 {
			t.Errorf("Expected no stored meal plan, got %s", string(u.MealPlan))
		}
	})

	t.Run("ByUsername", func(t *testing.T) {
		u, err := repo.GetByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetByUsername failed: %v", err)
		}
		if u.ID != "u1" {
			t.Errorf("Expected id 'u1', got '%s'", u.ID)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := repo.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		err := repo.Create(ctx, &UserProfile{
			ID:             "u2",
			Username:       "alice",
			Email:          "other@example.com",
			HashedPassword: "hashed",
		})
		if err == nil {
			t.Error("Expected unique constraint violation")
		}
	})
}

func TestUpdatePreferences(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRepository(db)

	if err := repo.Create(ctx, &UserProfile{ID: "u1", Username: "bob", Email: "bob@example.com", HashedPassword: "h"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	age := 30
	gender := GenderMale
	height := 180.0
	weight := 75.5
	activity := ActivityModeratelyActive

	err := repo.UpdatePreferences(ctx, &UserProfile{
		ID:                   "u1",
		Age:                  &age,
		Gender:               &gender,
		HeightCm:             &height,
		WeightKg:             &weight,
		ActivityLevel:        &activity,
		FitnessGoals:         []FitnessGoal{GoalGainMuscle, GoalIncreaseEndurance},
		ExercisePreferences:  []ExercisePreference{ExerciseStrength, ExerciseHIIT},
		DietPreference:       "vegetarian",
		Allergies:            []string{"peanuts"},
		MealAvailability:     []Weekday{Monday, Wednesday},
		ExerciseAvailability: []Weekday{Tuesday, Thursday, Saturday},
	})
	if err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}

	u, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if u.Age == nil || *u.Age != 30 {
		t.Errorf("Expected age 30, got %v", u.Age)
	}
	if u.Gender == nil || *u.Gender != GenderMale {
		t.Errorf("Expected gender Male, got %v", u.Gender)
	}
	if u.WeightKg == nil || *u.WeightKg != 75.5 {
		t.Errorf("Expected weight 75.5, got %v", u.WeightKg)
	}
	if u.ActivityLevel == nil || *u.ActivityLevel != ActivityModeratelyActive {
		t.Errorf("Expected activity level Moderately Active, got %v", u.ActivityLevel)
	}
	if len(u.FitnessGoals) != 2 || u.FitnessGoals[0] != GoalGainMuscle {
		t.Errorf("Unexpected fitness goals: %v", u.FitnessGoals)
	}
	if len(u.ExercisePreferences) != 2 || u.ExercisePreferences[1] != ExerciseHIIT {
		t.Errorf("Unexpected exercise preferences: %v", u.ExercisePreferences)
	}
	if u.DietPreference != "vegetarian" {
		t.Errorf("Expected diet 'vegetarian', got '%s'", u.DietPreference)
	}
	if len(u.ExerciseAvailability) != 3 || u.ExerciseAvailability[2] != Saturday {
		t.Errorf("Unexpected exercise availability: %v", u.ExerciseAvailability)
	}

	// Clearing optionals writes NULLs back.
	if err := repo.UpdatePreferences(ctx, &UserProfile{ID: "u1", FitnessGoals: []FitnessGoal{GoalGeneralFitness}}); err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	u, err = repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if u.Age != nil {
		t.Errorf("Expected age cleared, got %v", *u.Age)
	}
	if len(u.Allergies) != 0 {
		t.Errorf("Expected allergies cleared, got %v", u.Allergies)
	}

	t.Run("Missing", func(t *testing.T) {
		err := repo.UpdatePreferences(ctx, &UserProfile{ID: "nope", FitnessGoals: []FitnessGoal{GoalWeightLoss}})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestUpdatePlans(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRepository(db)

	if err := repo.Create(ctx, &UserProfile{ID: "u1", Username: "carol", Email: "carol@example.com", HashedPassword: "h"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	mealPlan := json.RawMessage(`{"Monday":{"breakfast":"eggs","lunch":"chicken","dinner":"rice"}}`)
	if err := repo.UpdateMealPlan(ctx, "u1", mealPlan); err != nil {
		t.Fatalf("UpdateMealPlan failed: %v", err)
	}
	workoutPlan := json.RawMessage(`{"Monday":[{"sets":3,"reps":12,"exercise":"squat"}]}`)
	if err := repo.UpdateWorkoutPlan(ctx, "u1", workoutPlan); err != nil {
		t.Fatalf("UpdateWorkoutPlan failed: %v", err)
	}

	u, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if string(u.MealPlan) != string(mealPlan) {
		t.Errorf("Meal plan round-trip mismatch: %s", string(u.MealPlan))
	}
	if string(u.WorkoutPlan) != string(workoutPlan) {
		t.Errorf("Workout plan round-trip mismatch: %s", string(u.WorkoutPlan))
	}

	if err := repo.UpdateMealPlan(ctx, "nope", mealPlan); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTasteSet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRepository(db)

	if err := repo.Create(ctx, &UserProfile{ID: "u1", Username: "dave", Email: "dave@example.com", HashedPassword: "h"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.UpdateTasteSet(ctx, "u1", LikedMeals, []string{"rice", "salmon"}); err != nil {
		t.Fatalf("UpdateTasteSet failed: %v", err)
	}
	if err := repo.UpdateTasteSet(ctx, "u1", DislikedWorkouts, []string{"burpees"}); err != nil {
		t.Fatalf("UpdateTasteSet failed: %v", err)
	}

	u, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(u.LikedMeals) != 2 || u.LikedMeals[1] != "salmon" {
		t.Errorf("Unexpected liked meals: %v", u.LikedMeals)
	}
	if len(u.DislikedWorkouts) != 1 || u.DislikedWorkouts[0] != "burpees" {
		t.Errorf("Unexpected disliked workouts: %v", u.DislikedWorkouts)
	}
	if u.Taste(LikedMeals)[0] != "rice" {
		t.Errorf("Taste accessor mismatch: %v", u.Taste(LikedMeals))
	}

	t.Run("UnknownSet", func(t *testing.T) {
		if err := repo.UpdateTasteSet(ctx, "u1", TasteSet("users; DROP TABLE users"), []string{"x"}); err == nil {
			t.Error("Expected error for unknown taste set")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if err := repo.UpdateTasteSet(ctx, "nope", LikedMeals, []string{"x"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
