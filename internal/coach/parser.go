package coach

import (
	"strconv"
	"strings"

	"ai-fitness-coach/internal/profile"
)

// fieldSeparator is the delimiter the model is instructed to use
// between fields in its reply.
const fieldSeparator = "_"

// ParseMealPlan converts the model's line-oriented reply into a MealPlan.
// Each valid line is exactly four underscore-delimited fields:
// day, breakfast, lunch, dinner. Lines with any other field count are
// silently discarded; the model's output format is not guaranteed, so a
// partial plan beats a failed one. Duplicate days overwrite, last write
// wins. Never fails.
func ParseMealPlan(text string) MealPlan {
	plan := MealPlan{}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, fieldSeparator) {
			continue
		}
		parts := strings.Split(line, fieldSeparator)
		if len(parts) != 4 {
			continue
		}
		plan[parts[0]] = DayMeals{
			Breakfast: parts[1],
			Lunch:     parts[2],
			Dinner:    parts[3],
		}
	}
	return plan
}

// ParseWorkoutPlan converts the model's reply into a WorkoutPlan. The
// whole reply is treated as one underscore-delimited token stream: a
// token matching a canonical weekday name opens that day's bucket
// (reopening a day discards its earlier entries), and subsequent tokens
// are consumed in (sets, reps, exercise) triples. A non-integer sets or
// reps token, or a truncated triple, stops the whole scan; everything
// recovered up to that point is kept. Tokens before the first day name
// are skipped. Never fails.
func ParseWorkoutPlan(text string) WorkoutPlan {
	plan := WorkoutPlan{}
	stream := strings.ReplaceAll(text, "\n", " ")
	tokens := strings.Split(stream, fieldSeparator)

	currentDay := ""
	for i := 0; i < len(tokens); i++ {
		token := strings.TrimSpace(tokens[i])
		if profile.IsWeekday(token) {
			currentDay = token
			// Reopening a day overwrites, it does not append.
			delete(plan, currentDay)
			continue
		}
		if currentDay == "" {
			continue
		}

		if i+2 >= len(tokens) {
			break
		}
		sets, err := strconv.Atoi(strings.TrimSpace(tokens[i]))
		if err != nil {
			break
		}
		reps, err := strconv.Atoi(strings.TrimSpace(tokens[i+1]))
		if err != nil {
			break
		}
		plan[currentDay] = append(plan[currentDay], Exercise{
			Sets:     sets,
			Reps:     reps,
			Exercise: strings.TrimSpace(tokens[i+2]),
		})
		i += 2
	}
	return plan
}
