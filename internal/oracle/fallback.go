package oracle

import (
	"math"
	"strings"

	"github.com/2beens/fitcoach/internal/progress"
)

const caloriesPerMeal = 300

var (
	caloriesPerMinute = map[progress.Intensity]float64{
		progress.IntensityLight:    4,
		progress.IntensityModerate: 7,
		progress.IntensityIntense:  10,
	}
	intensityScores = map[progress.Intensity]float64{
		progress.IntensityLight:    3,
		progress.IntensityModerate: 6,
		progress.IntensityIntense:  9,
	}
	muscleGroupsByType = map[string][]string{
		"cardio":   {"legs", "core", "cardiovascular"},
		"strength": {"chest", "back", "arms", "shoulders"},
		"yoga":     {"core", "flexibility", "balance"},
		"hiit":     {"full body", "cardiovascular"},
	}
	defaultMuscleGroups = []string{"full body"}
)

func fallbackNutrition(meals []progress.Meal) NutritionEstimate {
	breakdown := make(map[string]float64, len(meals))
	for _, m := range meals {
		breakdown[m.Name] = caloriesPerMeal
	}
	return NutritionEstimate{
		TotalCalories: float64(len(meals) * caloriesPerMeal),
		Breakdown:     breakdown,
		Fallback:      true,
	}
}

func fallbackWorkout(w progress.Workout) WorkoutStats {
	rate, ok := caloriesPerMinute[w.Intensity]
	if !ok {
		rate = caloriesPerMinute[progress.IntensityModerate]
	}
	score, ok := intensityScores[w.Intensity]
	if !ok {
		score = 5
	}
	groups, ok := muscleGroupsByType[strings.ToLower(strings.TrimSpace(w.Type))]
	if !ok {
		groups = defaultMuscleGroups
	}

	return WorkoutStats{
		CaloriesBurned:       math.Round(w.Duration * rate),
		IntensityScore:       score,
		ImpactedMuscleGroups: append([]string(nil), groups...),
		Fallback:             true,
	}
}

func fallbackDayPlan(day string) string {
	return "Unable to generate the " + day + " plan right now. Please try again."
}
