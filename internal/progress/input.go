package progress

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/apperr"
)

const (
	defaultMood         = MoodGood
	defaultSleepHours   = 8.0
	defaultSleepQuality = SleepGood
	defaultIntensity    = IntensityModerate
)

// DailyLogInput is the client payload of a daily log. Numeric fields are
// kept raw, clients send numbers as well as numeric strings.
type DailyLogInput struct {
	Date           string          `json:"date"`
	Meals          []MealInput     `json:"meals"`
	TotalNutrition *NutritionInput `json:"totalNutrition"`
	Workout        *WorkoutInput   `json:"workout"`
	Measurements   map[string]any  `json:"measurements"`
	Mood           string          `json:"mood"`
	Sleep          *SleepInput     `json:"sleep"`
	Notes          string          `json:"notes"`
}

type MealInput struct {
	Name      string          `json:"name"`
	Portions  any             `json:"portions"`
	Time      string          `json:"time"`
	Calories  any             `json:"calories"`
	Nutrients *NutrientsInput `json:"nutrients"`
}

type NutrientsInput struct {
	Protein any `json:"protein"`
	Carbs   any `json:"carbs"`
	Fats    any `json:"fats"`
}

type NutritionInput struct {
	Calories    any `json:"calories"`
	Protein     any `json:"protein"`
	Carbs       any `json:"carbs"`
	Fats        any `json:"fats"`
	WaterIntake any `json:"waterIntake"`
}

type WorkoutInput struct {
	Type                 string   `json:"type"`
	Duration             any      `json:"duration"`
	Intensity            string   `json:"intensity"`
	Exercises            []string `json:"exercises"`
	CaloriesBurned       any      `json:"caloriesBurned"`
	IntensityScore       any      `json:"intensityScore"`
	ImpactedMuscleGroups []string `json:"impactedMuscleGroups"`
}

type SleepInput struct {
	Hours   any    `json:"hours"`
	Quality string `json:"quality"`
}

// ParseOptionalNumber converts a raw JSON value into a number. Absent,
// unparsable and non-finite values all yield 0: for optional numeric fields
// 0 is the documented stand-in for "not reported".
func ParseOptionalNumber(v any) float64 {
	n, ok := parseNumber(v)
	if !ok {
		return 0
	}
	return n
}

// parseOptionalWhole is ParseOptionalNumber truncated toward zero, used for
// counts and durations that are whole numbers.
func parseOptionalWhole(v any) float64 {
	return math.Trunc(ParseOptionalNumber(v))
}

func parseNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// parseLogDate accepts a calendar date or an RFC 3339 timestamp and returns it in UTC.
func parseLogDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %q", raw)
}

func optionalString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Normalize validates the payload and builds the immutable DailyLog.
// Only the weight is mandatory; every other numeric field falls back to 0
// and the enums fall back to their defaults.
func (in DailyLogInput) Normalize(now time.Time) (DailyLog, error) {
	rawWeight, ok := in.Measurements["weight"]
	if !ok || rawWeight == nil {
		return DailyLog{}, apperr.NewValidationError("measurements.weight", "valid weight measurement is required")
	}
	weight, ok := parseNumber(rawWeight)
	if !ok || weight <= 0 {
		return DailyLog{}, apperr.NewValidationError("measurements.weight", "weight must be a positive number")
	}

	if in.Date == "" {
		return DailyLog{}, apperr.NewValidationError("date", "date is required")
	}
	date, err := parseLogDate(in.Date)
	if err != nil {
		return DailyLog{}, apperr.NewValidationError("date", err.Error())
	}

	mood := Mood(in.Mood)
	if mood == "" {
		mood = defaultMood
	} else if !mood.Valid() {
		return DailyLog{}, apperr.NewValidationError("mood", fmt.Sprintf("unknown mood %q", in.Mood))
	}

	sleep := Sleep{Hours: defaultSleepHours, Quality: defaultSleepQuality}
	if in.Sleep != nil {
		// 0 hours is treated as not reported
		if h := ParseOptionalNumber(in.Sleep.Hours); h != 0 {
			sleep.Hours = h
		}
		if in.Sleep.Quality != "" {
			sleep.Quality = SleepQuality(in.Sleep.Quality)
			if !sleep.Quality.Valid() {
				return DailyLog{}, apperr.NewValidationError("sleep.quality", fmt.Sprintf("unknown sleep quality %q", in.Sleep.Quality))
			}
		}
	}

	workout, err := in.Workout.normalize()
	if err != nil {
		return DailyLog{}, err
	}

	meals := make([]Meal, 0, len(in.Meals))
	for _, m := range in.Meals {
		meal := Meal{
			Name:     m.Name,
			Portions: optionalString(m.Portions),
			Time:     m.Time,
			Calories: ParseOptionalNumber(m.Calories),
		}
		if m.Nutrients != nil {
			meal.Nutrients = Nutrients{
				Protein: ParseOptionalNumber(m.Nutrients.Protein),
				Carbs:   ParseOptionalNumber(m.Nutrients.Carbs),
				Fats:    ParseOptionalNumber(m.Nutrients.Fats),
			}
		}
		meals = append(meals, meal)
	}

	var total TotalNutrition
	if in.TotalNutrition != nil {
		total = TotalNutrition{
			Calories:    ParseOptionalNumber(in.TotalNutrition.Calories),
			Protein:     ParseOptionalNumber(in.TotalNutrition.Protein),
			Carbs:       ParseOptionalNumber(in.TotalNutrition.Carbs),
			Fats:        ParseOptionalNumber(in.TotalNutrition.Fats),
			WaterIntake: ParseOptionalNumber(in.TotalNutrition.WaterIntake),
		}
	}

	return DailyLog{
		Date:           date,
		Meals:          meals,
		TotalNutrition: total,
		Workout:        workout,
		Measurements: Measurements{
			Weight: weight,
			Chest:  ParseOptionalNumber(in.Measurements["chest"]),
			Waist:  ParseOptionalNumber(in.Measurements["waist"]),
			Hips:   ParseOptionalNumber(in.Measurements["hips"]),
			Arms:   ParseOptionalNumber(in.Measurements["arms"]),
			Thighs: ParseOptionalNumber(in.Measurements["thighs"]),
		},
		Mood:      mood,
		Sleep:     sleep,
		Notes:     in.Notes,
		CreatedAt: now.UTC(),
	}, nil
}

func (w *WorkoutInput) normalize() (*Workout, error) {
	if w == nil {
		return nil, nil
	}

	intensity := Intensity(w.Intensity)
	if intensity == "" {
		intensity = defaultIntensity
	} else if !intensity.Valid() {
		return nil, apperr.NewValidationError("workout.intensity", fmt.Sprintf("unknown intensity %q", w.Intensity))
	}

	exercises := w.Exercises
	if exercises == nil {
		exercises = []string{}
	}
	groups := w.ImpactedMuscleGroups
	if groups == nil {
		groups = []string{}
	}

	return &Workout{
		Type:                 w.Type,
		Duration:             parseOptionalWhole(w.Duration),
		Intensity:            intensity,
		Exercises:            exercises,
		CaloriesBurned:       parseOptionalWhole(w.CaloriesBurned),
		IntensityScore:       parseOptionalWhole(w.IntensityScore),
		ImpactedMuscleGroups: groups,
	}, nil
}

// caloriesMissing reports whether the client left the day's calorie total out.
func (in DailyLogInput) caloriesMissing() bool {
	return in.TotalNutrition == nil || in.TotalNutrition.Calories == nil
}

func (in DailyLogInput) caloriesBurnedMissing() bool {
	return in.Workout != nil && in.Workout.CaloriesBurned == nil
}
