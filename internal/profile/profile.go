package profile

import (
	"time"

	"github.com/2beens/fitcoach/internal/progress"
)

const (
	DietHistoryLimit    = 5
	WorkoutHistoryLimit = 10
	RecommendationTTL   = 24 * time.Hour
)

type FitnessGoal string

const (
	GoalWeightLoss        FitnessGoal = "Weight Loss"
	GoalWeightGain        FitnessGoal = "Weight Gain"
	GoalHealthMaintenance FitnessGoal = "Health Maintenance"
)

func (g FitnessGoal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalWeightGain, GoalHealthMaintenance:
		return true
	}
	return false
}

type DietaryPreference string

const (
	PreferenceVegan         DietaryPreference = "Vegan"
	PreferenceVegetarian    DietaryPreference = "Vegetarian"
	PreferenceNonVegetarian DietaryPreference = "Non-Vegetarian"
)

func (p DietaryPreference) Valid() bool {
	switch p {
	case PreferenceVegan, PreferenceVegetarian, PreferenceNonVegetarian:
		return true
	}
	return false
}

// Recommendations is the single-slot cache of the last oracle generated advice.
type Recommendations struct {
	Diet        string     `json:"diet"`
	Workout     string     `json:"workout"`
	Avoid       string     `json:"avoid"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// IsStale reports whether the recommendations were never generated or are older than RecommendationTTL.
func (r Recommendations) IsStale(now time.Time) bool {
	if r.LastUpdated == nil || r.LastUpdated.IsZero() {
		return true
	}
	return now.Sub(*r.LastUpdated) > RecommendationTTL
}

type DietPlan struct {
	WeeklyPlan  map[string]string `json:"weeklyPlan"`
	Goal        string            `json:"goal"`
	Preference  string            `json:"preference"`
	MealsPerDay string            `json:"mealsPerDay"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type WorkoutExercise struct {
	Name         string `json:"name"`
	Sets         int    `json:"sets"`
	Reps         int    `json:"reps"`
	Duration     int    `json:"duration"`
	Instructions string `json:"instructions"`
}

type WorkoutSnapshot struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Level       string            `json:"level"`
	Exercises   []WorkoutExercise `json:"exercises"`
	Duration    int               `json:"duration"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Profile is the per-user document. Everything except the credential is
// persisted as one JSON document.
type Profile struct {
	ID                  string            `json:"id"`
	FirstName           string            `json:"firstName"`
	LastName            string            `json:"lastName"`
	Email               string            `json:"email"`
	PasswordHash        string            `json:"-"`
	DateOfBirth         *time.Time        `json:"dateOfBirth,omitempty"`
	City                string            `json:"city"`
	State               string            `json:"state"`
	OnboardingCompleted bool              `json:"onboardingCompleted"`
	Height              float64           `json:"height,omitempty"`
	Weight              float64           `json:"weight,omitempty"`
	BMI                 float64           `json:"bmi,omitempty"`
	FitnessGoal         FitnessGoal       `json:"fitnessGoal,omitempty"`
	TargetWeight        float64           `json:"targetWeight,omitempty"`
	DietaryPreference   DietaryPreference `json:"dietaryPreference,omitempty"`
	MealsPerDay         int               `json:"mealsPerDay,omitempty"`
	HasAllergies        bool              `json:"hasAllergies"`
	WorkoutPreferences  []string          `json:"workoutPreferences"`
	AIRecommendations   Recommendations   `json:"aiRecommendations"`
	DietHistory         []DietPlan        `json:"dietHistory"`
	WorkoutHistory      []WorkoutSnapshot `json:"workoutHistory"`
	ProgressMetrics     progress.Metrics  `json:"progressMetrics"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// EnsureInitialized replaces nil collections, documents written by older
// versions may lack some of them.
func (p *Profile) EnsureInitialized() {
	if p.WorkoutPreferences == nil {
		p.WorkoutPreferences = []string{}
	}
	if p.DietHistory == nil {
		p.DietHistory = []DietPlan{}
	}
	if p.WorkoutHistory == nil {
		p.WorkoutHistory = []WorkoutSnapshot{}
	}
	p.ProgressMetrics.EnsureInitialized()
}

func (p *Profile) AddDietPlan(plan DietPlan) {
	p.DietHistory = prependBounded(p.DietHistory, plan, DietHistoryLimit)
}

func (p *Profile) AddWorkout(workout WorkoutSnapshot) {
	p.WorkoutHistory = prependBounded(p.WorkoutHistory, workout, WorkoutHistoryLimit)
}

// prependBounded puts item first and keeps at most limit newest entries.
func prependBounded[T any](list []T, item T, limit int) []T {
	out := make([]T, 0, min(len(list)+1, limit))
	out = append(out, item)
	for _, e := range list {
		if len(out) == limit {
			break
		}
		out = append(out, e)
	}
	return out
}
