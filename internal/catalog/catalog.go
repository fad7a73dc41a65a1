// Package catalog is the shared library of workouts and exercises users
// browse and pick from. Entries are not owned by any user.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/apperr"
)

var (
	ErrWorkoutNotFound  = fmt.Errorf("workout %w", apperr.ErrNotFound)
	ErrExerciseNotFound = fmt.Errorf("exercise %w", apperr.ErrNotFound)
)

var Level = struct {
	Beginner     string
	Intermediate string
	Advanced     string
}{
	Beginner:     "beginner",
	Intermediate: "intermediate",
	Advanced:     "advanced",
}

type WorkoutExercise struct {
	Name         string `json:"name"`
	Sets         int    `json:"sets,omitempty"`
	Reps         int    `json:"reps,omitempty"`
	Duration     int    `json:"duration,omitempty"`
	RestTime     int    `json:"restTime"`
	Instructions string `json:"instructions"`
	MuscleGroup  string `json:"muscleGroup"`
	VideoURL     string `json:"videoUrl"`
}

type Workout struct {
	ID                int               `json:"id"`
	Name              string            `json:"name"`
	Type              string            `json:"type"`
	Level             string            `json:"level"`
	EstimatedDuration int               `json:"estimatedDuration"`
	Description       string            `json:"description"`
	Exercises         []WorkoutExercise `json:"exercises"`
	CreatedAt         time.Time         `json:"createdAt"`
}

func (w *Workout) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return apperr.NewValidationError("name", "required")
	}
	if strings.TrimSpace(w.Type) == "" {
		return apperr.NewValidationError("type", "required")
	}
	if w.EstimatedDuration < 0 {
		return apperr.NewValidationError("estimatedDuration", "must not be negative")
	}
	if w.Level == "" {
		w.Level = Level.Beginner
	}
	if w.Exercises == nil {
		w.Exercises = []WorkoutExercise{}
	}
	return nil
}

type Exercise struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	MuscleGroup   string    `json:"muscleGroup"`
	Image         string    `json:"image"`
	Steps         []string  `json:"steps"`
	MusclesWorked string    `json:"musclesWorked"`
	Equipment     string    `json:"equipment"`
	Tips          []string  `json:"tips"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (e *Exercise) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", e.Name},
		{"description", e.Description},
		{"muscleGroup", e.MuscleGroup},
		{"image", e.Image},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperr.NewValidationError(r.field, "required")
		}
	}

	e.MuscleGroup = strings.ToLower(strings.TrimSpace(e.MuscleGroup))
	if e.Steps == nil {
		e.Steps = []string{}
	}
	if e.Tips == nil {
		e.Tips = []string{}
	}
	return nil
}
