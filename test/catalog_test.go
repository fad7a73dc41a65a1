//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/fitcoach/internal/catalog"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestCatalog() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	session := s.signup(ctx, strings.ToLower(gofakeit.Email()), "catalog-pass")

	newExercise := map[string]any{
		"name":        "Goblet Squat",
		"description": "Squat holding a kettlebell",
		"muscleGroup": "Legs",
		"image":       "https://img.example/goblet.png",
		"steps":       []string{"hold the bell", "squat", "stand up"},
	}

	status, _ := s.doRequest(ctx, http.MethodPost, "/api/exercise", "", newExercise)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := s.doRequest(ctx, http.MethodPost, "/api/exercise", session.Token, newExercise)
	require.Equal(t, http.StatusCreated, status, string(body))
	var added catalog.Exercise
	require.NoError(t, json.Unmarshal(body, &added))
	assert.Positive(t, added.ID)
	assert.Equal(t, "legs", added.MuscleGroup)
	assert.Empty(t, added.Tips)

	status, body = s.doRequest(ctx, http.MethodGet, "/api/exercise?muscleGroup=legs", "", nil)
	require.Equal(t, http.StatusOK, status)
	var listed []catalog.Exercise
	require.NoError(t, json.Unmarshal(body, &listed))
	require.NotEmpty(t, listed)

	newExercise["tips"] = []string{"keep the chest up"}
	status, body = s.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/exercise/%d", added.ID), session.Token, newExercise)
	require.Equal(t, http.StatusOK, status, string(body))
	var updated catalog.Exercise
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, []string{"keep the chest up"}, updated.Tips)

	status, _ = s.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/exercise/%d", added.ID), session.Token, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/exercise/%d", added.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = s.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/exercise/%d", added.ID), session.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.doRequest(ctx, http.MethodPost, "/api/workouts", session.Token, map[string]any{
		"name":              "Leg Day",
		"type":              "strength",
		"estimatedDuration": 50,
		"exercises":         []map[string]any{{"name": "Goblet Squat", "sets": 4, "reps": 10}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var workoutAdded struct {
		Workout catalog.Workout `json:"workout"`
	}
	require.NoError(t, json.Unmarshal(body, &workoutAdded))
	assert.Equal(t, catalog.Level.Beginner, workoutAdded.Workout.Level)

	status, body = s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/workouts/%d", workoutAdded.Workout.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var workout catalog.Workout
	require.NoError(t, json.Unmarshal(body, &workout))
	require.Len(t, workout.Exercises, 1)
	assert.Equal(t, 4, workout.Exercises[0].Sets)

	status, _ = s.doRequest(ctx, http.MethodGet, "/api/workouts/999999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
