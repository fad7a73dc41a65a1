//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/2beens/fitcoach/internal/profile"
	"github.com/2beens/fitcoach/internal/progress"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

func (s *IntegrationTestSuite) signup(ctx context.Context, email, password string) sessionResponse {
	t := s.T()
	status, body := s.doRequest(ctx, http.MethodPost, "/user/signup", "", map[string]string{
		"firstName":   gofakeit.FirstName(),
		"lastName":    gofakeit.LastName(),
		"email":       email,
		"password":    password,
		"dateOfBirth": "1991-02-03",
		"city":        gofakeit.City(),
		"state":       gofakeit.StateAbr(),
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var session sessionResponse
	require.NoError(t, json.Unmarshal(body, &session))
	require.NotEmpty(t, session.Token)
	return session
}

func (s *IntegrationTestSuite) TestUserFlow() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	email := strings.ToLower(gofakeit.Email())
	password := gofakeit.Password(true, true, true, false, false, 12)
	session := s.signup(ctx, strings.ToUpper(email), password)

	var rows int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT count(*) FROM user_profile WHERE email = $1`, email).Scan(&rows))
	assert.Equal(t, 1, rows)

	status, _ := s.doRequest(ctx, http.MethodPost, "/user/signup", "", map[string]string{
		"firstName": "a", "lastName": "b", "email": email, "password": "x", "dateOfBirth": "1991-02-03",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.doRequest(ctx, http.MethodPost, "/user/login", "", map[string]string{"email": email, "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = s.doRequest(ctx, http.MethodPost, "/user/login", "", map[string]string{"email": "ghost@nowhere.io", "password": "nope"})
	assert.Equal(t, http.StatusNotFound, status)

	status, body := s.doRequest(ctx, http.MethodPost, "/user/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, string(body))
	var login sessionResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.Equal(t, session.UserID, login.UserID)
	token := login.Token

	status, _ = s.doRequest(ctx, http.MethodPost, "/user/update-profile", token, map[string]any{
		"userId": gofakeit.UUID(), "height": 180, "weight": 80,
		"fitnessGoal": "Weight Gain", "dietaryPreference": "Non-Vegetarian",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.doRequest(ctx, http.MethodPost, "/user/update-profile", token, map[string]any{
		"userId": session.UserID, "height": "180", "weight": 80,
		"fitnessGoal": "Weight Gain", "dietaryPreference": "Non-Vegetarian", "mealsPerDay": "4",
	})
	require.Equal(t, http.StatusOK, status, string(body))

	// concurrent submissions for one user must all land in the same week bucket
	const submissions = 8
	var wg sync.WaitGroup
	statuses := make([]int, submissions)
	for i := range submissions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses[i], _ = s.doRequest(ctx, http.MethodPost, "/user/log-entry", token, map[string]any{
				"date":           "2024-03-13",
				"measurements":   map[string]any{"weight": 80 - float64(i)/10},
				"totalNutrition": map[string]any{"calories": 2000, "waterIntake": 2},
				"workout":        map[string]any{"type": "strength", "duration": 45, "intensity": "intense", "caloriesBurned": 400},
			})
		}()
	}
	wg.Wait()
	for _, st := range statuses {
		assert.Equal(t, http.StatusOK, st)
	}

	status, _ = s.doRequest(ctx, http.MethodPost, "/user/log-entry", token, map[string]any{"measurements": map[string]any{"weight": "heavy"}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.doRequest(ctx, http.MethodGet, "/user/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	var p profile.Profile
	require.NoError(t, json.Unmarshal(body, &p))
	assert.True(t, p.OnboardingCompleted)
	assert.Equal(t, 4, p.MealsPerDay)
	assert.Len(t, p.ProgressMetrics.DailyLogs, submissions)
	require.Len(t, p.ProgressMetrics.WeeklyStats, 1)
	week := p.ProgressMetrics.WeeklyStats[0]
	assert.Equal(t, "2024-W02", week.Week)
	assert.Equal(t, submissions, week.WorkoutsCompleted)
	assert.Equal(t, float64(submissions*2000), week.CaloriesConsumed)
	assert.Equal(t, float64(submissions*400), week.CaloriesBurned)

	status, body = s.doRequest(ctx, http.MethodGet, "/user/progress/monthly", token, nil)
	require.Equal(t, http.StatusOK, status)
	var report struct {
		Metrics []map[string]any `json:"metrics"`
		Summary progress.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(body, &report))
	require.Len(t, report.Metrics, 1)
	assert.Equal(t, float64(submissions), report.Metrics[0]["totalWorkouts"])
	assert.Equal(t, submissions, report.Summary.TotalWorkouts)
	assert.Equal(t, 100, report.Summary.Consistency)
	assert.Zero(t, report.Summary.WeightChange)

	status, _ = s.doRequest(ctx, http.MethodGet, "/user/logout", token, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = s.doRequest(ctx, http.MethodGet, "/user/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
