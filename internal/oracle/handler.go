package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/fitcoach/internal/apperr"
	"github.com/2beens/fitcoach/internal/progress"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=oracle_test

type coach interface {
	Nutrition(ctx context.Context, meals []progress.Meal) NutritionEstimate
	Workout(ctx context.Context, w progress.Workout) WorkoutStats
	DietPlan(ctx context.Context, req DietPlanRequest) map[string]string
	Chat(ctx context.Context, message, page string) (string, error)
}

type Handler struct {
	coach coach
}

func NewHandler(coach coach) *Handler {
	return &Handler{
		coach: coach,
	}
}

type nutritionRequest struct {
	Meals []struct {
		Name     string `json:"name"`
		Portions any    `json:"portions"`
	} `json:"meals"`
}

type workoutRequest struct {
	Type      string   `json:"type"`
	Duration  any      `json:"duration"`
	Intensity string   `json:"intensity"`
	Exercises []string `json:"exercises"`
}

type dietPlanRequest struct {
	Goal        string `json:"goal"`
	Preference  string `json:"preference"`
	MealsPerDay any    `json:"mealsPerDay"`
}

type chatRequest struct {
	Message string `json:"message"`
	Page    string `json:"page"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type dietPlanResponse struct {
	WeeklyPlan map[string]string `json:"weeklyPlan"`
}

func decodeJSONBody(r *http.Request, v any) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		return apperr.NewValidationError("Content-Type", "invalid content type")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.NewValidationError("body", "invalid json body")
	}
	return nil
}

func (h *Handler) HandleEstimateNutrition(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.nutrition")
	defer span.End()

	var req nutritionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		http.Error(w, apperr.PublicMessage(err), http.StatusBadRequest)
		return
	}
	if len(req.Meals) == 0 {
		http.Error(w, "meals not provided", http.StatusBadRequest)
		return
	}

	meals := make([]progress.Meal, 0, len(req.Meals))
	for _, m := range req.Meals {
		portions := ""
		if m.Portions != nil {
			portions = fmt.Sprint(m.Portions)
		}
		meals = append(meals, progress.Meal{Name: m.Name, Portions: portions})
	}

	pkg.WriteJSON(w, h.coach.Nutrition(ctx, meals), http.StatusOK)
}

func (h *Handler) HandleEstimateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.workout")
	defer span.End()

	var req workoutRequest
	if err := decodeJSONBody(r, &req); err != nil {
		http.Error(w, apperr.PublicMessage(err), http.StatusBadRequest)
		return
	}

	duration := progress.ParseOptionalNumber(req.Duration)
	if req.Type == "" || duration <= 0 {
		http.Error(w, "workout type and duration required", http.StatusBadRequest)
		return
	}
	intensity := progress.Intensity(req.Intensity)
	if intensity == "" {
		intensity = progress.IntensityModerate
	} else if !intensity.Valid() {
		http.Error(w, "unknown intensity", http.StatusBadRequest)
		return
	}
	exercises := req.Exercises
	if exercises == nil {
		exercises = []string{}
	}

	stats := h.coach.Workout(ctx, progress.Workout{
		Type:      req.Type,
		Duration:  duration,
		Intensity: intensity,
		Exercises: exercises,
	})
	pkg.WriteJSON(w, stats, http.StatusOK)
}

func (h *Handler) HandleDietPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.dietplan")
	defer span.End()

	var req dietPlanRequest
	if err := decodeJSONBody(r, &req); err != nil {
		http.Error(w, apperr.PublicMessage(err), http.StatusBadRequest)
		return
	}

	mealsPerDay := int(progress.ParseOptionalNumber(req.MealsPerDay))
	if req.Goal == "" || req.Preference == "" || mealsPerDay <= 0 {
		http.Error(w, "goal, preference and meals per day required", http.StatusBadRequest)
		return
	}

	plan := h.coach.DietPlan(ctx, DietPlanRequest{
		Goal:        req.Goal,
		Preference:  req.Preference,
		MealsPerDay: mealsPerDay,
	})
	pkg.WriteJSON(w, dietPlanResponse{WeeklyPlan: plan}, http.StatusOK)
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.chat")
	defer span.End()

	var req chatRequest
	if err := decodeJSONBody(r, &req); err != nil {
		http.Error(w, apperr.PublicMessage(err), http.StatusBadRequest)
		return
	}

	reply, err := h.coach.Chat(ctx, req.Message, req.Page)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Errorf("coach chat: %s", err)
		}
		http.Error(w, apperr.PublicMessage(err), status)
		return
	}

	pkg.WriteJSON(w, chatResponse{Reply: reply}, http.StatusOK)
}
