package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/fitcoach/internal/apperr"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=catalog_test

type catalogRepo interface {
	AddWorkout(ctx context.Context, workout Workout) (*Workout, error)
	GetWorkout(ctx context.Context, id int) (*Workout, error)
	ListWorkouts(ctx context.Context) ([]Workout, error)
	AddExercise(ctx context.Context, exercise Exercise) (*Exercise, error)
	GetExercise(ctx context.Context, id int) (*Exercise, error)
	ListExercises(ctx context.Context, muscleGroup string) ([]Exercise, error)
	UpdateExercise(ctx context.Context, exercise Exercise) (*Exercise, error)
	DeleteExercise(ctx context.Context, id int) error
}

type Handler struct {
	repo catalogRepo
}

func NewHandler(repo catalogRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

type messageResponse struct {
	Msg string `json:"msg"`
}

type workoutAddedResponse struct {
	Msg     string   `json:"msg"`
	Workout *Workout `json:"workout"`
}

func idFromPath(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, apperr.NewValidationError("id", "invalid id")
	}
	return id, nil
}

func writeRepoError(w http.ResponseWriter, op string, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", status)
		return
	}
	http.Error(w, apperr.PublicMessage(err), status)
}

func (h *Handler) HandleListWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.workouts.list")
	defer span.End()

	workouts, err := h.repo.ListWorkouts(ctx)
	if err != nil {
		writeRepoError(w, "list workouts", err)
		return
	}
	pkg.WriteJSON(w, workouts, http.StatusOK)
}

func (h *Handler) HandleAddWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.workouts.add")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Errorf("new workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}
	if err := workout.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := h.repo.AddWorkout(ctx, workout)
	if err != nil {
		writeRepoError(w, "add workout", err)
		return
	}

	log.Debugf("new workout added: %d", added.ID)
	pkg.WriteJSON(w, workoutAddedResponse{Msg: "Workout added", Workout: added}, http.StatusCreated)
}

func (h *Handler) HandleGetWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.workouts.get")
	defer span.End()

	id, err := idFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	workout, err := h.repo.GetWorkout(ctx, id)
	if err != nil {
		writeRepoError(w, "get workout", err)
		return
	}
	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (h *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.list")
	defer span.End()

	muscleGroup := strings.ToLower(r.URL.Query().Get("muscleGroup"))
	exercises, err := h.repo.ListExercises(ctx, muscleGroup)
	if err != nil {
		writeRepoError(w, "list exercises", err)
		return
	}
	pkg.WriteJSON(w, exercises, http.StatusOK)
}

func (h *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.add")
	defer span.End()

	exercise, ok := decodeExercise(w, r)
	if !ok {
		return
	}

	added, err := h.repo.AddExercise(ctx, exercise)
	if err != nil {
		writeRepoError(w, "add exercise", err)
		return
	}

	log.Debugf("new exercise added: %d", added.ID)
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (h *Handler) HandleGetExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.get")
	defer span.End()

	id, err := idFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	exercise, err := h.repo.GetExercise(ctx, id)
	if err != nil {
		writeRepoError(w, "get exercise", err)
		return
	}
	pkg.WriteJSON(w, exercise, http.StatusOK)
}

func (h *Handler) HandleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.update")
	defer span.End()

	id, err := idFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	exercise, ok := decodeExercise(w, r)
	if !ok {
		return
	}
	exercise.ID = id

	updated, err := h.repo.UpdateExercise(ctx, exercise)
	if err != nil {
		writeRepoError(w, "update exercise", err)
		return
	}

	log.Debugf("exercise updated: %d", id)
	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.delete")
	defer span.End()

	id, err := idFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.DeleteExercise(ctx, id); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		writeRepoError(w, "delete exercise", err)
		return
	}

	log.Debugf("exercise deleted: %d", id)
	pkg.WriteJSON(w, messageResponse{Msg: "Exercise deleted successfully"}, http.StatusOK)
}

func decodeExercise(w http.ResponseWriter, r *http.Request) (Exercise, bool) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return Exercise{}, false
	}

	var exercise Exercise
	if err := json.NewDecoder(r.Body).Decode(&exercise); err != nil {
		log.Errorf("exercise, unmarshal json params: %s", err)
		http.Error(w, "invalid exercise body", http.StatusBadRequest)
		return Exercise{}, false
	}
	if err := exercise.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return Exercise{}, false
	}
	return exercise, true
}
