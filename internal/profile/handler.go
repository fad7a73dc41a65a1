package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/2beens/fitcoach/internal/apperr"
	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=profile_test

type service interface {
	Signup(ctx context.Context, params SignupParams) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) (bool, error)
	Get(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, params UpdateParams) (*Profile, error)
	SaveDiet(ctx context.Context, userID string, params DietPlanParams) ([]DietPlan, error)
	SaveWorkout(ctx context.Context, userID string, workout WorkoutSnapshot) ([]WorkoutSnapshot, error)
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

type userSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func summarize(p *Profile) userSummary {
	return userSummary{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
	}
}

type sessionResponse struct {
	Msg    string      `json:"msg"`
	UserID string      `json:"userId"`
	Token  string      `json:"token"`
	User   userSummary `json:"user"`
}

func decodeJSONBody(r *http.Request, v any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Debugf("%s %s, unmarshal json params: %s", r.Method, r.URL.Path, err)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, msg string, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s: %s", msg, err)
	} else {
		log.Debugf("%s: %s", msg, err)
	}
	http.Error(w, apperr.PublicMessage(err), status)
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.signup")
	defer span.End()

	var params SignupParams
	if !decodeJSONBody(r, &params) {
		http.Error(w, "invalid signup body", http.StatusBadRequest)
		return
	}

	session, err := h.service.Signup(ctx, params)
	if err != nil {
		writeError(w, "signup", err)
		return
	}

	pkg.WriteJSON(w, sessionResponse{
		Msg:    "user created successfully",
		UserID: session.Profile.ID,
		Token:  session.Token,
		User:   summarize(session.Profile),
	}, http.StatusOK)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.login")
	defer span.End()

	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSONBody(r, &credentials) {
		http.Error(w, "invalid login body", http.StatusBadRequest)
		return
	}

	session, err := h.service.Login(ctx, credentials.Email, credentials.Password)
	if err != nil {
		writeError(w, "login", err)
		return
	}

	pkg.WriteJSON(w, sessionResponse{
		Msg:    "User Logged In successfully",
		UserID: session.Profile.ID,
		Token:  session.Token,
		User:   summarize(session.Profile),
	}, http.StatusOK)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.logout")
	defer span.End()

	token := auth.TokenFromRequest(r)
	if token == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := h.service.Logout(ctx, token)
	if err != nil {
		log.Errorf("logout: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteJSON(w, map[string]string{"msg": "logged out"}, http.StatusOK)
}

func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	p, err := h.service.Get(ctx, userID)
	if err != nil {
		writeError(w, "get profile", err)
		return
	}

	pkg.WriteJSON(w, p, http.StatusOK)
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var params UpdateParams
	if !decodeJSONBody(r, &params) {
		http.Error(w, "invalid profile body", http.StatusBadRequest)
		return
	}

	p, err := h.service.UpdateProfile(ctx, userID, params)
	if err != nil {
		writeError(w, "update profile", err)
		return
	}

	pkg.WriteJSON(w, struct {
		Msg  string   `json:"msg"`
		User *Profile `json:"user"`
	}{
		Msg:  "Profile updated successfully",
		User: p,
	}, http.StatusOK)
}

func (h *Handler) HandleSaveDiet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.savediet")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var params DietPlanParams
	if !decodeJSONBody(r, &params) {
		http.Error(w, "invalid diet plan body", http.StatusBadRequest)
		return
	}

	history, err := h.service.SaveDiet(ctx, userID, params)
	if err != nil {
		writeError(w, "save diet", err)
		return
	}

	pkg.WriteJSON(w, struct {
		Msg         string     `json:"msg"`
		DietHistory []DietPlan `json:"dietHistory"`
	}{
		Msg:         "Weekly meal plan saved successfully",
		DietHistory: history,
	}, http.StatusOK)
}

func (h *Handler) HandleSaveWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.saveworkout")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var body struct {
		Workout *WorkoutSnapshot `json:"workout"`
	}
	if !decodeJSONBody(r, &body) || body.Workout == nil {
		http.Error(w, "invalid workout body", http.StatusBadRequest)
		return
	}

	history, err := h.service.SaveWorkout(ctx, userID, *body.Workout)
	if err != nil {
		writeError(w, "save workout", err)
		return
	}

	pkg.WriteJSON(w, struct {
		Msg            string            `json:"msg"`
		WorkoutHistory []WorkoutSnapshot `json:"workoutHistory"`
	}{
		Msg:            "Workout saved successfully",
		WorkoutHistory: history,
	}, http.StatusOK)
}
