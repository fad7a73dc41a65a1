package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/2beens/fitcoach/internal/apperr"
	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progress_test

type service interface {
	LogEntry(ctx context.Context, userID string, in DailyLogInput) (*LogResult, error)
	Progress(ctx context.Context, userID string, tf Timeframe) (*Report, error)
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

type logEntryResponse struct {
	Msg string `json:"msg"`
	*LogResult
}

func (h *Handler) HandleLogEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.logentry")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var in DailyLogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("log entry, unmarshal json params: %s", err)
		http.Error(w, "invalid log entry body", http.StatusBadRequest)
		return
	}

	res, err := h.service.LogEntry(ctx, userID, in)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Errorf("log entry for user [%s]: %s", userID, err)
		} else {
			log.Debugf("log entry for user [%s] rejected: %s", userID, err)
		}
		http.Error(w, apperr.PublicMessage(err), status)
		return
	}

	pkg.WriteJSON(w, logEntryResponse{
		Msg:       "log entry saved successfully",
		LogResult: res,
	}, http.StatusOK)
}

func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	tf, err := ParseTimeframe(mux.Vars(r)["timeframe"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.service.Progress(ctx, userID, tf)
	if err != nil {
		status := apperr.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Errorf("progress [%s] for user [%s]: %s", tf, userID, err)
		}
		http.Error(w, apperr.PublicMessage(err), status)
		return
	}

	pkg.WriteJSON(w, report, http.StatusOK)
}
