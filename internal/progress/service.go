package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=progress_test

type metricsStore interface {
	// GetMetrics returns apperr.ErrNotFound for an unknown user, and empty metrics
	// for a user that never logged anything.
	GetMetrics(ctx context.Context, userID string) (*Metrics, error)
	// UpdateMetrics runs fn on the user's metrics and persists the result
	// atomically. Nothing is written when fn fails.
	UpdateMetrics(ctx context.Context, userID string, fn func(m *Metrics) error) error
}

// Estimator fills values the client did not report. Implementations never fail,
// they degrade to local approximations.
type Estimator interface {
	EstimateCalories(ctx context.Context, meals []Meal) float64
	EstimateWorkout(ctx context.Context, workout Workout) WorkoutEstimate
}

type WorkoutEstimate struct {
	CaloriesBurned       float64
	IntensityScore       float64
	ImpactedMuscleGroups []string
}

type LogResult struct {
	DailyLog  DailyLog    `json:"dailyLog"`
	WeekStats WeeklyStats `json:"weekStats"`
}

type Service struct {
	store     metricsStore
	estimator Estimator
	metrics   *metrics.Manager
	// Now is swapped in tests to pin log creation times.
	Now func() time.Time
}

// NewService creates the progress service. estimator may be nil.
func NewService(store metricsStore, estimator Estimator, metricsManager *metrics.Manager) *Service {
	return &Service{
		store:     store,
		estimator: estimator,
		metrics:   metricsManager,
		Now:       time.Now,
	}
}

// LogEntry validates and ingests one daily log for the user.
func (s *Service) LogEntry(ctx context.Context, userID string, in DailyLogInput) (_ *LogResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.logentry")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	dailyLog, err := in.Normalize(s.Now())
	if err != nil {
		if s.metrics != nil {
			s.metrics.CounterRejectedDailyLogs.Inc()
		}
		return nil, err
	}

	// estimates are taken before the store locks the profile
	s.estimate(ctx, in, &dailyLog)

	var weekStats WeeklyStats
	if err := s.store.UpdateMetrics(ctx, userID, func(m *Metrics) error {
		weekStats = Ingest(m, dailyLog)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("update metrics: %w", err)
	}

	span.SetAttributes(attribute.String("week", weekStats.Week))
	if s.metrics != nil {
		s.metrics.CounterDailyLogs.Inc()
	}
	log.Debugf("daily log ingested for user [%s], week [%s]", userID, weekStats.Week)

	return &LogResult{
		DailyLog:  dailyLog,
		WeekStats: weekStats,
	}, nil
}

func (s *Service) estimate(ctx context.Context, in DailyLogInput, dailyLog *DailyLog) {
	if s.estimator == nil {
		return
	}

	if in.caloriesMissing() && len(dailyLog.Meals) > 0 {
		dailyLog.TotalNutrition.Calories = s.estimator.EstimateCalories(ctx, dailyLog.Meals)
	}

	if in.caloriesBurnedMissing() && dailyLog.Workout != nil {
		est := s.estimator.EstimateWorkout(ctx, *dailyLog.Workout)
		dailyLog.Workout.CaloriesBurned = est.CaloriesBurned
		if dailyLog.Workout.IntensityScore == 0 {
			dailyLog.Workout.IntensityScore = est.IntensityScore
		}
		if len(dailyLog.Workout.ImpactedMuscleGroups) == 0 && len(est.ImpactedMuscleGroups) > 0 {
			dailyLog.Workout.ImpactedMuscleGroups = est.ImpactedMuscleGroups
		}
	}
}

// Progress returns the report of the user's progress over the timeframe.
func (s *Service) Progress(ctx context.Context, userID string, tf Timeframe) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.report")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("timeframe", string(tf)))

	if _, err := ParseTimeframe(string(tf)); err != nil {
		return nil, err
	}

	m, err := s.store.GetMetrics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get metrics: %w", err)
	}

	report := Aggregate(m, tf)
	return &report, nil
}
