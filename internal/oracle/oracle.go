package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/apperr"
	"github.com/2beens/fitcoach/internal/profile"
	"github.com/2beens/fitcoach/internal/progress"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultTimeout     = 10 * time.Second
	defaultCacheSizeMB = 10
	oneHour            = 60 * 60
	estimateCacheTTL   = oneHour * 24
)

var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var _ progress.Estimator = (*Oracle)(nil)
var _ profile.Recommender = (*Oracle)(nil)

type NutritionEstimate struct {
	TotalCalories float64            `json:"totalCalories"`
	Protein       float64            `json:"protein"`
	Carbs         float64            `json:"carbs"`
	Fats          float64            `json:"fats"`
	Breakdown     map[string]float64 `json:"breakdown"`
	// Fallback is set when the numbers are local approximations.
	Fallback bool `json:"fallback"`
}

type WorkoutStats struct {
	CaloriesBurned       float64  `json:"caloriesBurned"`
	IntensityScore       float64  `json:"intensityScore"`
	ImpactedMuscleGroups []string `json:"impactedMuscleGroups"`
	Fallback             bool     `json:"fallback"`
}

type DietPlanRequest struct {
	Goal        string `json:"goal"`
	Preference  string `json:"preference"`
	MealsPerDay int    `json:"mealsPerDay"`
}

type Params struct {
	Timeout     time.Duration
	CacheSizeMB int
	Metrics     *metrics.Manager
}

// Oracle wraps the external text generator. Estimates never fail, they
// degrade to local approximations. Free text operations report
// apperr.ErrUpstream instead.
type Oracle struct {
	generator textGenerator
	cache     *freecache.Cache
	timeout   time.Duration
	metrics   *metrics.Manager
}

// New creates the oracle. A nil generator means no upstream is configured
// and every call takes the fallback path.
func New(generator textGenerator, params Params) *Oracle {
	if params.Timeout <= 0 {
		params.Timeout = DefaultTimeout
	}
	if params.CacheSizeMB <= 0 {
		params.CacheSizeMB = defaultCacheSizeMB
	}
	megabyte := 1024 * 1024

	return &Oracle{
		generator: generator,
		cache:     freecache.NewCache(params.CacheSizeMB * megabyte),
		timeout:   params.Timeout,
		metrics:   params.Metrics,
	}
}

func (o *Oracle) count(operation, outcome string) {
	if o.metrics != nil {
		o.metrics.CounterOracleCalls.WithLabelValues(operation, outcome).Inc()
	}
}

// generate calls the upstream under the oracle timeout. All failures are
// reported as apperr.ErrUpstream.
func (o *Oracle) generate(ctx context.Context, operation, prompt string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "oracle.generate")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("operation", operation))

	if o.generator == nil {
		return "", fmt.Errorf("%w: oracle not configured", apperr.ErrUpstream)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	text, err := o.generator.Generate(ctx, prompt)
	if o.metrics != nil {
		o.metrics.HistOracleDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		o.count(operation, "error")
		return "", fmt.Errorf("%w: %s: %w", apperr.ErrUpstream, operation, err)
	}

	o.count(operation, "ok")
	return text, nil
}

func cacheKey(operation, prompt string) []byte {
	sum := sha256.Sum256([]byte(operation + "\x00" + prompt))
	return sum[:]
}

// generateJSON decodes the upstream answer into v, using and filling the
// response cache.
func (o *Oracle) generateJSON(ctx context.Context, operation, prompt string, v any) error {
	key := cacheKey(operation, prompt)
	if cached, err := o.cache.Get(key); err == nil {
		if err := json.Unmarshal(cached, v); err == nil {
			o.count(operation, "cached")
			return nil
		}
	}

	text, err := o.generate(ctx, operation, prompt)
	if err != nil {
		return err
	}
	if err := decodeJSONObject(text, v); err != nil {
		o.count(operation, "unparsable")
		return fmt.Errorf("%w: %s: %w", apperr.ErrUpstream, operation, err)
	}

	if b, err := json.Marshal(v); err == nil {
		if err := o.cache.Set(key, b, estimateCacheTTL); err != nil {
			log.Debugf("oracle cache set [%s]: %s", operation, err)
		}
	}
	return nil
}

// Recommend asks for the three sections of personal advice.
func (o *Oracle) Recommend(ctx context.Context, p profile.Profile) (profile.Recommendations, error) {
	text, err := o.generate(ctx, "recommend", recommendationPrompt(p))
	if err != nil {
		return profile.Recommendations{}, err
	}

	sections := splitSections(text)
	if sections[0] == "" && sections[1] == "" && sections[2] == "" {
		o.count("recommend", "unparsable")
		return profile.Recommendations{}, fmt.Errorf("%w: recommend: no numbered sections", apperr.ErrUpstream)
	}

	return profile.Recommendations{
		Diet:    sections[0],
		Workout: sections[1],
		Avoid:   sections[2],
	}, nil
}

func (o *Oracle) Nutrition(ctx context.Context, meals []progress.Meal) NutritionEstimate {
	if len(meals) == 0 {
		return NutritionEstimate{Breakdown: map[string]float64{}}
	}

	var est NutritionEstimate
	if err := o.generateJSON(ctx, "nutrition", nutritionPrompt(meals), &est); err != nil {
		log.Warnf("nutrition estimate, using fallback: %s", err)
		o.count("nutrition", "fallback")
		return fallbackNutrition(meals)
	}
	if est.Breakdown == nil {
		est.Breakdown = map[string]float64{}
	}
	return est
}

func (o *Oracle) Workout(ctx context.Context, w progress.Workout) WorkoutStats {
	var stats WorkoutStats
	if err := o.generateJSON(ctx, "workout", workoutPrompt(w), &stats); err != nil {
		log.Warnf("workout estimate, using fallback: %s", err)
		o.count("workout", "fallback")
		return fallbackWorkout(w)
	}
	if stats.ImpactedMuscleGroups == nil {
		stats.ImpactedMuscleGroups = []string{}
	}
	return stats
}

func (o *Oracle) EstimateCalories(ctx context.Context, meals []progress.Meal) float64 {
	return o.Nutrition(ctx, meals).TotalCalories
}

func (o *Oracle) EstimateWorkout(ctx context.Context, w progress.Workout) progress.WorkoutEstimate {
	stats := o.Workout(ctx, w)
	return progress.WorkoutEstimate{
		CaloriesBurned:       stats.CaloriesBurned,
		IntensityScore:       stats.IntensityScore,
		ImpactedMuscleGroups: stats.ImpactedMuscleGroups,
	}
}

// DietPlan generates one plan text per week day, concurrently. Days the
// upstream fails for get a placeholder text.
func (o *Oracle) DietPlan(ctx context.Context, req DietPlanRequest) map[string]string {
	plan := make(map[string]string, len(WeekDays))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, day := range WeekDays {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := o.dayPlan(ctx, req, day)
			if err != nil {
				log.Warnf("diet plan for %s: %s", day, err)
				o.count("diet_plan", "fallback")
				text = fallbackDayPlan(day)
			}
			mu.Lock()
			plan[day] = text
			mu.Unlock()
		}()
	}
	wg.Wait()
	return plan
}

func (o *Oracle) dayPlan(ctx context.Context, req DietPlanRequest, day string) (string, error) {
	prompt := dayPlanPrompt(req, day)
	key := cacheKey("diet_plan", prompt)
	if cached, err := o.cache.Get(key); err == nil {
		o.count("diet_plan", "cached")
		return string(cached), nil
	}

	text, err := o.generate(ctx, "diet_plan", prompt)
	if err != nil {
		return "", err
	}
	if err := o.cache.Set(key, []byte(text), estimateCacheTTL); err != nil {
		log.Debugf("oracle cache set [diet_plan]: %s", err)
	}
	return text, nil
}

var ErrEmptyMessage = errors.New("empty chat message")

// Chat forwards a user question. There is no fallback answer.
func (o *Oracle) Chat(ctx context.Context, message, page string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperr.NewValidationError("message", ErrEmptyMessage.Error())
	}
	return o.generate(ctx, "chat", chatPrompt(message, page))
}
