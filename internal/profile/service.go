package profile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/apperr"
	"github.com/2beens/fitcoach/internal/progress"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=profile_test

type profileRepo interface {
	Create(ctx context.Context, p *Profile) error
	Get(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	Modify(ctx context.Context, id string, fn func(p *Profile) error) (*Profile, error)
}

type sessionManager interface {
	Login(ctx context.Context, userID string, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

// Recommender generates fresh diet and workout advice for a profile.
type Recommender interface {
	Recommend(ctx context.Context, p Profile) (Recommendations, error)
}

type SignupParams struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dateOfBirth"`
	City        string `json:"city"`
	State       string `json:"state"`
}

// UpdateParams carries the onboarding form. Numbers arrive as numbers or numeric strings.
type UpdateParams struct {
	UserID            string           `json:"userId"`
	Height            any              `json:"height"`
	Weight            any              `json:"weight"`
	BMI               any              `json:"bmi"`
	FitnessGoal       string           `json:"fitnessGoal"`
	TargetWeight      any              `json:"targetWeight"`
	DietaryPreference string           `json:"dietaryPreference"`
	MealsPerDay       any              `json:"mealsPerDay"`
	HasAllergies      bool             `json:"hasAllergies"`
	AIRecommendations *Recommendations `json:"aiRecommendations"`
}

type DietPlanParams struct {
	Plans       map[string]string `json:"plans"`
	Goal        string            `json:"goal"`
	Preference  string            `json:"preference"`
	MealsPerDay any               `json:"mealsPerDay"`
}

type Session struct {
	Token   string
	Profile *Profile
}

type Service struct {
	repo        profileRepo
	sessions    sessionManager
	recommender Recommender
	metrics     *metrics.Manager
	// refreshTimeout bounds a recommendation refresh during a profile read.
	refreshTimeout time.Duration
	Now            func() time.Time
}

// NewService creates the profile service. recommender may be nil, then
// recommendations are never refreshed on read.
func NewService(
	repo profileRepo,
	sessions sessionManager,
	recommender Recommender,
	metricsManager *metrics.Manager,
	refreshTimeout time.Duration,
) *Service {
	return &Service{
		repo:           repo,
		sessions:       sessions,
		recommender:    recommender,
		metrics:        metricsManager,
		refreshTimeout: refreshTimeout,
		Now:            time.Now,
	}
}

func (s *Service) Signup(ctx context.Context, params SignupParams) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.signup")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	email := strings.ToLower(strings.TrimSpace(params.Email))
	switch {
	case strings.TrimSpace(params.FirstName) == "":
		return nil, apperr.NewValidationError("firstName", "first name is required")
	case strings.TrimSpace(params.LastName) == "":
		return nil, apperr.NewValidationError("lastName", "last name is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, apperr.NewValidationError("email", "valid email is required")
	case params.Password == "":
		return nil, apperr.NewValidationError("password", "password is required")
	}

	dateOfBirth, err := parseDateOfBirth(params.DateOfBirth)
	if err != nil {
		return nil, err
	}

	passwordHash, err := pkg.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p := &Profile{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		Email:        email,
		PasswordHash: passwordHash,
		DateOfBirth:  &dateOfBirth,
		City:         params.City,
		State:        params.State,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", p.ID))

	token, err := s.sessions.Login(ctx, p.ID, s.Now())
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	log.Infof("new user signed up: %s", p.ID)
	return &Session{Token: token, Profile: p}, nil
}

func parseDateOfBirth(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperr.NewValidationError("dateOfBirth", "date of birth is required")
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.NewValidationError("dateOfBirth", fmt.Sprintf("unsupported date format: %q", raw))
}

func (s *Service) Login(ctx context.Context, email, password string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		s.countLogin(err)
	}()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("both email and password are required: %w", apperr.ErrUnauthorized)
	}

	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if !pkg.CheckPasswordHash(password, p.PasswordHash) {
		return nil, fmt.Errorf("wrong password: %w", apperr.ErrUnauthorized)
	}

	token, err := s.sessions.Login(ctx, p.ID, s.Now())
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Session{Token: token, Profile: p}, nil
}

func (s *Service) countLogin(err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrUnauthorized):
		outcome = "wrong_credentials"
	case errors.Is(err, apperr.ErrNotFound):
		outcome = "unknown_user"
	default:
		outcome = "error"
	}
	s.metrics.CounterLogins.WithLabelValues(outcome).Inc()
}

func (s *Service) Logout(ctx context.Context, token string) (bool, error) {
	return s.sessions.Logout(ctx, token)
}

// Get returns the profile, refreshing stale recommendations first. A failed
// refresh is logged and the stale text is returned.
func (s *Service) Get(ctx context.Context, userID string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if s.recommender == nil || !p.OnboardingCompleted || !p.AIRecommendations.IsStale(s.Now()) {
		return p, nil
	}

	span.SetAttributes(attribute.Bool("recommendations.refresh", true))
	refreshed, err := s.refreshRecommendations(ctx, p)
	if err != nil {
		log.Warnf("refresh recommendations for user [%s]: %s", userID, err)
		return p, nil
	}
	return refreshed, nil
}

func (s *Service) refreshRecommendations(ctx context.Context, p *Profile) (*Profile, error) {
	refreshCtx := ctx
	if s.refreshTimeout > 0 {
		var cancel context.CancelFunc
		refreshCtx, cancel = context.WithTimeout(ctx, s.refreshTimeout)
		defer cancel()
	}

	recs, err := s.recommender.Recommend(refreshCtx, *p)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	now := s.Now()
	recs.LastUpdated = &now
	return s.repo.Modify(ctx, p.ID, func(p *Profile) error {
		p.AIRecommendations = recs
		return nil
	})
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, params UpdateParams) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.update")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if params.UserID != userID {
		return nil, fmt.Errorf("update of another user's profile: %w", apperr.ErrForbidden)
	}

	if params.Height == nil || params.Weight == nil || params.FitnessGoal == "" || params.DietaryPreference == "" {
		return nil, apperr.NewValidationError("", "missing required fields")
	}

	height := progress.ParseOptionalNumber(params.Height)
	weight := progress.ParseOptionalNumber(params.Weight)
	if height <= 0 || weight <= 0 {
		return nil, apperr.NewValidationError("", "invalid height or weight values")
	}

	goal := FitnessGoal(params.FitnessGoal)
	if !goal.Valid() {
		return nil, apperr.NewValidationError("fitnessGoal", fmt.Sprintf("unknown fitness goal %q", params.FitnessGoal))
	}
	preference := DietaryPreference(params.DietaryPreference)
	if !preference.Valid() {
		return nil, apperr.NewValidationError("dietaryPreference", fmt.Sprintf("unknown dietary preference %q", params.DietaryPreference))
	}

	bmi := progress.ParseOptionalNumber(params.BMI)
	if bmi <= 0 {
		bmi = BMI(weight, height)
	}

	now := s.Now()
	return s.repo.Modify(ctx, userID, func(p *Profile) error {
		p.Height = height
		p.Weight = weight
		p.BMI = bmi
		p.FitnessGoal = goal
		p.TargetWeight = progress.ParseOptionalNumber(params.TargetWeight)
		p.DietaryPreference = preference
		p.MealsPerDay = int(progress.ParseOptionalNumber(params.MealsPerDay))
		p.HasAllergies = params.HasAllergies
		p.OnboardingCompleted = true
		if params.AIRecommendations != nil {
			recs := *params.AIRecommendations
			recs.LastUpdated = &now
			p.AIRecommendations = recs
		}
		return nil
	})
}

// BMI is weight in kg over the square of height in meters, rounded to 2 decimals.
func BMI(weightKg, heightCm float64) float64 {
	meters := heightCm / 100
	return math.Round(weightKg/(meters*meters)*100) / 100
}

func (s *Service) SaveDiet(ctx context.Context, userID string, params DietPlanParams) (_ []DietPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.savediet")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if len(params.Plans) == 0 {
		return nil, apperr.NewValidationError("plans", "weekly plan is required")
	}

	plan := DietPlan{
		WeeklyPlan:  params.Plans,
		Goal:        params.Goal,
		Preference:  params.Preference,
		MealsPerDay: mealsPerDayString(params.MealsPerDay),
		CreatedAt:   s.Now(),
	}
	p, err := s.repo.Modify(ctx, userID, func(p *Profile) error {
		p.AddDietPlan(plan)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save diet plan: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterSnapshots.WithLabelValues("diet").Inc()
	}
	return p.DietHistory, nil
}

func mealsPerDayString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		if n := progress.ParseOptionalNumber(v); n > 0 {
			return fmt.Sprintf("%g", n)
		}
		return ""
	}
}

func (s *Service) SaveWorkout(ctx context.Context, userID string, workout WorkoutSnapshot) (_ []WorkoutSnapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.saveworkout")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	workout.CreatedAt = s.Now()
	if workout.Exercises == nil {
		workout.Exercises = []WorkoutExercise{}
	}

	p, err := s.repo.Modify(ctx, userID, func(p *Profile) error {
		p.AddWorkout(workout)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save workout: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterSnapshots.WithLabelValues("workout").Inc()
	}
	return p.WorkoutHistory, nil
}
