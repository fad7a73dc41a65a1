package progress

import "time"

type Intensity string

const (
	IntensityLight    Intensity = "light"
	IntensityModerate Intensity = "moderate"
	IntensityIntense  Intensity = "intense"
)

func (i Intensity) Valid() bool {
	switch i {
	case IntensityLight, IntensityModerate, IntensityIntense:
		return true
	}
	return false
}

type Mood string

const (
	MoodGreat   Mood = "great"
	MoodGood    Mood = "good"
	MoodNeutral Mood = "neutral"
	MoodPoor    Mood = "poor"
	MoodBad     Mood = "bad"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodGreat, MoodGood, MoodNeutral, MoodPoor, MoodBad:
		return true
	}
	return false
}

type SleepQuality string

const (
	SleepExcellent SleepQuality = "excellent"
	SleepGood      SleepQuality = "good"
	SleepFair      SleepQuality = "fair"
	SleepPoor      SleepQuality = "poor"
)

func (q SleepQuality) Valid() bool {
	switch q {
	case SleepExcellent, SleepGood, SleepFair, SleepPoor:
		return true
	}
	return false
}

type Nutrients struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

type Meal struct {
	Name      string    `json:"name"`
	Portions  string    `json:"portions"`
	Time      string    `json:"time"`
	Calories  float64   `json:"calories"`
	Nutrients Nutrients `json:"nutrients"`
}

type TotalNutrition struct {
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fats        float64 `json:"fats"`
	WaterIntake float64 `json:"waterIntake"`
}

type Workout struct {
	Type                 string    `json:"type"`
	Duration             float64   `json:"duration"`
	Intensity            Intensity `json:"intensity"`
	Exercises            []string  `json:"exercises"`
	CaloriesBurned       float64   `json:"caloriesBurned"`
	IntensityScore       float64   `json:"intensityScore"`
	ImpactedMuscleGroups []string  `json:"impactedMuscleGroups"`
}

// Measurements is a body measurement snapshot. Weight is always > 0 in an
// ingested log, the other fields are 0 when not reported.
type Measurements struct {
	Weight float64 `json:"weight"`
	Chest  float64 `json:"chest"`
	Waist  float64 `json:"waist"`
	Hips   float64 `json:"hips"`
	Arms   float64 `json:"arms"`
	Thighs float64 `json:"thighs"`
}

type Sleep struct {
	Hours   float64      `json:"hours"`
	Quality SleepQuality `json:"quality"`
}

// DailyLog is one submitted day. Logs are immutable once appended.
type DailyLog struct {
	Date           time.Time      `json:"date"`
	Meals          []Meal         `json:"meals"`
	TotalNutrition TotalNutrition `json:"totalNutrition"`
	Workout        *Workout       `json:"workout"`
	Measurements   Measurements   `json:"measurements"`
	Mood           Mood           `json:"mood"`
	Sleep          Sleep          `json:"sleep"`
	Notes          string         `json:"notes"`
	CreatedAt      time.Time      `json:"createdAt"`
}

type GoalType string

const (
	GoalWeight      GoalType = "weight"
	GoalWorkout     GoalType = "workout"
	GoalNutrition   GoalType = "nutrition"
	GoalMeasurement GoalType = "measurement"
)

type Goal struct {
	Type         GoalType   `json:"type"`
	Target       any        `json:"target,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	TargetDate   *time.Time `json:"targetDate,omitempty"`
	Progress     float64    `json:"progress"`
	Achieved     bool       `json:"achieved"`
	AchievedDate *time.Time `json:"achievedDate,omitempty"`
}

// Metrics is the progress part of a profile document.
type Metrics struct {
	DailyLogs   []DailyLog    `json:"dailyLogs"`
	WeeklyStats []WeeklyStats `json:"weeklyStats"`
	Goals       []Goal        `json:"goals"`
}

// EnsureInitialized replaces nil collections with empty ones.
func (m *Metrics) EnsureInitialized() {
	if m.DailyLogs == nil {
		m.DailyLogs = []DailyLog{}
	}
	if m.WeeklyStats == nil {
		m.WeeklyStats = []WeeklyStats{}
	}
	if m.Goals == nil {
		m.Goals = []Goal{}
	}
}
