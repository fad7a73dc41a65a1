package progress

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/fitcoach/internal/apperr"
)

type Timeframe string

const (
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"

	weeklyWindow = 4
)

func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(s); tf {
	case Weekly, Monthly:
		return tf, nil
	default:
		return "", apperr.NewValidationError("timeframe", fmt.Sprintf("unknown timeframe %q, use weekly or monthly", s))
	}
}

// Period is one entry of a progress report series.
type Period interface {
	workouts() int
	weight() float64
}

func (w WeeklyStats) workouts() int { return w.WorkoutsCompleted }
func (w WeeklyStats) weight() float64 { return w.WeightLog }

// MonthlyProgress is derived on read from the weekly buckets created in a calendar month.
type MonthlyProgress struct {
	Month           string       `json:"month"`
	TotalWorkouts   int          `json:"totalWorkouts"`
	TotalCalories   float64      `json:"totalCalories"`
	WeightSum       float64      `json:"weightSum"`
	WeightCount     int          `json:"weightCount"`
	AverageWeight   float64      `json:"averageWeight"`
	AverageCalories float64      `json:"averageCalories"`
	Measurements    Measurements `json:"measurements"`
	CreatedAt       time.Time    `json:"createdAt"`
}

func (m MonthlyProgress) workouts() int { return m.TotalWorkouts }
func (m MonthlyProgress) weight() float64 { return m.AverageWeight }

type Summary struct {
	TotalWorkouts int     `json:"totalWorkouts"`
	WeightChange  float64 `json:"weightChange"`
	Consistency   int     `json:"consistency"`
	AchievedGoals []Goal  `json:"achievedGoals"`
}

type Report struct {
	Timeframe Timeframe `json:"timeframe"`
	Metrics   []Period  `json:"metrics"`
	Summary   Summary   `json:"summary"`
}

// Aggregate builds the read-only report for the timeframe. m may be nil.
func Aggregate(m *Metrics, tf Timeframe) Report {
	if m == nil {
		m = &Metrics{}
	}

	var periods []Period
	switch tf {
	case Monthly:
		for _, month := range MonthlySeries(m.WeeklyStats) {
			periods = append(periods, month)
		}
	default:
		for _, week := range WeeklySeries(m.WeeklyStats) {
			periods = append(periods, week)
		}
	}
	if periods == nil {
		periods = []Period{}
	}

	return Report{
		Timeframe: tf,
		Metrics:   periods,
		Summary:   summarize(periods, m.Goals),
	}
}

// WeeklySeries returns the 4 most recently created buckets, newest first.
func WeeklySeries(stats []WeeklyStats) []WeeklyStats {
	sorted := make([]WeeklyStats, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > weeklyWindow {
		sorted = sorted[:weeklyWindow]
	}
	return sorted
}

// MonthlySeries groups buckets by the UTC calendar month of their creation
// time, newest month first. Averages divide by the number of weight samples,
// which is the number of buckets in the month.
func MonthlySeries(stats []WeeklyStats) []MonthlyProgress {
	var months []MonthlyProgress
	index := map[string]int{}
	for _, week := range stats {
		key := week.CreatedAt.UTC().Format("2006-01")
		i, ok := index[key]
		if !ok {
			months = append(months, MonthlyProgress{
				Month:        key,
				Measurements: week.Measurements,
				CreatedAt:    week.CreatedAt,
			})
			i = len(months) - 1
			index[key] = i
		}
		months[i].TotalWorkouts += week.WorkoutsCompleted
		months[i].TotalCalories += week.CaloriesConsumed
		months[i].WeightSum += week.WeightLog
		months[i].WeightCount++
	}

	for i := range months {
		months[i].AverageWeight = months[i].WeightSum / float64(months[i].WeightCount)
		months[i].AverageCalories = months[i].TotalCalories / float64(months[i].WeightCount)
	}
	sort.SliceStable(months, func(i, j int) bool {
		return months[i].CreatedAt.After(months[j].CreatedAt)
	})
	return months
}

// summarize expects periods sorted newest first.
func summarize(periods []Period, goals []Goal) Summary {
	s := Summary{AchievedGoals: []Goal{}}
	withWorkouts := 0
	for _, p := range periods {
		s.TotalWorkouts += p.workouts()
		if p.workouts() > 0 {
			withWorkouts++
		}
	}

	if len(periods) >= 2 {
		s.WeightChange = round2(periods[0].weight() - periods[len(periods)-1].weight())
	}
	if len(periods) > 0 {
		s.Consistency = int(math.Round(100 * float64(withWorkouts) / float64(len(periods))))
	}

	for _, g := range goals {
		if g.Achieved {
			s.AchievedGoals = append(s.AchievedGoals, g)
		}
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
