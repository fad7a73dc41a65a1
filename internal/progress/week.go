package progress

import (
	"fmt"
	"time"
)

// WeeklyStats is the rolling aggregate of all daily logs falling into one week key.
type WeeklyStats struct {
	Week                 string       `json:"week"`
	WeightLog            float64      `json:"weightLog"`
	CaloriesConsumed     float64      `json:"caloriesConsumed"`
	CaloriesBurned       float64      `json:"caloriesBurned"`
	WorkoutsCompleted    int          `json:"workoutsCompleted"`
	TotalWorkoutDuration float64      `json:"totalWorkoutDuration"`
	WaterIntake          float64      `json:"waterIntake"`
	SleepHours           float64      `json:"sleepHours"`
	Measurements         Measurements `json:"measurements"`
	CreatedAt            time.Time    `json:"createdAt"`
}

// WeekKey derives the bucket key of a date: the year of the Sunday starting
// the week, then the ceiling of that Sunday's day-of-month divided by 7.
// This is not ISO-8601 week numbering: 2024-01-07 is "2024-W01" and the
// week starting 2023-12-31 is "2023-W05".
func WeekKey(date time.Time) string {
	date = date.UTC()
	weekStart := date.AddDate(0, 0, -int(date.Weekday()))
	return fmt.Sprintf("%d-W%02d", weekStart.Year(), (weekStart.Day()+6)/7)
}

// Ingest appends the log and folds it into its week bucket, creating the
// bucket on first use. It returns a copy of the updated bucket.
func Ingest(m *Metrics, log DailyLog) WeeklyStats {
	m.EnsureInitialized()
	m.DailyLogs = append(m.DailyLogs, log)

	key := WeekKey(log.Date)
	idx := -1
	for i := range m.WeeklyStats {
		if m.WeeklyStats[i].Week == key {
			idx = i
			break
		}
	}
	if idx == -1 {
		m.WeeklyStats = append(m.WeeklyStats, WeeklyStats{
			Week:         key,
			WeightLog:    log.Measurements.Weight,
			Measurements: log.Measurements,
			CreatedAt:    log.CreatedAt,
		})
		idx = len(m.WeeklyStats) - 1
	}

	bucket := &m.WeeklyStats[idx]
	bucket.CaloriesConsumed += log.TotalNutrition.Calories
	if log.Workout != nil {
		bucket.CaloriesBurned += log.Workout.CaloriesBurned
		bucket.WorkoutsCompleted++
		bucket.TotalWorkoutDuration += log.Workout.Duration
	}
	bucket.WaterIntake += log.TotalNutrition.WaterIntake
	// smoothed, not a mean over the week's logs
	bucket.SleepHours = (bucket.SleepHours + log.Sleep.Hours) / 2
	bucket.Measurements = log.Measurements
	bucket.WeightLog = log.Measurements.Weight

	return *bucket
}
