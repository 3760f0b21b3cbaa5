// Package summary computes the derived read models behind every dashboard
// view: daily totals, the weekly rollup, and the 12-week heatmap grid. All
// functions are pure: they take an immutable snapshot of activities (and
// archived history) plus an explicit "today" and return freshly built values,
// so rerunning them on unchanged input yields identical output.
package summary

import "github.com/yashbhambure/spark-carbon-log/internal/domain"

// Daily is the per-date rollup of a user's activities.
type Daily struct {
	Date          domain.Date
	TotalEmission float64
	ActivityCount int
	Activities    []domain.Activity
}

// ComputeDaily filters the snapshot down to activities dated today and sums
// their emissions. An empty day is a valid zero-state, not an error.
func ComputeDaily(activities []domain.Activity, today domain.Date) Daily {
	day := Daily{Date: today, Activities: []domain.Activity{}}
	for _, a := range activities {
		if a.ActivityDate != today {
			continue
		}
		day.Activities = append(day.Activities, a)
		day.TotalEmission += a.EmissionKg
		day.ActivityCount++
	}
	return day
}

// ScoreLevel buckets a daily total into the dashboard's qualitative label.
type ScoreLevel string

const (
	ScoreExcellent ScoreLevel = "excellent"
	ScoreGood      ScoreLevel = "good"
	ScoreAverage   ScoreLevel = "average"
	ScoreHigh      ScoreLevel = "high"
)

// Score maps a daily emission total to its level.
func Score(totalEmissionKg float64) ScoreLevel {
	switch {
	case totalEmissionKg < 4:
		return ScoreExcellent
	case totalEmissionKg < 6:
		return ScoreGood
	case totalEmissionKg < 8:
		return ScoreAverage
	default:
		return ScoreHigh
	}
}
