package summary

import (
	"math"
	"sort"

	"github.com/yashbhambure/spark-carbon-log/internal/domain"
)

// weekDays is the number of calendar days in the trailing window.
const weekDays = 7

// CategoryShare is one slice of the weekly category breakdown.
type CategoryShare struct {
	Category      domain.Category
	TotalEmission float64
	Percentage    float64
}

// DayPoint is one bar of the 7-day trend chart.
type DayPoint struct {
	Day      string
	Emission float64
	Date     domain.Date
}

// Weekly is the rollup over the trailing 7 calendar days ending today.
type Weekly struct {
	TotalEmissionKg        float64
	AverageDailyEmissionKg float64
	ActivityCount          int
	CategoryBreakdown      []CategoryShare
	ComparisonToPrevWeek   float64
	DailyData              []DayPoint
}

var weekdayAbbrev = map[int]string{
	0: "Mon", 1: "Tue", 2: "Wed", 3: "Thu", 4: "Fri", 5: "Sat", 6: "Sun",
}

// MondayIndex maps a date's weekday onto the Monday-first convention used by
// the trend chart and the heatmap: 0 = Monday ... 6 = Sunday.
func MondayIndex(d domain.Date) int {
	return (int(d.Weekday()) + 6) % 7
}

// ComputeWeekly builds the weekly rollup from the activity snapshot and the
// archived history. The window is today and the 6 preceding days, inclusive.
//
// The average always divides by 7: a day with no activity still counts. The
// week-over-week delta compares against DailyHistory rows for the 7 days
// immediately preceding the window; when that prior total is 0 the delta is
// reported as 0. That deliberately conflates "no history" with "genuinely
// zero", so a from-zero increase reads as 0% — callers must not present it
// as "no change" for brand-new users.
func ComputeWeekly(activities []domain.Activity, history []domain.DailyHistory, today domain.Date) Weekly {
	windowStart := today.AddDays(-(weekDays - 1))

	var week Weekly
	byDate := make(map[domain.Date]float64)
	byCategory := make(map[domain.Category]float64)
	for _, a := range activities {
		if a.ActivityDate.Before(windowStart) || a.ActivityDate.After(today) {
			continue
		}
		week.TotalEmissionKg += a.EmissionKg
		week.ActivityCount++
		byDate[a.ActivityDate] += a.EmissionKg
		byCategory[a.Category] += a.EmissionKg
	}
	week.AverageDailyEmissionKg = week.TotalEmissionKg / weekDays

	week.CategoryBreakdown = make([]CategoryShare, 0, len(byCategory))
	for category, total := range byCategory {
		share := CategoryShare{Category: category, TotalEmission: total}
		if week.TotalEmissionKg > 0 {
			share.Percentage = total / week.TotalEmissionKg * 100
		}
		week.CategoryBreakdown = append(week.CategoryBreakdown, share)
	}
	sort.Slice(week.CategoryBreakdown, func(i, j int) bool {
		a, b := week.CategoryBreakdown[i], week.CategoryBreakdown[j]
		if a.TotalEmission != b.TotalEmission {
			return a.TotalEmission > b.TotalEmission
		}
		return a.Category < b.Category
	})

	week.DailyData = make([]DayPoint, 0, weekDays)
	for offset := weekDays - 1; offset >= 0; offset-- {
		date := today.AddDays(-offset)
		week.DailyData = append(week.DailyData, DayPoint{
			Day:      weekdayAbbrev[MondayIndex(date)],
			Emission: round1(byDate[date]),
			Date:     date,
		})
	}

	prevStart := windowStart.AddDays(-weekDays)
	prevEnd := windowStart.AddDays(-1)
	var prevTotal float64
	for _, h := range history {
		if h.Date.Before(prevStart) || h.Date.After(prevEnd) {
			continue
		}
		prevTotal += h.TotalEmissionKg
	}
	if prevTotal > 0 {
		week.ComparisonToPrevWeek = (week.TotalEmissionKg - prevTotal) / prevTotal * 100
	}

	return week
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
