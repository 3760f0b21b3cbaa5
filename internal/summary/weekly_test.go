package summary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yashbhambure/spark-carbon-log/internal/domain"
)

// 2026-08-31 is a Monday.
var monday = date("2026-08-31")

func TestComputeWeeklyTotalsAndAverage(t *testing.T) {
	activities := []domain.Activity{
		activity("2026-08-31", domain.CategoryTransport, 3.0),
		activity("2026-08-29", domain.CategoryTransport, 2.0),
		activity("2026-08-27", domain.CategoryFood, 6.9),
		activity("2026-08-25", domain.CategoryEnergy, 1.1),
		// Outside the trailing 7 days, must be ignored.
		activity("2026-08-24", domain.CategoryShopping, 50),
	}

	week := ComputeWeekly(activities, nil, monday)

	require.InDelta(t, 13.0, week.TotalEmissionKg, 1e-9)
	require.Equal(t, 4, week.ActivityCount)
	require.InDelta(t, 13.0/7, week.AverageDailyEmissionKg, 1e-12)
}

func TestComputeWeeklyAverageAlwaysDividesBySeven(t *testing.T) {
	week := ComputeWeekly(nil, nil, monday)
	require.Zero(t, week.TotalEmissionKg)
	require.Zero(t, week.AverageDailyEmissionKg)

	single := ComputeWeekly([]domain.Activity{
		activity("2026-08-31", domain.CategoryFood, 7),
	}, nil, monday)
	require.InDelta(t, 1.0, single.AverageDailyEmissionKg, 1e-12)
}

func TestComputeWeeklyCategoryBreakdown(t *testing.T) {
	activities := []domain.Activity{
		activity("2026-08-31", domain.CategoryTransport, 6),
		activity("2026-08-30", domain.CategoryTransport, 4),
		activity("2026-08-29", domain.CategoryFood, 8),
		activity("2026-08-28", domain.CategoryEnergy, 2),
	}

	week := ComputeWeekly(activities, nil, monday)

	require.Len(t, week.CategoryBreakdown, 3)

	// Sorted descending by total.
	require.Equal(t, domain.CategoryTransport, week.CategoryBreakdown[0].Category)
	require.InDelta(t, 10.0, week.CategoryBreakdown[0].TotalEmission, 1e-9)
	require.Equal(t, domain.CategoryFood, week.CategoryBreakdown[1].Category)
	require.Equal(t, domain.CategoryEnergy, week.CategoryBreakdown[2].Category)

	// Breakdown totals reconcile with the weekly total.
	var breakdownTotal, percentageTotal float64
	for _, share := range week.CategoryBreakdown {
		breakdownTotal += share.TotalEmission
		percentageTotal += share.Percentage
	}
	require.InDelta(t, week.TotalEmissionKg, breakdownTotal, 1e-9)
	require.InDelta(t, 100.0, percentageTotal, 1e-9)
}

func TestComputeWeeklyOmitsEmptyCategories(t *testing.T) {
	week := ComputeWeekly([]domain.Activity{
		activity("2026-08-31", domain.CategoryFood, 4),
	}, nil, monday)

	require.Len(t, week.CategoryBreakdown, 1)
	require.Equal(t, domain.CategoryFood, week.CategoryBreakdown[0].Category)
}

func TestComputeWeeklyZeroTotalHasZeroPercentages(t *testing.T) {
	week := ComputeWeekly([]domain.Activity{
		activity("2026-08-31", domain.CategoryTransport, 0), // a walk
	}, nil, monday)

	require.InDelta(t, 0, week.TotalEmissionKg, 1e-9)
	require.Len(t, week.CategoryBreakdown, 1)
	require.Zero(t, week.CategoryBreakdown[0].Percentage)
}

func TestComputeWeeklyDailySeries(t *testing.T) {
	activities := []domain.Activity{
		activity("2026-08-31", domain.CategoryTransport, 3.25),
		activity("2026-08-26", domain.CategoryFood, 4),
	}

	week := ComputeWeekly(activities, nil, monday)

	require.Len(t, week.DailyData, 7)

	// Oldest first: the window runs Tue 25th through Mon 31st.
	require.Equal(t, date("2026-08-25"), week.DailyData[0].Date)
	require.Equal(t, "Tue", week.DailyData[0].Day)
	require.Equal(t, date("2026-08-31"), week.DailyData[6].Date)
	require.Equal(t, "Mon", week.DailyData[6].Day)

	// Per-day emissions rounded to one decimal.
	require.InDelta(t, 3.3, week.DailyData[6].Emission, 1e-9)
	require.InDelta(t, 4.0, week.DailyData[1].Emission, 1e-9)
	require.Zero(t, week.DailyData[2].Emission)
}

func history(userDate string, kg float64) domain.DailyHistory {
	return domain.DailyHistory{UserID: "user-1", Date: date(userDate), TotalEmissionKg: kg}
}

func TestComputeWeeklyComparisonToPrevWeek(t *testing.T) {
	activities := []domain.Activity{
		activity("2026-08-31", domain.CategoryTransport, 30),
	}
	prev := []domain.DailyHistory{
		history("2026-08-24", 10), // last day of the previous window
		history("2026-08-18", 10), // first day of the previous window
		history("2026-08-17", 99), // older, excluded
		history("2026-08-25", 99), // inside the current window, excluded
	}

	week := ComputeWeekly(activities, prev, monday)

	// (30 - 20) / 20 = +50%
	require.InDelta(t, 50.0, week.ComparisonToPrevWeek, 1e-9)
}

func TestComputeWeeklyComparisonZeroHistoryPolicy(t *testing.T) {
	week := ComputeWeekly([]domain.Activity{
		activity("2026-08-31", domain.CategoryTransport, 30),
	}, nil, monday)

	// No history reads as 0, not +inf: the documented zero-history policy.
	require.Zero(t, week.ComparisonToPrevWeek)
}

func TestComputeWeeklyIsIdempotent(t *testing.T) {
	activities := []domain.Activity{
		activity("2026-08-31", domain.CategoryTransport, 3),
		activity("2026-08-30", domain.CategoryFood, 6.9),
		activity("2026-08-28", domain.CategoryEnergy, 1.5),
	}
	prev := []domain.DailyHistory{history("2026-08-20", 12)}

	first := ComputeWeekly(activities, prev, monday)
	second := ComputeWeekly(activities, prev, monday)
	require.Equal(t, first, second)
}

func TestComputeWeeklyBreakdownTieBreakIsStable(t *testing.T) {
	activities := []domain.Activity{
		activity("2026-08-31", domain.CategoryFood, 5),
		activity("2026-08-31", domain.CategoryEnergy, 5),
	}

	week := ComputeWeekly(activities, nil, monday)
	require.Equal(t, domain.CategoryEnergy, week.CategoryBreakdown[0].Category)
	require.Equal(t, domain.CategoryFood, week.CategoryBreakdown[1].Category)
}
