package summary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yashbhambure/spark-carbon-log/internal/domain"
)

func TestComputeHeatmapAlwaysHas84Cells(t *testing.T) {
	cells := ComputeHeatmap(nil, nil, monday)

	require.Len(t, cells, 84)
	for _, cell := range cells {
		require.Zero(t, cell.Value)
		require.GreaterOrEqual(t, cell.Week, 0)
		require.Less(t, cell.Week, 12)
		require.GreaterOrEqual(t, cell.Day, 0)
		require.Less(t, cell.Day, 7)
	}
}

func TestComputeHeatmapGridIndexing(t *testing.T) {
	cells := ComputeHeatmap(nil, nil, monday)

	// Oldest cell first: 83 days before Mon 2026-08-31.
	require.Equal(t, date("2026-06-09"), cells[0].Date)
	require.Equal(t, 0, cells[0].Week)

	// Newest cell is today in the current week, Monday-first convention.
	last := cells[83]
	require.Equal(t, monday, last.Date)
	require.Equal(t, 11, last.Week)
	require.Equal(t, 0, last.Day)

	// Every (week, day) pair appears exactly once.
	seen := make(map[[2]int]bool, 84)
	for _, cell := range cells {
		key := [2]int{cell.Week, cell.Day}
		require.False(t, seen[key], "duplicate cell %v", key)
		seen[key] = true
	}
}

func TestComputeHeatmapPrefersActivitiesOverHistory(t *testing.T) {
	activities := []domain.Activity{
		activity("2026-08-31", domain.CategoryTransport, 2.04),
		activity("2026-08-31", domain.CategoryFood, 1.0),
	}
	history := []domain.DailyHistory{
		history("2026-08-31", 99), // stale rollup, activities win
		history("2026-07-01", 7.25),
	}

	cells := ComputeHeatmap(activities, history, monday)

	byDate := make(map[domain.Date]HeatmapCell)
	for _, cell := range cells {
		byDate[cell.Date] = cell
	}

	require.InDelta(t, 3.0, byDate[date("2026-08-31")].Value, 1e-9)
	require.InDelta(t, 7.3, byDate[date("2026-07-01")].Value, 1e-9)
	require.Zero(t, byDate[date("2026-08-30")].Value)
}

func TestComputeHeatmapIsIdempotent(t *testing.T) {
	activities := []domain.Activity{
		activity("2026-08-31", domain.CategoryTransport, 3),
		activity("2026-07-15", domain.CategoryFood, 6.9),
	}
	hist := []domain.DailyHistory{history("2026-06-20", 4.2)}

	require.Equal(t, ComputeHeatmap(activities, hist, monday), ComputeHeatmap(activities, hist, monday))
}
