package summary

import "github.com/yashbhambure/spark-carbon-log/internal/domain"

const (
	heatmapWeeks = 12
	heatmapCells = heatmapWeeks * weekDays
)

// HeatmapCell is one square of the 12-week calendar grid. Week 0 is the
// oldest week, week 11 the current one; Day follows the Monday-first
// convention shared with the weekly trend chart.
type HeatmapCell struct {
	Week  int
	Day   int
	Value float64
	Date  domain.Date
}

// ComputeHeatmap builds the fixed 84-cell grid covering today and the 83
// preceding days. Each cell's value is the emission total for its date,
// preferring fine-grained activities (the recent window) over archived
// history, and 0 when neither has data. Cells are always emitted; sparse
// data never shrinks the grid.
func ComputeHeatmap(activities []domain.Activity, history []domain.DailyHistory, today domain.Date) []HeatmapCell {
	activityTotals := make(map[domain.Date]float64)
	for _, a := range activities {
		activityTotals[a.ActivityDate] += a.EmissionKg
	}
	historyTotals := make(map[domain.Date]float64, len(history))
	for _, h := range history {
		historyTotals[h.Date] += h.TotalEmissionKg
	}

	cells := make([]HeatmapCell, 0, heatmapCells)
	for i := 0; i < heatmapCells; i++ {
		date := today.AddDays(i - (heatmapCells - 1))
		value, ok := activityTotals[date]
		if !ok {
			value = historyTotals[date]
		}
		cells = append(cells, HeatmapCell{
			Week:  i / weekDays,
			Day:   MondayIndex(date),
			Value: round1(value),
			Date:  date,
		})
	}
	return cells
}
