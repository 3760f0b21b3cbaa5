package summary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yashbhambure/spark-carbon-log/internal/domain"
)

func date(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func activity(userDate string, category domain.Category, kg float64) domain.Activity {
	return domain.Activity{
		UserID:       "user-1",
		Category:     category,
		EmissionKg:   kg,
		ActivityDate: date(userDate),
	}
}

func TestComputeDailyFiltersOnDate(t *testing.T) {
	today := date("2026-08-31")
	activities := []domain.Activity{
		activity("2026-08-31", domain.CategoryTransport, 3.2),
		activity("2026-08-31", domain.CategoryFood, 6.9),
		activity("2026-08-30", domain.CategoryEnergy, 2.0),
	}

	daily := ComputeDaily(activities, today)

	require.Equal(t, today, daily.Date)
	require.InDelta(t, 10.1, daily.TotalEmission, 1e-9)
	require.Equal(t, 2, daily.ActivityCount)
	require.Len(t, daily.Activities, 2)
}

func TestComputeDailyEmptyIsZeroState(t *testing.T) {
	daily := ComputeDaily(nil, date("2026-08-31"))

	require.Zero(t, daily.TotalEmission)
	require.Zero(t, daily.ActivityCount)
	require.NotNil(t, daily.Activities)
	require.Empty(t, daily.Activities)
}

func TestScoreLevels(t *testing.T) {
	require.Equal(t, ScoreExcellent, Score(0))
	require.Equal(t, ScoreExcellent, Score(3.9))
	require.Equal(t, ScoreGood, Score(4))
	require.Equal(t, ScoreAverage, Score(6))
	require.Equal(t, ScoreHigh, Score(8))
	require.Equal(t, ScoreHigh, Score(42))
}
