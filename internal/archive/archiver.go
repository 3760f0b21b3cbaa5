// Package archive rolls fine-grained activities up into daily_history rows.
// The job runs once per day (cron-invoked) with a lag of one day: today's
// activities are archived tomorrow, after the day is complete.
package archive

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yashbhambure/spark-carbon-log/internal/domain"
)

// Store captures the persistence operations the archiver needs.
type Store interface {
	DayTotals(ctx context.Context, date domain.Date) ([]domain.DailyHistory, error)
	UpsertHistory(ctx context.Context, history domain.DailyHistory) error
}

// Result reports what a run accomplished.
type Result struct {
	Date          domain.Date
	UsersArchived int
}

// Archiver computes and upserts per-user rollups for one calendar date.
type Archiver struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

// New constructs an Archiver.
func New(store Store, log zerolog.Logger) *Archiver {
	return &Archiver{
		store: store,
		log:   log.With().Str("component", "archiver").Logger(),
		now:   time.Now,
	}
}

// Run archives the given date. Upserts are keyed on (user_id, date), so
// re-running the same date overwrites the earlier rollup instead of
// double-counting it.
func (a *Archiver) Run(ctx context.Context, date domain.Date) (Result, error) {
	a.log.Info().Str("date", date.String()).Msg("archiving daily activity")

	totals, err := a.store.DayTotals(ctx, date)
	if err != nil {
		return Result{}, err
	}

	archivedAt := a.now().UTC()
	for _, rollup := range totals {
		rollup.ArchivedAt = archivedAt
		if err := a.store.UpsertHistory(ctx, rollup); err != nil {
			return Result{}, err
		}
		rowsArchived.Inc()
		a.log.Debug().
			Str("user_id", rollup.UserID).
			Float64("total_emission_kg", rollup.TotalEmissionKg).
			Int("activity_count", rollup.ActivityCount).
			Msg("rollup upserted")
	}

	runsCompleted.Inc()
	a.log.Info().Str("date", date.String()).Int("users", len(totals)).Msg("archive run complete")
	return Result{Date: date, UsersArchived: len(totals)}, nil
}
