//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/yashbhambure/spark-carbon-log/internal/domain"
)

func TestRepositoryRoundTrips(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("carbon"),
		postgrescontainer.WithUsername("tracker"),
		postgrescontainer.WithPassword("tracker"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)

	userID := uuid.NewString()
	date, err := domain.ParseDate("2026-08-30")
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	activity := domain.Activity{
		ID:           uuid.NewString(),
		UserID:       userID,
		Description:  "Drove 15km to college in petrol car",
		Category:     domain.CategoryTransport,
		EmissionKg:   3.15,
		ActivityDate: date,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(ctx, activity))

	stored, err := repo.Get(ctx, userID, activity.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, activity.Description, stored.Description)
	require.Equal(t, date, stored.ActivityDate)

	// Rows are invisible to other users.
	other, err := repo.Get(ctx, uuid.NewString(), activity.ID)
	require.NoError(t, err)
	require.Nil(t, other)

	// The write must queue exactly one outbox event.
	var pending int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM outbox WHERE partition_key=$1 AND published_at IS NULL`, userID).Scan(&pending))
	require.Equal(t, 1, pending)

	ranged, err := repo.ListByDateRange(ctx, userID, date.AddDays(-6), date)
	require.NoError(t, err)
	require.Len(t, ranged, 1)

	activity.Description = "Drove 20km instead"
	activity.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, activity))

	stored, err = repo.Get(ctx, userID, activity.ID)
	require.NoError(t, err)
	require.Equal(t, "Drove 20km instead", stored.Description)

	require.NoError(t, repo.Delete(ctx, userID, activity.ID))
	stored, err = repo.Get(ctx, userID, activity.ID)
	require.NoError(t, err)
	require.Nil(t, stored)
	require.ErrorIs(t, repo.Delete(ctx, userID, activity.ID), domain.ErrActivityNotFound)
}

func TestListByUserPaginates(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("carbon"),
		postgrescontainer.WithUsername("tracker"),
		postgrescontainer.WithPassword("tracker"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)

	userID := uuid.NewString()
	date, err := domain.ParseDate("2026-08-30")
	require.NoError(t, err)

	base := time.Now().UTC().Truncate(time.Microsecond)
	categories := []domain.Category{
		domain.CategoryTransport,
		domain.CategoryFood,
		domain.CategoryEnergy,
	}
	for i, category := range categories {
		created := base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, domain.Activity{
			ID:           uuid.NewString(),
			UserID:       userID,
			Description:  string(category) + " entry",
			Category:     category,
			EmissionKg:   float64(i + 1),
			ActivityDate: date,
			CreatedAt:    created,
			UpdatedAt:    created,
		}))
	}

	page1, cursor, err := repo.ListByUser(ctx, userID, domain.ListFilter{}, nil, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, cursor)
	require.Equal(t, domain.CategoryEnergy, page1[0].Category)

	page2, _, err := repo.ListByUser(ctx, userID, domain.ListFilter{}, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	require.Equal(t, domain.CategoryTransport, page2[0].Category)

	filtered, _, err := repo.ListByUser(ctx, userID, domain.ListFilter{Category: domain.CategoryFood}, nil, 10)
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	searched, _, err := repo.ListByUser(ctx, userID, domain.ListFilter{Search: "ENERGY"}, nil, 10)
	require.NoError(t, err)
	require.Len(t, searched, 1)
}

func TestDayTotalsAndHistoryUpsert(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("carbon"),
		postgrescontainer.WithUsername("tracker"),
		postgrescontainer.WithPassword("tracker"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)

	userID := uuid.NewString()
	date, err := domain.ParseDate("2026-08-30")
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	for i, emission := range []float64{3.15, 6.9} {
		created := now.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, domain.Activity{
			ID:           uuid.NewString(),
			UserID:       userID,
			Description:  "entry",
			Category:     domain.CategoryOther,
			EmissionKg:   emission,
			ActivityDate: date,
			CreatedAt:    created,
			UpdatedAt:    created,
		}))
	}

	totals, err := repo.DayTotals(ctx, date)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	require.Equal(t, userID, totals[0].UserID)
	require.InDelta(t, 10.05, totals[0].TotalEmissionKg, 1e-6)
	require.Equal(t, 2, totals[0].ActivityCount)

	rollup := totals[0]
	rollup.ArchivedAt = now
	require.NoError(t, repo.UpsertHistory(ctx, rollup))

	// Re-running the upsert overwrites instead of double-counting.
	rollup.TotalEmissionKg = 12.0
	require.NoError(t, repo.UpsertHistory(ctx, rollup))

	history, err := repo.HistoryByDateRange(ctx, userID, date, date)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.InDelta(t, 12.0, history[0].TotalEmissionKg, 1e-6)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
