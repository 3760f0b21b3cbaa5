// Package postgres provides pgx-backed persistence for activities, archived
// daily rollups, and outbox events.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yashbhambure/spark-carbon-log/internal/domain"
	"github.com/yashbhambure/spark-carbon-log/internal/observability"
	"github.com/yashbhambure/spark-carbon-log/internal/outbox"
)

const activityColumns = `activity_id, user_id, description, category, emission_kg, activity_date, created_at, updated_at`

// Repository provides Postgres-backed persistence for the carbon tracker.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create persists the activity and records its outbox event inside a single
// transaction, so an activity is never visible without its event row.
func (r *Repository) Create(ctx context.Context, activity domain.Activity) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const insertActivity = `INSERT INTO activities (activity_id, user_id, description, category, emission_kg, activity_date, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = tx.Exec(ctx, insertActivity,
		activity.ID,
		activity.UserID,
		activity.Description,
		activity.Category,
		activity.EmissionKg,
		activity.ActivityDate.Time(),
		activity.CreatedAt,
		activity.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, outbox.EventActivityLogged, activity.UserID, outbox.ActivityLogged{
		ActivityID:   activity.ID,
		UserID:       activity.UserID,
		Category:     string(activity.Category),
		EmissionKg:   activity.EmissionKg,
		ActivityDate: activity.ActivityDate.String(),
		LoggedAt:     activity.CreatedAt,
	}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}
	observability.RecordActivityLogged(string(activity.Category), activity.EmissionKg, activity.CreatedAt)
	return nil
}

// Get retrieves one activity scoped to its owner. Returns (nil, nil) when no
// row matches.
func (r *Repository) Get(ctx context.Context, userID, activityID string) (*domain.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE user_id=$1 AND activity_id=$2`, activityColumns)

	row := r.pool.QueryRow(ctx, query, userID, activityID)
	activity, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return activity, nil
}

// ListByUser returns activities ordered newest first with keyset pagination.
func (r *Repository) ListByUser(ctx context.Context, userID string, filter domain.ListFilter, cursor *domain.Cursor, limit int) ([]domain.Activity, *domain.Cursor, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE user_id=$1`, activityColumns)
	args := []interface{}{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(` AND category=$%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND description ILIKE $%d`, len(args))
	}
	if cursor != nil {
		args = append(args, cursor.CreatedAt, cursor.ID)
		query += fmt.Sprintf(` AND (created_at, activity_id) < ($%d, $%d)`, len(args)-1, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC, activity_id DESC LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results, err := collectActivities(rows, limit)
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		nextCursor = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return results, nextCursor, nil
}

// ListByDateRange returns every activity dated within [from, to], inclusive.
func (r *Repository) ListByDateRange(ctx context.Context, userID string, from, to domain.Date) ([]domain.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities
        WHERE user_id=$1 AND activity_date BETWEEN $2 AND $3
        ORDER BY activity_date, created_at`, activityColumns)

	rows, err := r.pool.Query(ctx, query, userID, from.Time(), to.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectActivities(rows, 0)
}

// Update persists a user edit of description and category.
func (r *Repository) Update(ctx context.Context, activity domain.Activity) error {
	const stmt = `UPDATE activities SET description=$3, category=$4, updated_at=$5
        WHERE user_id=$1 AND activity_id=$2`

	tag, err := r.pool.Exec(ctx, stmt, activity.UserID, activity.ID, activity.Description, activity.Category, activity.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

// Delete removes the activity and records its deletion event in one
// transaction.
func (r *Repository) Delete(ctx context.Context, userID, activityID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM activities WHERE user_id=$1 AND activity_id=$2`, userID, activityID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		err = domain.ErrActivityNotFound
		return err
	}

	if err = insertOutbox(ctx, tx, outbox.EventActivityDeleted, userID, outbox.ActivityDeleted{
		ActivityID: activityID,
		UserID:     userID,
		DeletedAt:  time.Now().UTC(),
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// HistoryByDateRange returns archived rollups dated within [from, to].
func (r *Repository) HistoryByDateRange(ctx context.Context, userID string, from, to domain.Date) ([]domain.DailyHistory, error) {
	const query = `SELECT user_id, date, total_emission_kg, activity_count, archived_at
        FROM daily_history
        WHERE user_id=$1 AND date BETWEEN $2 AND $3
        ORDER BY date`

	rows, err := r.pool.Query(ctx, query, userID, from.Time(), to.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.DailyHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, h)
	}
	return results, rows.Err()
}

// DayTotals computes per-user emission totals for one calendar date across
// all users, feeding the archiver.
func (r *Repository) DayTotals(ctx context.Context, date domain.Date) ([]domain.DailyHistory, error) {
	const query = `SELECT user_id, SUM(emission_kg), COUNT(*)
        FROM activities
        WHERE activity_date=$1
        GROUP BY user_id
        ORDER BY user_id`

	rows, err := r.pool.Query(ctx, query, date.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.DailyHistory
	for rows.Next() {
		h := domain.DailyHistory{Date: date}
		if err := rows.Scan(&h.UserID, &h.TotalEmissionKg, &h.ActivityCount); err != nil {
			return nil, err
		}
		totals = append(totals, h)
	}
	return totals, rows.Err()
}

// UpsertHistory writes one rollup row, overwriting any prior row for the
// same (user_id, date). Re-running the archiver never double-counts.
func (r *Repository) UpsertHistory(ctx context.Context, history domain.DailyHistory) error {
	const stmt = `INSERT INTO daily_history (user_id, date, total_emission_kg, activity_count, archived_at)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (user_id, date) DO UPDATE
        SET total_emission_kg=EXCLUDED.total_emission_kg,
            activity_count=EXCLUDED.activity_count,
            archived_at=EXCLUDED.archived_at`

	_, err := r.pool.Exec(ctx, stmt, history.UserID, history.Date.Time(), history.TotalEmissionKg, history.ActivityCount, history.ArchivedAt)
	return err
}

func insertOutbox(ctx context.Context, tx pgx.Tx, eventType, partitionKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	const stmt = `INSERT INTO outbox (event_type, topic, partition_key, payload)
        VALUES ($1,$2,$3,$4)`

	_, err = tx.Exec(ctx, stmt, eventType, outbox.TopicActivityEvents, partitionKey, body)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var (
		a    domain.Activity
		date time.Time
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.Description, &a.Category, &a.EmissionKg, &date, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.ActivityDate = domain.DateOf(date)
	return &a, nil
}

func scanHistory(row rowScanner) (domain.DailyHistory, error) {
	var (
		h    domain.DailyHistory
		date time.Time
	)
	if err := row.Scan(&h.UserID, &date, &h.TotalEmissionKg, &h.ActivityCount, &h.ArchivedAt); err != nil {
		return domain.DailyHistory{}, err
	}
	h.Date = domain.DateOf(date)
	return h, nil
}

func collectActivities(rows pgx.Rows, capacityHint int) ([]domain.Activity, error) {
	results := make([]domain.Activity, 0, capacityHint)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *activity)
	}
	return results, rows.Err()
}
