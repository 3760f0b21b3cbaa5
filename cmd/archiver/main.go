// The archiver rolls yesterday's activities into daily_history. It is meant
// to be invoked once a day by cron or a container scheduler; re-running for
// the same date is safe because rollups are upserted.
package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yashbhambure/spark-carbon-log/internal/archive"
	"github.com/yashbhambure/spark-carbon-log/internal/config"
	"github.com/yashbhambure/spark-carbon-log/internal/domain"
	"github.com/yashbhambure/spark-carbon-log/internal/logging"
	persistence "github.com/yashbhambure/spark-carbon-log/internal/persistence/postgres"
)

func main() {
	cfg := config.Load()
	log := logging.New("carbon-archiver")

	target := domain.DateOf(time.Now().UTC()).AddDays(-1)
	if cfg.ArchiveDate != "" {
		parsed, err := domain.ParseDate(cfg.ArchiveDate)
		if err != nil {
			log.Fatal().Err(err).Str("archive_date", cfg.ArchiveDate).Msg("invalid ARCHIVE_DATE")
		}
		target = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	repo := persistence.NewRepository(pool)
	archiver := archive.New(repo, log)

	result, err := archiver.Run(ctx, target)
	if err != nil {
		log.Fatal().Err(err).Str("date", target.String()).Msg("archive run failed")
	}
	log.Info().Str("date", result.Date.String()).Int("users", result.UsersArchived).Msg("archiver done")
}
