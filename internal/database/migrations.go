package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Migrations returns the schema statements in the order they are applied.
// Every statement is idempotent.
func Migrations() []string {
	return []string{
		migrationCreateExtensions,
		migrationCreateReportSnapshots,
		migrationCreateIndexes,
	}
}

func RunMigrations(ctx context.Context, db Execer) error {
	log := zerolog.Ctx(ctx)
	log.Info().Msg("running database migrations")

	for i, migration := range Migrations() {
		if _, err := db.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info().Int("count", len(Migrations())).Msg("migrations completed")
	return nil
}

const migrationCreateExtensions = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";
`

const migrationCreateReportSnapshots = `
CREATE TABLE IF NOT EXISTS report_snapshots (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    report VARCHAR(64) NOT NULL,
    start_date TIMESTAMP WITH TIME ZONE NOT NULL,
    end_date TIMESTAMP WITH TIME ZONE NOT NULL,
    payload JSONB NOT NULL,
    fetched_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// индекс под List: последние снапшоты отчета
const migrationCreateIndexes = `
CREATE INDEX IF NOT EXISTS idx_report_snapshots_report_fetched
    ON report_snapshots(report, fetched_at DESC);
`
