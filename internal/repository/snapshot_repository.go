package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alligatorO15/finboard/internal/report"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

// SnapshotRepository stores successful report payloads. It satisfies both
// report.Sink and report.History.
type SnapshotRepository interface {
	Record(ctx context.Context, snap report.Snapshot) error
	List(ctx context.Context, reportName string, limit int) ([]report.Snapshot, error)
}

type snapshotRepository struct {
	db        DBTX
	txManager TxManager
	retention int
}

// NewSnapshotRepository keeps at most retention snapshots per report;
// retention <= 0 keeps everything.
func NewSnapshotRepository(db DBTX, txManager TxManager, retention int) SnapshotRepository {
	return &snapshotRepository{db: db, txManager: txManager, retention: retention}
}

func (r *snapshotRepository) Record(ctx context.Context, snap report.Snapshot) error {
	if snap.Report == "" {
		return fmt.Errorf("snapshot report name is required")
	}
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}

	return r.txManager.WithTx(ctx, func(ctx context.Context) error {
		db := GetTxOrPool(ctx, r.db)

		query := `
			INSERT INTO report_snapshots (id, report, start_date, end_date, payload, fetched_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := db.Exec(ctx, query,
			snap.ID,
			snap.Report,
			snap.Start,
			snap.End,
			[]byte(snap.Payload),
			snap.FetchedAt,
		); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}

		if r.retention <= 0 {
			return nil
		}

		// чистим старые снапшоты в той же транзакции

		prune := `
			DELETE FROM report_snapshots
			WHERE report = $1 AND id NOT IN (
				SELECT id FROM report_snapshots
				WHERE report = $1
				ORDER BY fetched_at DESC, id DESC
				LIMIT $2
			)
		`
		if _, err := db.Exec(ctx, prune, snap.Report, r.retention); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
		return nil
	})
}

func (r *snapshotRepository) List(ctx context.Context, reportName string, limit int) ([]report.Snapshot, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := `
		SELECT id, report, start_date, end_date, payload, fetched_at
		FROM report_snapshots
		WHERE report = $1
		ORDER BY fetched_at DESC, id DESC
		LIMIT $2
	`

	rows, err := GetTxOrPool(ctx, r.db).Query(ctx, query, reportName, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]report.Snapshot, 0)
	for rows.Next() {
		var s report.Snapshot
		var payload []byte
		if err := rows.Scan(&s.ID, &s.Report, &s.Start, &s.End, &payload, &s.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.Payload = payload
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snapshots, nil
}
