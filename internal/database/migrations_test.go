package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecer struct {
	statements []string
	failAt     int
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...interface{}) (pgconn.CommandTag, error) {
	r.statements = append(r.statements, sql)
	if r.failAt > 0 && len(r.statements) == r.failAt {
		return pgconn.CommandTag{}, errors.New("syntax error")
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func TestRunMigrations(t *testing.T) {
	db := &recordingExecer{}

	require.NoError(t, RunMigrations(context.Background(), db))

	assert.Equal(t, Migrations(), db.statements)
	for _, stmt := range db.statements {
		assert.Contains(t, stmt, "IF NOT EXISTS")
	}
	assert.True(t, strings.Contains(db.statements[1], "report_snapshots"))
}

func TestRunMigrations_StopsOnFailure(t *testing.T) {
	db := &recordingExecer{failAt: 2}

	err := RunMigrations(context.Background(), db)

	assert.ErrorContains(t, err, "migration 2 failed")
	assert.Len(t, db.statements, 2)
}
