package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TxManager runs repository calls inside a single transaction.
type TxManager interface {
	// WithTx runs fn in a transaction carried by ctx. An error from fn rolls
	// the transaction back, otherwise it is committed. Nested calls join the
	// outer transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DBTX is implemented by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Beginner starts transactions; *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type txManager struct {
	db Beginner
}

func NewTxManager(db Beginner) TxManager {
	return &txManager{db: db}
}

// txKey ключ для хранения транзакции в контексте (чтобы не было коллизий имен)
type txKey struct{}

func (m *txManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// уже внутри транзакции - просто выполняем репо-методы
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		// при ошибке откатываем
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// GetTxOrPool returns the transaction carried by ctx, or db when there is none.
func GetTxOrPool(ctx context.Context, db DBTX) DBTX {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}
