package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	TxManager TxManager
	Snapshot  SnapshotRepository
}

func NewRepositories(pool *pgxpool.Pool, retention int) *Repositories {
	txManager := NewTxManager(pool)
	return &Repositories{
		TxManager: txManager,
		Snapshot:  NewSnapshotRepository(pool, txManager, retention),
	}
}
