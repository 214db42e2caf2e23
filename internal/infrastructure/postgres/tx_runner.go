package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/produccion-api/internal/application/ports"
	"github.com/jhoicas/produccion-api/internal/domain"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// ledgerLockKey llave del advisory lock que serializa a los escritores del kardex.
const ledgerLockKey int64 = 0x6b617264 // "kard"

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run abre una tx READ COMMITTED, toma el lock del kardex, ejecuta fn con repos
// atados a la tx y hace Commit o Rollback. Las lecturas fuera de Run no bloquean.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return domain.Persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		return domain.Persistence("ledger lock", err)
	}
	if err := fn(ctx, NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Persistence("commit transaction", err)
	}
	return nil
}

// NewRepos construye los repositorios sobre el mismo Querier (pool o tx).
func NewRepos(q Querier) ports.TxRepos {
	return ports.TxRepos{
		Movements:      NewMovementRepository(q),
		Runs:           NewProductionRunRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Sales:          NewSaleRepository(q),
		RawMaterials:   NewRawMaterialRepository(q),
		Products:       NewProductRepository(q),
	}
}
