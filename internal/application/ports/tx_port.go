package ports

import (
	"context"

	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Movements      repository.MovementRepository
	Runs           repository.ProductionRunRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Sales          repository.SaleRepository
	RawMaterials   repository.RawMaterialRepository
	Products       repository.ProductRepository
}

// TxRunner ejecuta fn dentro de una transacción: si fn retorna error se hace
// Rollback y el almacenamiento queda intacto; si no, Commit. Un fallo de
// begin/commit se reporta como domain.ErrPersistence.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
