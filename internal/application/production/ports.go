package production

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// Ledger registra y compensa movimientos dentro de la transacción del caller.
// Lo implementa inventory.LedgerUseCase.
type Ledger interface {
	PostInTx(ctx context.Context, movRepo repository.MovementRepository, userID string, entries []*entity.MovementEntry) error
	CompensateInTx(ctx context.Context, movRepo repository.MovementRepository, userID string, ref entity.ReferenceKind, number string, kind entity.ItemKind) (int64, error)
}

// ConsumptionLine materia prima consumida, tal como quedó en el kardex.
type ConsumptionLine struct {
	RawMaterialID string
	Name          string
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	Total         decimal.Decimal
}

// CostSheet datos de la hoja de costeo de una corrida.
type CostSheet struct {
	Run         *entity.ProductionRun
	TaxRate     decimal.Decimal
	Consumption []ConsumptionLine
}

// CostSheetGenerator genera el PDF de la hoja de costeo.
type CostSheetGenerator interface {
	GenerateCostSheet(ctx context.Context, sheet CostSheet) ([]byte, error)
}
