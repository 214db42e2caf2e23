package repository

import (
	"context"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas, líneas y abonos.
type SaleRepository interface {
	// Create guarda cabecera, líneas y abonos iniciales.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate como GetByID pero bloquea la cabecera hasta el fin de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	ExistsInvoiceNumber(ctx context.Context, number string) (bool, error)
	// AddPayment agrega el abono y actualiza pagado, saldo y estado de la cabecera.
	AddPayment(ctx context.Context, sale *entity.Sale, payment *entity.SalePayment) error
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)
	// SummaryBySalesPerson agrupa totales por nombre de vendedor.
	SummaryBySalesPerson(ctx context.Context) ([]entity.SalesPersonSummary, error)
}
