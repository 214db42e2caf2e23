package repository

import (
	"context"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate como GetByID pero bloquea la cabecera hasta el fin de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	ExistsNumber(ctx context.Context, poNumber string) (bool, error)
	// MarkReceived persiste estado y fecha de recepción.
	MarkReceived(ctx context.Context, po *entity.PurchaseOrder) error
	List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error)
}
