// Package procurement gestiona órdenes de compra de materia prima y su recepción en el kardex.
package procurement

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/numbering"
	"github.com/jhoicas/produccion-api/internal/application/ports"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// Ledger registra movimientos dentro de la transacción del caller.
type Ledger interface {
	PostInTx(ctx context.Context, movRepo repository.MovementRepository, userID string, entries []*entity.MovementEntry) error
}

// OrderUseCase casos de uso de órdenes de compra.
type OrderUseCase struct {
	txRunner ports.TxRunner
	orders   repository.PurchaseOrderRepository
	partners repository.PartnerRepository
	ledger   Ledger
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner ports.TxRunner,
	orders repository.PurchaseOrderRepository,
	partners repository.PartnerRepository,
	ledger Ledger,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner: txRunner,
		orders:   orders,
		partners: partners,
		ledger:   ledger,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *OrderUseCase) WithClock(now func() time.Time) *OrderUseCase {
	uc.now = now
	return uc
}

// Create registra una orden PENDING. No mueve inventario: eso ocurre en Receive.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" || len(in.Items) == 0 {
		return nil, domain.Invalid("proveedor y al menos una línea son obligatorios")
	}
	for _, it := range in.Items {
		if it.RawMaterialID == "" || !it.Quantity.IsPositive() {
			return nil, domain.Invalid("línea %q: cantidad debe ser mayor que cero", it.RawMaterialID)
		}
		if it.UnitCost.IsNegative() {
			return nil, domain.Invalid("línea %q: costo unitario negativo", it.RawMaterialID)
		}
	}
	reference := strings.TrimSpace(in.TransactionReference)
	status, method, err := entity.ResolvePaymentTerms(in.PaymentStatus, in.PaymentMethod, reference)
	if err != nil {
		return nil, err
	}

	supplier, err := uc.partners.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.Type != entity.PartnerTypeSupplier {
		return nil, domain.Invalid("el tercero %q no es proveedor", supplier.Name)
	}

	orderDate := uc.now()
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}
	po := &entity.PurchaseOrder{
		ID:                   uuid.New().String(),
		OrderDate:            orderDate,
		SupplierID:           supplier.ID,
		SupplierName:         supplier.Name,
		Status:               entity.POStatusPending,
		PaymentStatus:        status,
		PaymentMethod:        method,
		TransactionReference: reference,
		CreatedBy:            userID,
	}

	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		po.Items = po.Items[:0]
		for _, it := range in.Items {
			rm, err := repos.RawMaterials.GetByID(ctx, it.RawMaterialID)
			if err != nil {
				return err
			}
			if rm == nil {
				return domain.Unknown("materia prima", it.RawMaterialID)
			}
			po.Items = append(po.Items, entity.PurchaseOrderItem{
				ID:              uuid.New().String(),
				PurchaseOrderID: po.ID,
				RawMaterialID:   rm.ID,
				RawMaterialName: rm.Name,
				Quantity:        it.Quantity,
				UnitCost:        it.UnitCost,
			})
		}
		po.Recalculate()

		number, err := numbering.Resolve(ctx, in.PONumber, numbering.PrefixPurchase, orderDate, repos.PurchaseOrders.ExistsNumber)
		if err != nil {
			return err
		}
		po.PONumber = number
		return repos.PurchaseOrders.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(po), nil
}

// Receive ingresa la orden al inventario: un movimiento positivo por línea
// y transición PENDING → RECEIVED, todo en una transacción.
func (uc *OrderUseCase) Receive(ctx context.Context, userID, orderID string) (*dto.PurchaseOrderResponse, error) {
	var po *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		po, err = repos.PurchaseOrders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		now := uc.now()
		if err := po.Receive(now); err != nil {
			return err
		}
		entries := po.ReceiptEntries()
		for _, e := range entries {
			e.Date = now
		}
		if err := uc.ledger.PostInTx(ctx, repos.Movements, userID, entries); err != nil {
			return err
		}
		return repos.PurchaseOrders.MarkReceived(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(po), nil
}

// Get devuelve una orden con sus líneas.
func (uc *OrderUseCase) Get(ctx context.Context, orderID string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(po), nil
}

// List lista órdenes, más reciente primero.
func (uc *OrderUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.PurchaseOrderResponse, error) {
	page.DefaultPage()
	list, err := uc.orders.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		out = append(out, toOrderResponse(po))
	}
	return out, nil
}

func toOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseOrderItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, dto.PurchaseOrderItemResponse{
			ID:              it.ID,
			RawMaterialID:   it.RawMaterialID,
			RawMaterialName: it.RawMaterialName,
			Quantity:        it.Quantity,
			UnitCost:        it.UnitCost,
			LineTotal:       it.LineTotal,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:                   po.ID,
		PONumber:             po.PONumber,
		OrderDate:            po.OrderDate,
		SupplierID:           po.SupplierID,
		SupplierName:         po.SupplierName,
		Status:               po.Status,
		ReceivedDate:         po.ReceivedDate,
		PaymentStatus:        po.PaymentStatus,
		PaymentMethod:        po.PaymentMethod,
		TransactionReference: po.TransactionReference,
		TotalAmount:          po.TotalAmount,
		Items:                items,
	}
}
