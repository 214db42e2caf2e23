package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain"
)

// Estados de la orden de compra. RECEIVED es terminal.
const (
	POStatusPending  = "PENDING"
	POStatusReceived = "RECEIVED"
)

// PurchaseOrder orden de compra de materia prima.
type PurchaseOrder struct {
	ID                   string
	PONumber             string
	OrderDate            time.Time
	SupplierID           string
	SupplierName         string
	Status               string
	ReceivedDate         *time.Time
	PaymentStatus        string
	PaymentMethod        string
	TransactionReference string
	TotalAmount          decimal.Decimal
	Items                []PurchaseOrderItem
	CreatedBy            string
}

// PurchaseOrderItem línea de la orden con costo congelado.
type PurchaseOrderItem struct {
	ID              string
	PurchaseOrderID string
	RawMaterialID   string
	RawMaterialName string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	LineTotal       decimal.Decimal
}

// IsReceived indica si la orden ya ingresó al inventario.
func (po *PurchaseOrder) IsReceived() bool {
	return po.Status == POStatusReceived
}

// Receive aplica la transición PENDING → RECEIVED. No existe la transición inversa.
func (po *PurchaseOrder) Receive(at time.Time) error {
	if po.IsReceived() {
		return domain.ErrAlreadyReceived
	}
	po.Status = POStatusReceived
	po.ReceivedDate = &at
	return nil
}

// ReceiptEntries construye un movimiento positivo de materia prima por línea.
func (po *PurchaseOrder) ReceiptEntries() []*MovementEntry {
	notes := "Desde " + po.SupplierName + " (" + po.PaymentStatus + ")"
	entries := make([]*MovementEntry, 0, len(po.Items))
	for _, it := range po.Items {
		e := NewMovementEntry(RawMaterialKey(it.RawMaterialID), it.RawMaterialName,
			it.Quantity, it.UnitCost, ReferencePurchase, po.PONumber, notes)
		e.TotalValue = it.LineTotal
		entries = append(entries, e)
	}
	return entries
}

// Recalculate recompone los totales de línea y el total de la orden.
func (po *PurchaseOrder) Recalculate() {
	total := decimal.Zero
	for i := range po.Items {
		po.Items[i].LineTotal = po.Items[i].Quantity.Mul(po.Items[i].UnitCost)
		total = total.Add(po.Items[i].LineTotal)
	}
	po.TotalAmount = total
}
