package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderItemRequest línea de orden de compra.
type PurchaseOrderItemRequest struct {
	RawMaterialID string          `json:"raw_material_id" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest body para POST /api/procurement/orders.
// PaymentStatus PAID exige PaymentMethod (CASH, MPESA, BANK); MPESA y BANK exigen TransactionReference.
type CreatePurchaseOrderRequest struct {
	SupplierID           string                     `json:"supplier_id" validate:"required"`
	PONumber             string                     `json:"po_number,omitempty" validate:"max=64"`
	OrderDate            *time.Time                 `json:"order_date,omitempty"`
	PaymentStatus        string                     `json:"payment_status,omitempty" validate:"omitempty,oneof=PAID CREDIT"`
	PaymentMethod        string                     `json:"payment_method,omitempty"`
	TransactionReference string                     `json:"transaction_reference,omitempty"`
	Items                []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseOrderItemResponse línea en la respuesta.
type PurchaseOrderItemResponse struct {
	ID              string          `json:"id"`
	RawMaterialID   string          `json:"raw_material_id"`
	RawMaterialName string          `json:"raw_material_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// PurchaseOrderResponse orden de compra con líneas.
type PurchaseOrderResponse struct {
	ID                   string                      `json:"id"`
	PONumber             string                      `json:"po_number"`
	OrderDate            time.Time                   `json:"order_date"`
	SupplierID           string                      `json:"supplier_id"`
	SupplierName         string                      `json:"supplier_name"`
	Status               string                      `json:"status"`
	ReceivedDate         *time.Time                  `json:"received_date,omitempty"`
	PaymentStatus        string                      `json:"payment_status"`
	PaymentMethod        string                      `json:"payment_method"`
	TransactionReference string                      `json:"transaction_reference,omitempty"`
	TotalAmount          decimal.Decimal             `json:"total_amount"`
	Items                []PurchaseOrderItemResponse `json:"items"`
}
