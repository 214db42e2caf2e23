package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKeyQuery identifica una línea de stock en query params.
type ItemKeyQuery struct {
	ItemKind  string `query:"item_kind" validate:"required,oneof=RAW_MATERIAL FINISHED_GOOD"`
	ItemID    string `query:"item_id" validate:"required"`
	VariantID string `query:"variant_id"`
}

// BalanceResponse saldo (cantidad, valor) de una llave.
type BalanceResponse struct {
	ItemKind  string          `json:"item_kind"`
	ItemID    string          `json:"item_id"`
	VariantID string          `json:"variant_id,omitempty"`
	ItemName  string          `json:"item_name,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Value     decimal.Decimal `json:"value"`
}

// StockLevelResponse fila del reporte de existencias.
type StockLevelResponse struct {
	BalanceResponse
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
}

// AdjustStockRequest body para POST /api/inventory/adjustments.
// UnitCost vacío usa el costo promedio vigente de la llave.
type AdjustStockRequest struct {
	ItemKind        string           `json:"item_kind" validate:"required,oneof=RAW_MATERIAL FINISHED_GOOD"`
	ItemID          string           `json:"item_id" validate:"required"`
	VariantID       string           `json:"variant_id,omitempty"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason          string           `json:"reason" validate:"required,max=500"`
	ReferenceNumber string           `json:"reference_number,omitempty" validate:"max=64"`
}

// MovementHistoryQuery filtros de GET /api/inventory/movements.
type MovementHistoryQuery struct {
	ItemKeyQuery
	PageRequest
	From string `query:"from"` // RFC3339 o YYYY-MM-DD
	To   string `query:"to"`
}

// MovementResponse fila del kardex.
type MovementResponse struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	ItemKind        string          `json:"item_kind"`
	ItemID          string          `json:"item_id"`
	VariantID       string          `json:"variant_id,omitempty"`
	ItemName        string          `json:"item_name"`
	UnitOfMeasure   string          `json:"unit_of_measure"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalValue      decimal.Decimal `json:"total_value"`
	ReferenceKind   string          `json:"reference_kind"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes,omitempty"`
	ReversalOf      string          `json:"reversal_of,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
}
