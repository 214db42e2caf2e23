package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta por presentación.
type SaleItemRequest struct {
	ProductID         string          `json:"product_id" validate:"required"`
	PackagingOptionID string          `json:"packaging_option_id" validate:"required"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales.
// CustomerID vacío registra la venta a un cliente de mostrador (WalkInName).
// SalesPersonID vacío hereda el vendedor asignado al cliente.
type CreateSaleRequest struct {
	CustomerID           string            `json:"customer_id,omitempty"`
	WalkInName           string            `json:"walk_in_name,omitempty" validate:"max=200"`
	SalesPersonID        string            `json:"sales_person_id,omitempty"`
	InvoiceNumber        string            `json:"invoice_number,omitempty" validate:"max=64"`
	SaleDate             *time.Time        `json:"sale_date,omitempty"`
	PaymentStatus        string            `json:"payment_status,omitempty" validate:"omitempty,oneof=PAID CREDIT"`
	PaymentMethod        string            `json:"payment_method,omitempty"`
	TransactionReference string            `json:"transaction_reference,omitempty"`
	Items                []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// RecordPaymentRequest body para POST /api/sales/:id/payments.
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"required,oneof=CASH MPESA BANK"`
	Reference string          `json:"reference,omitempty"`
}

// SaleItemResponse línea en la respuesta.
type SaleItemResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	PackagingOptionID string          `json:"packaging_option_id"`
	SizeLabel         string          `json:"size_label"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// SalePaymentResponse abono en la respuesta.
type SalePaymentResponse struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
}

// SaleResponse venta con líneas y abonos.
type SaleResponse struct {
	ID                   string                `json:"id"`
	InvoiceNumber        string                `json:"invoice_number"`
	SaleDate             time.Time             `json:"sale_date"`
	CustomerID           string                `json:"customer_id,omitempty"`
	CustomerName         string                `json:"customer_name"`
	SalesPersonID        string                `json:"sales_person_id,omitempty"`
	SalesPersonName      string                `json:"sales_person_name"`
	TotalAmount          decimal.Decimal       `json:"total_amount"`
	PaidAmount           decimal.Decimal       `json:"paid_amount"`
	Balance              decimal.Decimal       `json:"balance"`
	PaymentStatus        string                `json:"payment_status"`
	PaymentMethod        string                `json:"payment_method"`
	TransactionReference string                `json:"transaction_reference,omitempty"`
	Items                []SaleItemResponse    `json:"items"`
	Payments             []SalePaymentResponse `json:"payments"`
}

// SalesReportRow fila del reporte de ventas por vendedor.
type SalesReportRow struct {
	SalesPerson   string          `json:"sales_person"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	CashCollected decimal.Decimal `json:"cash_collected"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Count         int             `json:"count"`
}
