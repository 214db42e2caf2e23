package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain"
)

// Sale venta de producto terminado. Invariante: PaidAmount + Balance == TotalAmount.
type Sale struct {
	ID                   string
	InvoiceNumber        string
	SaleDate             time.Time
	CustomerID           string
	CustomerName         string
	SalesPersonID        string
	SalesPersonName      string
	TotalAmount          decimal.Decimal
	PaidAmount           decimal.Decimal
	Balance              decimal.Decimal
	PaymentStatus        string
	PaymentMethod        string
	TransactionReference string
	Items                []SaleItem
	Payments             []SalePayment
	CreatedBy            string
}

// SaleItem línea de venta con precio congelado.
type SaleItem struct {
	ID                string
	SaleID            string
	ProductID         string
	ProductName       string
	PackagingOptionID string
	SizeLabel         string
	Quantity          decimal.Decimal
	UnitPrice         decimal.Decimal
	LineTotal         decimal.Decimal
}

// SalePayment abono registrado sobre una venta (solo se agregan).
type SalePayment struct {
	ID        string
	SaleID    string
	Date      time.Time
	Amount    decimal.Decimal
	Method    string
	Reference string
}

// SalesPersonSummary fila del reporte de ventas por vendedor.
type SalesPersonSummary struct {
	SalesPerson   string
	TotalSales    decimal.Decimal
	CashCollected decimal.Decimal
	Outstanding   decimal.Decimal
	Count         int
}

// Recalculate recompone TotalAmount desde las líneas y deriva saldo y estado.
func (s *Sale) Recalculate() {
	total := decimal.Zero
	for i := range s.Items {
		s.Items[i].LineTotal = s.Items[i].Quantity.Mul(s.Items[i].UnitPrice)
		total = total.Add(s.Items[i].LineTotal)
	}
	s.TotalAmount = total
	s.refreshBalance()
}

// SettleInFull registra el pago inicial por el total (venta de contado).
func (s *Sale) SettleInFull(at time.Time, method, reference string) {
	s.Payments = append(s.Payments, SalePayment{
		SaleID:    s.ID,
		Date:      at,
		Amount:    s.TotalAmount,
		Method:    method,
		Reference: reference,
	})
	s.PaidAmount = s.TotalAmount
	s.refreshBalance()
}

// ApplyPayment agrega un abono. Falla con ErrAlreadySettled si no hay saldo
// y con ErrOverpayment si el abono supera el saldo.
func (s *Sale) ApplyPayment(p SalePayment) error {
	if s.Balance.LessThanOrEqual(decimal.Zero) {
		return domain.ErrAlreadySettled
	}
	if !p.Amount.GreaterThan(decimal.Zero) {
		return domain.Invalid("el abono debe ser mayor que cero")
	}
	if p.Amount.GreaterThan(s.Balance) {
		return domain.ErrOverpayment
	}
	if err := ValidatePayment(p.Method, p.Reference); err != nil {
		return err
	}
	p.SaleID = s.ID
	s.Payments = append(s.Payments, p)
	s.PaidAmount = s.PaidAmount.Add(p.Amount)
	s.refreshBalance()
	return nil
}

// refreshBalance mantiene Balance = Total - Pagado y deriva la etiqueta de estado.
func (s *Sale) refreshBalance() {
	s.Balance = s.TotalAmount.Sub(s.PaidAmount)
	switch {
	case s.Balance.LessThanOrEqual(decimal.Zero):
		s.PaymentStatus = PaymentStatusPaid
	case s.PaidAmount.GreaterThan(decimal.Zero):
		s.PaymentStatus = PaymentStatusPartial
	default:
		s.PaymentStatus = PaymentStatusCredit
	}
}
