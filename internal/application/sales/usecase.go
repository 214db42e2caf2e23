// Package sales registra ventas de producto terminado, sus abonos y el reporte por vendedor.
package sales

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/numbering"
	"github.com/jhoicas/produccion-api/internal/application/ports"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/costing"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// Nombres usados cuando la venta no tiene cliente o vendedor registrado.
const (
	WalkInCustomer     = "Walk-In Client"
	UnassignedSalesRep = "Unassigned"
)

// Ledger registra movimientos dentro de la transacción del caller.
type Ledger interface {
	PostInTx(ctx context.Context, movRepo repository.MovementRepository, userID string, entries []*entity.MovementEntry) error
}

// SaleUseCase casos de uso de ventas.
type SaleUseCase struct {
	txRunner    ports.TxRunner
	sales       repository.SaleRepository
	partners    repository.PartnerRepository
	salesPeople repository.SalesPersonRepository
	ledger      Ledger
	now         func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner ports.TxRunner,
	sales repository.SaleRepository,
	partners repository.PartnerRepository,
	salesPeople repository.SalesPersonRepository,
	ledger Ledger,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		sales:       sales,
		partners:    partners,
		salesPeople: salesPeople,
		ledger:      ledger,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *SaleUseCase) WithClock(now func() time.Time) *SaleUseCase {
	uc.now = now
	return uc
}

// Create registra la venta, descuenta el producto terminado al costo promedio vigente
// y, si se paga de contado, agrega el abono inicial por el total.
// No verifica existencias: el kardex admite saldos negativos.
func (uc *SaleUseCase) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.Invalid("la venta no tiene líneas")
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.PackagingOptionID == "" {
			return nil, domain.Invalid("product_id y packaging_option_id son obligatorios")
		}
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid("línea %q: cantidad debe ser mayor que cero", it.ProductID)
		}
		if it.UnitPrice.IsNegative() {
			return nil, domain.Invalid("línea %q: precio negativo", it.ProductID)
		}
	}
	reference := strings.TrimSpace(in.TransactionReference)
	status, method, err := entity.ResolvePaymentTerms(in.PaymentStatus, in.PaymentMethod, reference)
	if err != nil {
		return nil, err
	}

	// ── 1. Cliente y vendedor ───────────────────────────────────────────────
	sale := &entity.Sale{
		ID:                   uuid.New().String(),
		SaleDate:             uc.now(),
		CustomerName:         WalkInCustomer,
		SalesPersonID:        in.SalesPersonID,
		SalesPersonName:      UnassignedSalesRep,
		PaymentMethod:        method,
		TransactionReference: reference,
		CreatedBy:            userID,
	}
	if in.SaleDate != nil {
		sale.SaleDate = *in.SaleDate
	}
	if in.CustomerID != "" {
		customer, err := uc.partners.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
		if customer.Type != entity.PartnerTypeCustomer {
			return nil, domain.Invalid("el tercero %q no es cliente", customer.Name)
		}
		sale.CustomerID = customer.ID
		sale.CustomerName = customer.Name
		if sale.SalesPersonID == "" {
			sale.SalesPersonID = customer.SalesPersonID
		}
	} else if name := strings.TrimSpace(in.WalkInName); name != "" {
		sale.CustomerName = name + " (Walk-in)"
	}
	if sale.SalesPersonID != "" {
		sp, err := uc.salesPeople.GetByID(ctx, sale.SalesPersonID)
		if err != nil {
			return nil, err
		}
		switch {
		case sp != nil:
			sale.SalesPersonName = sp.Name
		case in.SalesPersonID != "":
			return nil, domain.ErrNotFound
		default:
			sale.SalesPersonID = ""
		}
	}

	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		// ── 2. Número de factura ────────────────────────────────────────────
		number, err := numbering.Resolve(ctx, in.InvoiceNumber, numbering.PrefixInvoice, sale.SaleDate, repos.Sales.ExistsInvoiceNumber)
		if err != nil {
			return err
		}
		sale.InvoiceNumber = number

		// ── 3. Líneas y salidas de producto terminado ───────────────────────
		sale.Items = sale.Items[:0]
		entries := make([]*entity.MovementEntry, 0, len(in.Items))
		for _, it := range in.Items {
			product, err := repos.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.Unknown("producto", it.ProductID)
			}
			opt, ok := product.PackagingOption(it.PackagingOptionID)
			if !ok {
				return domain.Unknown("presentación", it.PackagingOptionID)
			}
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:                uuid.New().String(),
				SaleID:            sale.ID,
				ProductID:         product.ID,
				ProductName:       product.Name,
				PackagingOptionID: opt.ID,
				SizeLabel:         opt.SizeLabel,
				Quantity:          it.Quantity,
				UnitPrice:         it.UnitPrice,
			})

			key := entity.FinishedGoodKey(product.ID, opt.ID)
			bal, err := repos.Movements.SumByKey(ctx, key)
			if err != nil {
				return err
			}
			unitCost := costing.Round(costing.AverageUnitCost(bal.Quantity, bal.Value))
			e := entity.NewMovementEntry(key, product.VariantName(opt), it.Quantity.Neg(), unitCost,
				entity.ReferenceSale, number, "Vendido a "+sale.CustomerName)
			e.Date = sale.SaleDate
			entries = append(entries, e)
		}

		// ── 4. Totales y pago inicial ───────────────────────────────────────
		sale.Recalculate()
		if status == entity.PaymentStatusPaid {
			sale.SettleInFull(sale.SaleDate, method, reference)
			sale.Payments[len(sale.Payments)-1].ID = uuid.New().String()
		}

		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		return uc.ledger.PostInTx(ctx, repos.Movements, userID, entries)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// RecordPayment agrega un abono. Rechaza abonos sobre ventas saldadas y abonos mayores al saldo.
func (uc *SaleUseCase) RecordPayment(ctx context.Context, saleID string, in dto.RecordPaymentRequest) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		sale, err = repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		payment := entity.SalePayment{
			ID:        uuid.New().String(),
			Date:      uc.now(),
			Amount:    in.Amount,
			Method:    in.Method,
			Reference: strings.TrimSpace(in.Reference),
		}
		if err := sale.ApplyPayment(payment); err != nil {
			return err
		}
		return repos.Sales.AddPayment(ctx, sale, &sale.Payments[len(sale.Payments)-1])
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// Get devuelve una venta con líneas y abonos.
func (uc *SaleUseCase) Get(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// List lista ventas, más reciente primero.
func (uc *SaleUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.SaleResponse, error) {
	page.DefaultPage()
	list, err := uc.sales.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return out, nil
}

// Report agrupa las ventas por vendedor.
func (uc *SaleUseCase) Report(ctx context.Context) ([]dto.SalesReportRow, error) {
	rows, err := uc.sales.SummaryBySalesPerson(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SalesReportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SalesReportRow{
			SalesPerson:   r.SalesPerson,
			TotalSales:    r.TotalSales,
			CashCollected: r.CashCollected,
			Outstanding:   r.Outstanding,
			Count:         r.Count,
		})
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:                it.ID,
			ProductID:         it.ProductID,
			ProductName:       it.ProductName,
			PackagingOptionID: it.PackagingOptionID,
			SizeLabel:         it.SizeLabel,
			Quantity:          it.Quantity,
			UnitPrice:         it.UnitPrice,
			LineTotal:         it.LineTotal,
		})
	}
	payments := make([]dto.SalePaymentResponse, 0, len(s.Payments))
	for _, p := range s.Payments {
		payments = append(payments, dto.SalePaymentResponse{
			ID:        p.ID,
			Date:      p.Date,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
		})
	}
	return &dto.SaleResponse{
		ID:                   s.ID,
		InvoiceNumber:        s.InvoiceNumber,
		SaleDate:             s.SaleDate,
		CustomerID:           s.CustomerID,
		CustomerName:         s.CustomerName,
		SalesPersonID:        s.SalesPersonID,
		SalesPersonName:      s.SalesPersonName,
		TotalAmount:          s.TotalAmount,
		PaidAmount:           s.PaidAmount,
		Balance:              s.Balance,
		PaymentStatus:        s.PaymentStatus,
		PaymentMethod:        s.PaymentMethod,
		TransactionReference: s.TransactionReference,
		Items:                items,
		Payments:             payments,
	}
}
