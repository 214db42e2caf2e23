package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// ProductionRunRepo implementa repository.ProductionRunRepository.
type ProductionRunRepo struct{ a access }

var _ repository.ProductionRunRepository = (*ProductionRunRepo)(nil)

func copyRun(run *entity.ProductionRun) *entity.ProductionRun {
	c := *run
	c.Packages = append([]entity.ProductionPackage(nil), run.Packages...)
	return &c
}

func (r *ProductionRunRepo) Create(_ context.Context, run *entity.ProductionRun) error {
	return r.a.write(OpCreateRun, func(st *state) error {
		for _, existing := range st.runs {
			if existing.BatchNumber == run.BatchNumber {
				return domain.ErrDuplicateNumber
			}
		}
		st.runs[run.ID] = copyRun(run)
		return nil
	})
}

func (r *ProductionRunRepo) GetByID(_ context.Context, id string) (*entity.ProductionRun, error) {
	var out *entity.ProductionRun
	err := r.a.read(func(st *state) error {
		if run, ok := st.runs[id]; ok {
			out = copyRun(run)
		}
		return nil
	})
	return out, err
}

func (r *ProductionRunRepo) ExistsBatchNumber(_ context.Context, batchNumber string) (bool, error) {
	found := false
	err := r.a.read(func(st *state) error {
		for _, run := range st.runs {
			if run.BatchNumber == batchNumber {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *ProductionRunRepo) ReplacePackages(_ context.Context, runID string, packages []entity.ProductionPackage) error {
	return r.a.write(OpReplacePackages, func(st *state) error {
		run, ok := st.runs[runID]
		if !ok {
			return domain.ErrNotFound
		}
		c := copyRun(run)
		c.Packages = append([]entity.ProductionPackage(nil), packages...)
		st.runs[runID] = c
		return nil
	})
}

func (r *ProductionRunRepo) Delete(_ context.Context, id string) error {
	return r.a.write(OpDeleteRun, func(st *state) error {
		if _, ok := st.runs[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.runs, id)
		return nil
	})
}

func (r *ProductionRunRepo) List(_ context.Context, limit, offset int) ([]*entity.ProductionRun, error) {
	var out []*entity.ProductionRun
	err := r.a.read(func(st *state) error {
		for _, run := range st.runs {
			out = append(out, copyRun(run))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RunDate.Equal(out[j].RunDate) {
			return out[i].RunDate.After(out[j].RunDate)
		}
		return out[i].BatchNumber > out[j].BatchNumber
	})
	return page(out, limit, offset), err
}

// PurchaseOrderRepo implementa repository.PurchaseOrderRepository.
type PurchaseOrderRepo struct{ a access }

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

func copyPurchaseOrder(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *po
	c.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	if po.ReceivedDate != nil {
		t := *po.ReceivedDate
		c.ReceivedDate = &t
	}
	return &c
}

func (r *PurchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	return r.a.write(OpCreatePurchase, func(st *state) error {
		for _, existing := range st.purchaseOrders {
			if existing.PONumber == po.PONumber {
				return domain.ErrDuplicateNumber
			}
		}
		st.purchaseOrders[po.ID] = copyPurchaseOrder(po)
		return nil
	})
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.a.read(func(st *state) error {
		if po, ok := st.purchaseOrders[id]; ok {
			out = copyPurchaseOrder(po)
		}
		return nil
	})
	return out, err
}

// GetForUpdate no necesita bloqueo adicional: la tx en memoria ya es exclusiva.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseOrderRepo) ExistsNumber(_ context.Context, poNumber string) (bool, error) {
	found := false
	err := r.a.read(func(st *state) error {
		for _, po := range st.purchaseOrders {
			if po.PONumber == poNumber {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *PurchaseOrderRepo) MarkReceived(_ context.Context, po *entity.PurchaseOrder) error {
	return r.a.write(OpMarkReceived, func(st *state) error {
		stored, ok := st.purchaseOrders[po.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := copyPurchaseOrder(stored)
		c.Status = po.Status
		if po.ReceivedDate != nil {
			t := *po.ReceivedDate
			c.ReceivedDate = &t
		}
		st.purchaseOrders[po.ID] = c
		return nil
	})
}

func (r *PurchaseOrderRepo) List(_ context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.a.read(func(st *state) error {
		for _, po := range st.purchaseOrders {
			out = append(out, copyPurchaseOrder(po))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].PONumber > out[j].PONumber
	})
	return page(out, limit, offset), err
}

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct{ a access }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func copySale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = append([]entity.SaleItem(nil), s.Items...)
	c.Payments = append([]entity.SalePayment(nil), s.Payments...)
	return &c
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.a.write(OpCreateSale, func(st *state) error {
		for _, existing := range st.sales {
			if existing.InvoiceNumber == sale.InvoiceNumber {
				return domain.ErrDuplicateNumber
			}
		}
		st.sales[sale.ID] = copySale(sale)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.read(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = copySale(s)
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) ExistsInvoiceNumber(_ context.Context, number string) (bool, error) {
	found := false
	err := r.a.read(func(st *state) error {
		for _, s := range st.sales {
			if s.InvoiceNumber == number {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *SaleRepo) AddPayment(_ context.Context, sale *entity.Sale, payment *entity.SalePayment) error {
	return r.a.write(OpAddPayment, func(st *state) error {
		stored, ok := st.sales[sale.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := copySale(stored)
		c.PaidAmount = sale.PaidAmount
		c.Balance = sale.Balance
		c.PaymentStatus = sale.PaymentStatus
		c.Payments = append(c.Payments, *payment)
		st.sales[sale.ID] = c
		return nil
	})
}

func (r *SaleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.a.read(func(st *state) error {
		for _, s := range st.sales {
			out = append(out, copySale(s))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SaleDate.Equal(out[j].SaleDate) {
			return out[i].SaleDate.After(out[j].SaleDate)
		}
		return out[i].InvoiceNumber > out[j].InvoiceNumber
	})
	return page(out, limit, offset), err
}

func (r *SaleRepo) SummaryBySalesPerson(_ context.Context) ([]entity.SalesPersonSummary, error) {
	byName := make(map[string]*entity.SalesPersonSummary)
	err := r.a.read(func(st *state) error {
		for _, s := range st.sales {
			sum, ok := byName[s.SalesPersonName]
			if !ok {
				sum = &entity.SalesPersonSummary{
					SalesPerson:   s.SalesPersonName,
					TotalSales:    decimal.Zero,
					CashCollected: decimal.Zero,
					Outstanding:   decimal.Zero,
				}
				byName[s.SalesPersonName] = sum
			}
			sum.TotalSales = sum.TotalSales.Add(s.TotalAmount)
			sum.CashCollected = sum.CashCollected.Add(s.PaidAmount)
			sum.Outstanding = sum.Outstanding.Add(s.Balance)
			sum.Count++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]entity.SalesPersonSummary, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SalesPerson < out[j].SalesPerson })
	return out, nil
}
