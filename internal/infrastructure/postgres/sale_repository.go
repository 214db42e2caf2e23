package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, invoice_number, sale_date, customer_id, customer_name, sales_person_id, sales_person_name,
	total_amount, paid_amount, balance, payment_status, payment_method, transaction_reference, created_by`

const insertSalePayment = `
	INSERT INTO sale_payments (id, sale_id, date, amount, method, reference)
	VALUES ($1, $2, $3, $4, $5, $6)`

// SaleRepo ventas, líneas y abonos sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.ID, s.InvoiceNumber, s.SaleDate, s.CustomerID, s.CustomerName, s.SalesPersonID, s.SalesPersonName,
		s.TotalAmount, s.PaidAmount, s.Balance, s.PaymentStatus, s.PaymentMethod, s.TransactionReference, s.CreatedBy,
	)
	for _, it := range s.Items {
		batch.Queue(`
			INSERT INTO sale_items (id, sale_id, product_id, product_name, packaging_option_id, size_label, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, s.ID, it.ProductID, it.ProductName, it.PackagingOptionID, it.SizeLabel, it.Quantity, it.UnitPrice, it.LineTotal,
		)
	}
	for _, p := range s.Payments {
		batch.Queue(insertSalePayment, p.ID, s.ID, p.Date, p.Amount, p.Method, p.Reference)
	}
	return execBatch(ctx, r.q, batch, "insert sale")
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera hasta el fin de la tx.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get sale", err)
	}
	if err := r.loadChildren(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) ExistsInvoiceNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE invoice_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, domain.Persistence("invoice number exists", err)
	}
	return exists, nil
}

// AddPayment inserta el abono y deja la cabecera con pagado, saldo y estado de sale.
func (r *SaleRepo) AddPayment(ctx context.Context, s *entity.Sale, p *entity.SalePayment) error {
	batch := &pgx.Batch{}
	batch.Queue(insertSalePayment, p.ID, s.ID, p.Date, p.Amount, p.Method, p.Reference)
	batch.Queue(`UPDATE sales SET paid_amount = $2, balance = $3, payment_status = $4 WHERE id = $1`,
		s.ID, s.PaidAmount, s.Balance, s.PaymentStatus)
	return execBatch(ctx, r.q, batch, "add sale payment")
}

func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales
		ORDER BY sale_date DESC, invoice_number DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.Persistence("list sales", err)
	}
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, domain.Persistence("scan sale", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list sales", err)
	}
	if err := r.loadChildren(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// SummaryBySalesPerson agrupa totales por nombre de vendedor.
func (r *SaleRepo) SummaryBySalesPerson(ctx context.Context) ([]entity.SalesPersonSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT sales_person_name, SUM(total_amount), SUM(paid_amount), SUM(balance), COUNT(*)
		FROM sales GROUP BY sales_person_name ORDER BY sales_person_name`)
	if err != nil {
		return nil, domain.Persistence("sales summary", err)
	}
	defer rows.Close()
	var list []entity.SalesPersonSummary
	for rows.Next() {
		var s entity.SalesPersonSummary
		if err := rows.Scan(&s.SalesPerson, &s.TotalSales, &s.CashCollected, &s.Outstanding, &s.Count); err != nil {
			return nil, domain.Persistence("scan sales summary", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("sales summary", err)
	}
	return list, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.InvoiceNumber, &s.SaleDate, &s.CustomerID, &s.CustomerName,
		&s.SalesPersonID, &s.SalesPersonName, &s.TotalAmount, &s.PaidAmount, &s.Balance,
		&s.PaymentStatus, &s.PaymentMethod, &s.TransactionReference, &s.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) loadChildren(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Sale, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, product_name, packaging_option_id, size_label, quantity, unit_price, line_total
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, product_name, size_label`, ids)
	if err != nil {
		return domain.Persistence("list sale items", err)
	}
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.PackagingOptionID,
			&it.SizeLabel, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			rows.Close()
			return domain.Persistence("scan sale item", err)
		}
		byID[it.SaleID].Items = append(byID[it.SaleID].Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Persistence("list sale items", err)
	}

	rows, err = r.q.Query(ctx, `
		SELECT id, sale_id, date, amount, method, reference
		FROM sale_payments WHERE sale_id = ANY($1) ORDER BY sale_id, date`, ids)
	if err != nil {
		return domain.Persistence("list sale payments", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.SalePayment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Date, &p.Amount, &p.Method, &p.Reference); err != nil {
			return domain.Persistence("scan sale payment", err)
		}
		byID[p.SaleID].Payments = append(byID[p.SaleID].Payments, p)
	}
	if err := rows.Err(); err != nil {
		return domain.Persistence("list sale payments", err)
	}
	return nil
}
