package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseOrderColumns = `id, po_number, order_date, supplier_id, supplier_name, status, received_date,
	payment_status, payment_method, transaction_reference, total_amount, created_by`

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO purchase_orders (`+purchaseOrderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		po.ID, po.PONumber, po.OrderDate, po.SupplierID, po.SupplierName, po.Status, po.ReceivedDate,
		po.PaymentStatus, po.PaymentMethod, po.TransactionReference, po.TotalAmount, po.CreatedBy,
	)
	for _, it := range po.Items {
		batch.Queue(`
			INSERT INTO purchase_order_items (id, purchase_order_id, raw_material_id, raw_material_name, quantity, unit_cost, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, po.ID, it.RawMaterialID, it.RawMaterialName, it.Quantity, it.UnitCost, it.LineTotal,
		)
	}
	return execBatch(ctx, r.q, batch, "insert purchase order")
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera hasta el fin de la tx.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get purchase order", err)
	}
	if err := r.loadItems(ctx, []*entity.PurchaseOrder{po}); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) ExistsNumber(ctx context.Context, poNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM purchase_orders WHERE po_number = $1)`, poNumber).Scan(&exists)
	if err != nil {
		return false, domain.Persistence("po number exists", err)
	}
	return exists, nil
}

func (r *PurchaseOrderRepo) MarkReceived(ctx context.Context, po *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET status = $2, received_date = $3 WHERE id = $1`,
		po.ID, po.Status, po.ReceivedDate)
	if err != nil {
		return domain.Persistence("mark purchase order received", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders
		ORDER BY order_date DESC, po_number DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.Persistence("list purchase orders", err)
	}
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			rows.Close()
			return nil, domain.Persistence("scan purchase order", err)
		}
		list = append(list, po)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list purchase orders", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(&po.ID, &po.PONumber, &po.OrderDate, &po.SupplierID, &po.SupplierName, &po.Status,
		&po.ReceivedDate, &po.PaymentStatus, &po.PaymentMethod, &po.TransactionReference,
		&po.TotalAmount, &po.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, orders []*entity.PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*entity.PurchaseOrder, len(orders))
	ids := make([]string, 0, len(orders))
	for _, po := range orders {
		byID[po.ID] = po
		ids = append(ids, po.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, raw_material_id, raw_material_name, quantity, unit_cost, line_total
		FROM purchase_order_items WHERE purchase_order_id = ANY($1) ORDER BY purchase_order_id, raw_material_name`, ids)
	if err != nil {
		return domain.Persistence("list purchase order items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.RawMaterialID, &it.RawMaterialName,
			&it.Quantity, &it.UnitCost, &it.LineTotal); err != nil {
			return domain.Persistence("scan purchase order item", err)
		}
		byID[it.PurchaseOrderID].Items = append(byID[it.PurchaseOrderID].Items, it)
	}
	if err := rows.Err(); err != nil {
		return domain.Persistence("list purchase order items", err)
	}
	return nil
}
