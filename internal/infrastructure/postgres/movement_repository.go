package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, date, item_kind, item_id, variant_id, item_name, unit_of_measure,
	quantity, unit_cost, total_value, reference_kind, reference_number, notes, reversal_of, created_by`

// MovementRepo kardex sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// CreateBatch inserta todos los movimientos en un solo pgx.Batch.
func (r *MovementRepo) CreateBatch(ctx context.Context, entries []*entity.MovementEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query,
			e.ID, e.Date, string(e.ItemKind), e.ItemID, e.VariantID, e.ItemName, e.UnitOfMeasure,
			e.Quantity, e.UnitCost, e.TotalValue, string(e.ReferenceKind), e.ReferenceNumber,
			e.Notes, e.ReversalOf, e.CreatedBy,
		)
	}
	results := r.q.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return domain.Persistence("insert movements", err)
		}
	}
	if err := results.Close(); err != nil {
		return domain.Persistence("insert movements", err)
	}
	return nil
}

// referenceFilter arma el WHERE común por referencia y tipo opcional.
func referenceFilter(ref entity.ReferenceKind, number string, kind entity.ItemKind) (string, []any) {
	where := `reference_kind = $1 AND reference_number = $2`
	args := []any{string(ref), number}
	if kind != "" {
		where += ` AND item_kind = $3`
		args = append(args, string(kind))
	}
	return where, args
}

func (r *MovementRepo) DeleteByReference(ctx context.Context, ref entity.ReferenceKind, number string, kind entity.ItemKind) (int64, error) {
	where, args := referenceFilter(ref, number, kind)
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE `+where, args...)
	if err != nil {
		return 0, domain.Persistence("delete movements", err)
	}
	return tag.RowsAffected(), nil
}

func (r *MovementRepo) ListByReference(ctx context.Context, ref entity.ReferenceKind, number string, kind entity.ItemKind) ([]*entity.MovementEntry, error) {
	where, args := referenceFilter(ref, number, kind)
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, domain.Persistence("list movements by reference", err)
	}
	return scanMovements(rows)
}

func (r *MovementRepo) SumByKey(ctx context.Context, key entity.ItemKey) (entity.Balance, error) {
	bal := entity.Balance{Key: key}
	query := `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(total_value), 0),
		       COALESCE((array_agg(item_name ORDER BY seq DESC))[1], '')
		FROM stock_movements
		WHERE item_kind = $1 AND item_id = $2 AND variant_id = $3`
	err := r.q.QueryRow(ctx, query, string(key.Kind), key.ItemID, key.VariantID).
		Scan(&bal.Quantity, &bal.Value, &bal.ItemName)
	if err != nil {
		return bal, domain.Persistence("sum movements", err)
	}
	return bal, nil
}

func (r *MovementRepo) SumGroupedByKind(ctx context.Context, kind entity.ItemKind) ([]entity.Balance, error) {
	query := `
		SELECT item_id, variant_id,
		       (array_agg(item_name ORDER BY seq DESC))[1] AS name,
		       SUM(quantity), SUM(total_value)
		FROM stock_movements
		WHERE item_kind = $1
		GROUP BY item_id, variant_id
		ORDER BY name, item_id, variant_id`
	rows, err := r.q.Query(ctx, query, string(kind))
	if err != nil {
		return nil, domain.Persistence("group movements", err)
	}
	defer rows.Close()
	var list []entity.Balance
	for rows.Next() {
		b := entity.Balance{Key: entity.ItemKey{Kind: kind}}
		if err := rows.Scan(&b.Key.ItemID, &b.Key.VariantID, &b.ItemName, &b.Quantity, &b.Value); err != nil {
			return nil, domain.Persistence("scan balance", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("group movements", err)
	}
	return list, nil
}

// ListByItem historial de una llave en un rango de fechas, más reciente primero.
func (r *MovementRepo) ListByItem(ctx context.Context, key entity.ItemKey, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE item_kind = $1 AND item_id = $2 AND variant_id = $3`
	args := []any{string(key.Kind), key.ItemID, key.VariantID}
	pos := 4
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Persistence("list movements by item", err)
	}
	return scanMovements(rows)
}

func (r *MovementRepo) ExistsForItem(ctx context.Context, kind entity.ItemKind, itemID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock_movements WHERE item_kind = $1 AND item_id = $2)`,
		string(kind), itemID,
	).Scan(&exists)
	if err != nil {
		return false, domain.Persistence("movement exists", err)
	}
	return exists, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.MovementEntry, error) {
	defer rows.Close()
	var list []*entity.MovementEntry
	for rows.Next() {
		var m entity.MovementEntry
		var kind, ref string
		if err := rows.Scan(&m.ID, &m.Date, &kind, &m.ItemID, &m.VariantID, &m.ItemName, &m.UnitOfMeasure,
			&m.Quantity, &m.UnitCost, &m.TotalValue, &ref, &m.ReferenceNumber, &m.Notes, &m.ReversalOf, &m.CreatedBy); err != nil {
			return nil, domain.Persistence("scan movement", err)
		}
		m.ItemKind = entity.ItemKind(kind)
		m.ReferenceKind = entity.ReferenceKind(ref)
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("scan movements", err)
	}
	return list, nil
}
