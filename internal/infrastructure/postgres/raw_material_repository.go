package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

// RawMaterialRepo materias primas sobre PostgreSQL.
type RawMaterialRepo struct {
	q Querier
}

// NewRawMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRawMaterialRepository(q Querier) *RawMaterialRepo {
	return &RawMaterialRepo{q: q}
}

func (r *RawMaterialRepo) Create(ctx context.Context, rm *entity.RawMaterial) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO raw_materials (id, name, category, unit_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rm.ID, rm.Name, rm.Category, rm.UnitCost, rm.CreatedAt, rm.UpdatedAt,
	)
	return wrap("insert raw material", err)
}

func (r *RawMaterialRepo) GetByID(ctx context.Context, id string) (*entity.RawMaterial, error) {
	var rm entity.RawMaterial
	err := r.q.QueryRow(ctx, `
		SELECT id, name, category, unit_cost, created_at, updated_at
		FROM raw_materials WHERE id = $1`, id,
	).Scan(&rm.ID, &rm.Name, &rm.Category, &rm.UnitCost, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get raw material", err)
	}
	return &rm, nil
}

// UpdateCost solo cambia el precio vigente; las corridas guardan su propio snapshot.
func (r *RawMaterialRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE raw_materials SET unit_cost = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return domain.Persistence("update raw material cost", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RawMaterialRepo) List(ctx context.Context, limit, offset int) ([]*entity.RawMaterial, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, category, unit_cost, created_at, updated_at
		FROM raw_materials ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.Persistence("list raw materials", err)
	}
	defer rows.Close()
	var list []*entity.RawMaterial
	for rows.Next() {
		var rm entity.RawMaterial
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Category, &rm.UnitCost, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, domain.Persistence("scan raw material", err)
		}
		list = append(list, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list raw materials", err)
	}
	return list, nil
}

// Delete elimina la materia prima; las líneas de receta caen por ON DELETE CASCADE.
func (r *RawMaterialRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM raw_materials WHERE id = $1`, id)
	if err != nil {
		return domain.Persistence("delete raw material", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
