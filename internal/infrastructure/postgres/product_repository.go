package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste producto, receta y presentaciones en un solo batch.
func (r *ProductRepo) Create(ctx context.Context, p *entity.ProductDefinition) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO products (id, name, unit_of_measure, overhead_percentage, specific_gravity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.UnitOfMeasure, p.OverheadPercentage, p.SpecificGravity, p.CreatedAt, p.UpdatedAt,
	)
	for _, ing := range p.Ingredients {
		batch.Queue(`
			INSERT INTO product_ingredients (id, product_id, raw_material_id, standard_qty)
			VALUES ($1, $2, $3, $4)`,
			ing.ID, p.ID, ing.RawMaterialID, ing.StandardQty,
		)
	}
	for _, opt := range p.PackagingOptions {
		batch.Queue(`
			INSERT INTO packaging_options (id, product_id, size_label, capacity, empty_container_cost)
			VALUES ($1, $2, $3, $4, $5)`,
			opt.ID, p.ID, opt.SizeLabel, opt.Capacity, opt.EmptyContainerCost,
		)
	}
	return execBatch(ctx, r.q, batch, "insert product")
}

// GetByID obtiene el producto con receta y presentaciones; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.ProductDefinition, error) {
	var p entity.ProductDefinition
	err := r.q.QueryRow(ctx, `
		SELECT id, name, unit_of_measure, overhead_percentage, specific_gravity, created_at, updated_at
		FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.UnitOfMeasure, &p.OverheadPercentage, &p.SpecificGravity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get product", err)
	}
	if err := r.loadChildren(ctx, []*entity.ProductDefinition{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// List lista productos por nombre con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.ProductDefinition, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, unit_of_measure, overhead_percentage, specific_gravity, created_at, updated_at
		FROM products ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.Persistence("list products", err)
	}
	var list []*entity.ProductDefinition
	for rows.Next() {
		var p entity.ProductDefinition
		if err := rows.Scan(&p.ID, &p.Name, &p.UnitOfMeasure, &p.OverheadPercentage, &p.SpecificGravity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, domain.Persistence("scan product", err)
		}
		list = append(list, &p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list products", err)
	}
	if err := r.loadChildren(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete elimina el producto; receta y presentaciones caen por ON DELETE CASCADE.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return domain.Persistence("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// loadChildren carga ingredientes y presentaciones de varios productos con dos consultas.
func (r *ProductRepo) loadChildren(ctx context.Context, products []*entity.ProductDefinition) error {
	if len(products) == 0 {
		return nil
	}
	byID := make(map[string]*entity.ProductDefinition, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, raw_material_id, standard_qty
		FROM product_ingredients WHERE product_id = ANY($1) ORDER BY product_id, id`, ids)
	if err != nil {
		return domain.Persistence("list ingredients", err)
	}
	for rows.Next() {
		var ing entity.ProductIngredient
		if err := rows.Scan(&ing.ID, &ing.ProductID, &ing.RawMaterialID, &ing.StandardQty); err != nil {
			rows.Close()
			return domain.Persistence("scan ingredient", err)
		}
		byID[ing.ProductID].Ingredients = append(byID[ing.ProductID].Ingredients, ing)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Persistence("list ingredients", err)
	}

	rows, err = r.q.Query(ctx, `
		SELECT id, product_id, size_label, capacity, empty_container_cost
		FROM packaging_options WHERE product_id = ANY($1) ORDER BY product_id, capacity`, ids)
	if err != nil {
		return domain.Persistence("list packaging options", err)
	}
	defer rows.Close()
	for rows.Next() {
		var opt entity.PackagingOption
		if err := rows.Scan(&opt.ID, &opt.ProductID, &opt.SizeLabel, &opt.Capacity, &opt.EmptyContainerCost); err != nil {
			return domain.Persistence("scan packaging option", err)
		}
		byID[opt.ProductID].PackagingOptions = append(byID[opt.ProductID].PackagingOptions, opt)
	}
	if err := rows.Err(); err != nil {
		return domain.Persistence("list packaging options", err)
	}
	return nil
}

// execBatch envía el batch y revisa cada resultado; el primer error corta.
func execBatch(ctx context.Context, q Querier, batch *pgx.Batch, op string) error {
	results := q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return wrap(op, err)
		}
	}
	return wrap(op, results.Close())
}
