package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.ProductionRunRepository = (*ProductionRunRepo)(nil)

const runColumns = `id, batch_number, run_date, product_id, product_name, total_raw_material_cost,
	grand_total_cost, total_yield, cost_per_unit_mass, cost_per_unit_volume, created_by`

const insertPackage = `
	INSERT INTO production_packages (id, run_id, packaging_option_id, size_label, quantity_produced,
		snapshot_liquid_cost, snapshot_container_cost, snapshot_tax, unit_final_cost)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// ProductionRunRepo corridas de producción sobre PostgreSQL.
type ProductionRunRepo struct {
	q Querier
}

// NewProductionRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRunRepository(q Querier) *ProductionRunRepo {
	return &ProductionRunRepo{q: q}
}

func queuePackages(batch *pgx.Batch, runID string, packages []entity.ProductionPackage) {
	for _, p := range packages {
		batch.Queue(insertPackage,
			p.ID, runID, p.PackagingOptionID, p.SizeLabel, p.QuantityProduced,
			p.SnapshotLiquidCost, p.SnapshotContainerCost, p.SnapshotTax, p.UnitFinalCost,
		)
	}
}

// Create guarda cabecera y paquetes en un solo batch.
func (r *ProductionRunRepo) Create(ctx context.Context, run *entity.ProductionRun) error {
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO production_runs (`+runColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		run.ID, run.BatchNumber, run.RunDate, run.ProductID, run.ProductName, run.TotalRawMaterialCost,
		run.GrandTotalCost, run.TotalYield, run.CostPerUnitMass, run.CostPerUnitVolume, run.CreatedBy,
	)
	queuePackages(batch, run.ID, run.Packages)
	return execBatch(ctx, r.q, batch, "insert production run")
}

func (r *ProductionRunRepo) GetByID(ctx context.Context, id string) (*entity.ProductionRun, error) {
	row := r.q.QueryRow(ctx, `SELECT `+runColumns+` FROM production_runs WHERE id = $1`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get production run", err)
	}
	if err := r.loadPackages(ctx, []*entity.ProductionRun{run}); err != nil {
		return nil, err
	}
	return run, nil
}

// ExistsBatchNumber revisa corridas; el kardex usa el mismo número como referencia.
func (r *ProductionRunRepo) ExistsBatchNumber(ctx context.Context, batchNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM production_runs WHERE batch_number = $1)
		    OR EXISTS (SELECT 1 FROM stock_movements WHERE reference_kind = 'PRODUCTION' AND reference_number = $1)`,
		batchNumber,
	).Scan(&exists)
	if err != nil {
		return false, domain.Persistence("batch number exists", err)
	}
	return exists, nil
}

// ReplacePackages borra e inserta el nuevo conjunto de paquetes.
func (r *ProductionRunRepo) ReplacePackages(ctx context.Context, runID string, packages []entity.ProductionPackage) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM production_packages WHERE run_id = $1`, runID)
	queuePackages(batch, runID, packages)
	return execBatch(ctx, r.q, batch, "replace production packages")
}

// Delete elimina la corrida; los paquetes caen por ON DELETE CASCADE.
func (r *ProductionRunRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM production_runs WHERE id = $1`, id)
	if err != nil {
		return domain.Persistence("delete production run", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductionRunRepo) List(ctx context.Context, limit, offset int) ([]*entity.ProductionRun, error) {
	rows, err := r.q.Query(ctx, `SELECT `+runColumns+` FROM production_runs
		ORDER BY run_date DESC, batch_number DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.Persistence("list production runs", err)
	}
	var list []*entity.ProductionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, domain.Persistence("scan production run", err)
		}
		list = append(list, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list production runs", err)
	}
	if err := r.loadPackages(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func scanRun(row pgx.Row) (*entity.ProductionRun, error) {
	var run entity.ProductionRun
	err := row.Scan(&run.ID, &run.BatchNumber, &run.RunDate, &run.ProductID, &run.ProductName,
		&run.TotalRawMaterialCost, &run.GrandTotalCost, &run.TotalYield,
		&run.CostPerUnitMass, &run.CostPerUnitVolume, &run.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *ProductionRunRepo) loadPackages(ctx context.Context, runs []*entity.ProductionRun) error {
	if len(runs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.ProductionRun, len(runs))
	ids := make([]string, 0, len(runs))
	for _, run := range runs {
		byID[run.ID] = run
		ids = append(ids, run.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, run_id, packaging_option_id, size_label, quantity_produced,
		       snapshot_liquid_cost, snapshot_container_cost, snapshot_tax, unit_final_cost
		FROM production_packages WHERE run_id = ANY($1) ORDER BY run_id, size_label`, ids)
	if err != nil {
		return domain.Persistence("list production packages", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.ProductionPackage
		if err := rows.Scan(&p.ID, &p.RunID, &p.PackagingOptionID, &p.SizeLabel, &p.QuantityProduced,
			&p.SnapshotLiquidCost, &p.SnapshotContainerCost, &p.SnapshotTax, &p.UnitFinalCost); err != nil {
			return domain.Persistence("scan production package", err)
		}
		byID[p.RunID].Packages = append(byID[p.RunID].Packages, p)
	}
	if err := rows.Err(); err != nil {
		return domain.Persistence("list production packages", err)
	}
	return nil
}
