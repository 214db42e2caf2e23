// Package production orquesta las corridas de producción: costea con la cascada,
// guarda la corrida y registra consumo y salida en el kardex en una sola transacción.
package production

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/application/numbering"
	"github.com/jhoicas/produccion-api/internal/application/ports"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/costing"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// Notas de los movimientos que genera una corrida.
const (
	NoteConsumption = "Consumo"
	NoteOutput      = "Salida de producción"
	NoteRepackaged  = "Empaque actualizado"
)

// RunUseCase casos de uso de corridas de producción.
type RunUseCase struct {
	txRunner   ports.TxRunner
	runs       repository.ProductionRunRepository
	movements  repository.MovementRepository
	ledger     Ledger
	calculator costing.Calculator
	generator  CostSheetGenerator
	now        func() time.Time
}

// NewRunUseCase construye el caso de uso. generator puede ser nil si no se expone la hoja de costeo.
func NewRunUseCase(
	txRunner ports.TxRunner,
	runs repository.ProductionRunRepository,
	movements repository.MovementRepository,
	ledger Ledger,
	calculator costing.Calculator,
	generator CostSheetGenerator,
) *RunUseCase {
	return &RunUseCase{
		txRunner:   txRunner,
		runs:       runs,
		movements:  movements,
		ledger:     ledger,
		calculator: calculator,
		generator:  generator,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *RunUseCase) WithClock(now func() time.Time) *RunUseCase {
	uc.now = now
	return uc
}

// RecordRun costea y registra una corrida. Los costos unitarios de materia prima
// se leen una sola vez dentro de la transacción y quedan congelados en la corrida.
func (uc *RunUseCase) RecordRun(ctx context.Context, userID string, in dto.CreateProductionRunRequest) (*dto.ProductionRunResponse, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.Invalid("product_id requerido")
	}
	if in.TotalYield.IsNegative() {
		return nil, domain.Invalid("total_yield no puede ser negativo")
	}
	if len(in.Ingredients) == 0 && len(in.Packages) == 0 {
		return nil, domain.Invalid("la corrida no tiene ingredientes ni paquetes")
	}
	for _, ing := range in.Ingredients {
		if ing.RawMaterialID == "" || !ing.QuantityUsed.IsPositive() {
			return nil, domain.Invalid("ingrediente %q: cantidad usada debe ser mayor que cero", ing.RawMaterialID)
		}
	}
	if err := validatePackages(in.Packages); err != nil {
		return nil, err
	}

	runDate := uc.now()
	if in.RunDate != nil {
		runDate = *in.RunDate
	}

	var run *entity.ProductionRun
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		// ── 1. Producto y precios snapshot ──────────────────────────────────
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.Unknown("producto", in.ProductID)
		}
		usages := make([]costing.IngredientUsage, 0, len(in.Ingredients))
		for _, ing := range in.Ingredients {
			rm, err := repos.RawMaterials.GetByID(ctx, ing.RawMaterialID)
			if err != nil {
				return err
			}
			if rm == nil {
				return domain.Unknown("materia prima", ing.RawMaterialID)
			}
			usages = append(usages, costing.IngredientUsage{
				RawMaterialID: rm.ID,
				Name:          rm.Name,
				QuantityUsed:  ing.QuantityUsed,
				UnitCost:      rm.UnitCost,
			})
		}
		lines, err := packagingLines(product, in.Packages)
		if err != nil {
			return err
		}

		// ── 2. Número de lote ───────────────────────────────────────────────
		batch, err := numbering.Resolve(ctx, in.BatchNumber, numbering.PrefixBatch, runDate, repos.Runs.ExistsBatchNumber)
		if err != nil {
			return err
		}

		// ── 3. Cascada de costos ────────────────────────────────────────────
		res := uc.calculator.Compute(costing.Input{
			Ingredients:        usages,
			OverheadPercentage: product.OverheadPercentage,
			TotalYield:         in.TotalYield,
			SpecificGravity:    product.SpecificGravity,
			Packaging:          lines,
		})

		run = &entity.ProductionRun{
			ID:                   uuid.New().String(),
			BatchNumber:          batch,
			RunDate:              runDate,
			ProductID:            product.ID,
			ProductName:          product.Name,
			TotalRawMaterialCost: res.RawMaterialCost,
			GrandTotalCost:       res.GrandTotalCost,
			TotalYield:           in.TotalYield,
			CostPerUnitMass:      res.CostPerUnitMass,
			CostPerUnitVolume:    res.CostPerUnitVolume,
			Packages:             packagesFrom(res.Packages),
			CreatedBy:            userID,
		}
		for i := range run.Packages {
			run.Packages[i].RunID = run.ID
		}

		// ── 4. Movimientos: consumo negativo y salida positiva ──────────────
		entries := make([]*entity.MovementEntry, 0, len(usages)+len(run.Packages))
		for _, u := range usages {
			entries = append(entries, entity.NewMovementEntry(
				entity.RawMaterialKey(u.RawMaterialID), u.Name,
				u.QuantityUsed.Neg(), u.UnitCost,
				entity.ReferenceProduction, batch, NoteConsumption,
			))
		}
		entries = append(entries, outputEntries(product, run, NoteOutput)...)
		for _, e := range entries {
			e.Date = runDate
		}

		// ── 5. Persistir corrida y kardex en la misma tx ────────────────────
		if err := repos.Runs.Create(ctx, run); err != nil {
			return err
		}
		return uc.ledger.PostInTx(ctx, repos.Movements, userID, entries)
	})
	if err != nil {
		return nil, err
	}
	return toRunResponse(run), nil
}

// RevisePackaging reemplaza los paquetes de una corrida. Reutiliza el costo por litro
// congelado; los movimientos de consumo no se tocan.
func (uc *RunUseCase) RevisePackaging(ctx context.Context, userID, runID string, in dto.RevisePackagingRequest) (*dto.ProductionRunResponse, error) {
	if runID == "" {
		return nil, domain.Invalid("id de corrida requerido")
	}
	if err := validatePackages(in.Packages); err != nil {
		return nil, err
	}

	var run *entity.ProductionRun
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		run, err = repos.Runs.GetByID(ctx, runID)
		if err != nil {
			return err
		}
		if run == nil {
			return domain.ErrNotFound
		}
		product, err := repos.Products.GetByID(ctx, run.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.Unknown("producto", run.ProductID)
		}
		lines, err := packagingLines(product, in.Packages)
		if err != nil {
			return err
		}

		costs := make([]costing.PackageCost, 0, len(lines))
		replacement := make(map[entity.ItemKey]decimal.Decimal, len(lines))
		for _, line := range lines {
			costs = append(costs, uc.calculator.PackageCost(line, run.CostPerUnitVolume))
			key := entity.FinishedGoodKey(product.ID, line.PackagingOptionID)
			replacement[key] = replacement[key].Add(line.Quantity)
		}
		if err := inventory.EnsureCanReplace(ctx, repos.Movements, entity.ReferenceProduction, run.BatchNumber, entity.ItemKindFinishedGood, replacement); err != nil {
			return err
		}

		run.Packages = packagesFrom(costs)
		for i := range run.Packages {
			run.Packages[i].RunID = run.ID
		}
		if _, err := uc.ledger.CompensateInTx(ctx, repos.Movements, userID, entity.ReferenceProduction, run.BatchNumber, entity.ItemKindFinishedGood); err != nil {
			return err
		}
		if err := repos.Runs.ReplacePackages(ctx, run.ID, run.Packages); err != nil {
			return err
		}
		return uc.ledger.PostInTx(ctx, repos.Movements, userID, outputEntries(product, run, NoteRepackaged))
	})
	if err != nil {
		return nil, err
	}
	return toRunResponse(run), nil
}

// DeleteRun deshace consumo y salida del lote y elimina la corrida.
// Falla con ErrBatchStockConsumed si parte de la salida ya se vendió o ajustó.
func (uc *RunUseCase) DeleteRun(ctx context.Context, userID, runID string) error {
	if runID == "" {
		return domain.Invalid("id de corrida requerido")
	}
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		run, err := repos.Runs.GetByID(ctx, runID)
		if err != nil {
			return err
		}
		if run == nil {
			return domain.ErrNotFound
		}
		if err := inventory.EnsureCanWithdraw(ctx, repos.Movements, entity.ReferenceProduction, run.BatchNumber, ""); err != nil {
			return err
		}
		if _, err := uc.ledger.CompensateInTx(ctx, repos.Movements, userID, entity.ReferenceProduction, run.BatchNumber, ""); err != nil {
			return err
		}
		return repos.Runs.Delete(ctx, run.ID)
	})
}

// GetRun devuelve una corrida con sus paquetes.
func (uc *RunUseCase) GetRun(ctx context.Context, runID string) (*dto.ProductionRunResponse, error) {
	run, err := uc.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrNotFound
	}
	return toRunResponse(run), nil
}

// ListRuns lista corridas, más reciente primero.
func (uc *RunUseCase) ListRuns(ctx context.Context, page dto.PageRequest) ([]*dto.ProductionRunResponse, error) {
	page.DefaultPage()
	list, err := uc.runs.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductionRunResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRunResponse(r))
	}
	return out, nil
}

// CostSheetPDF genera la hoja de costeo de la corrida.
func (uc *RunUseCase) CostSheetPDF(ctx context.Context, runID string) (pdfBytes []byte, filename string, err error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("hoja de costeo: generador no configurado")
	}
	run, err := uc.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, "", err
	}
	if run == nil {
		return nil, "", domain.ErrNotFound
	}
	entries, err := uc.movements.ListByReference(ctx, entity.ReferenceProduction, run.BatchNumber, entity.ItemKindRawMaterial)
	if err != nil {
		return nil, "", err
	}
	sheet := CostSheet{Run: run, TaxRate: uc.calculator.TaxRate(), Consumption: consumptionLines(entries)}
	pdfBytes, err = uc.generator.GenerateCostSheet(ctx, sheet)
	if err != nil {
		return nil, "", fmt.Errorf("hoja de costeo: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("costeo_%s.pdf", run.BatchNumber), nil
}

func validatePackages(pkgs []dto.PackageRequest) error {
	for _, p := range pkgs {
		if p.PackagingOptionID == "" {
			return domain.Invalid("packaging_option_id requerido")
		}
		if p.Quantity.IsNegative() {
			return domain.Invalid("presentación %q: cantidad negativa", p.PackagingOptionID)
		}
	}
	return nil
}

// packagingLines resuelve las presentaciones del producto; omite las líneas en cero.
func packagingLines(product *entity.ProductDefinition, pkgs []dto.PackageRequest) ([]costing.PackagingLine, error) {
	lines := make([]costing.PackagingLine, 0, len(pkgs))
	for _, p := range pkgs {
		if p.Quantity.IsZero() {
			continue
		}
		opt, ok := product.PackagingOption(p.PackagingOptionID)
		if !ok {
			return nil, domain.Unknown("presentación", p.PackagingOptionID)
		}
		lines = append(lines, costing.PackagingLine{
			PackagingOptionID:  opt.ID,
			SizeLabel:          opt.SizeLabel,
			Capacity:           opt.Capacity,
			EmptyContainerCost: opt.EmptyContainerCost,
			Quantity:           p.Quantity,
		})
	}
	return lines, nil
}

// packagesFrom guarda los snapshots con precisión completa; se redondean al presentar.
func packagesFrom(costs []costing.PackageCost) []entity.ProductionPackage {
	out := make([]entity.ProductionPackage, 0, len(costs))
	for _, c := range costs {
		out = append(out, entity.ProductionPackage{
			ID:                    uuid.New().String(),
			PackagingOptionID:     c.PackagingOptionID,
			SizeLabel:             c.SizeLabel,
			QuantityProduced:      c.Quantity,
			SnapshotLiquidCost:    c.LiquidCost,
			SnapshotContainerCost: c.ContainerCost,
			SnapshotTax:           c.Tax,
			UnitFinalCost:         c.FinalUnitCost,
		})
	}
	return out
}

func outputEntries(product *entity.ProductDefinition, run *entity.ProductionRun, note string) []*entity.MovementEntry {
	entries := make([]*entity.MovementEntry, 0, len(run.Packages))
	for _, p := range run.Packages {
		opt, _ := product.PackagingOption(p.PackagingOptionID)
		entries = append(entries, entity.NewMovementEntry(
			entity.FinishedGoodKey(product.ID, p.PackagingOptionID), product.VariantName(opt),
			p.QuantityProduced, costing.Round(p.UnitFinalCost),
			entity.ReferenceProduction, run.BatchNumber, note,
		))
	}
	return entries
}

// consumptionLines toma los consumos vigentes (sin reversiones) en positivo.
func consumptionLines(entries []*entity.MovementEntry) []ConsumptionLine {
	reversed := make(map[string]bool)
	for _, e := range entries {
		if e.ReversalOf != "" {
			reversed[e.ReversalOf] = true
		}
	}
	out := make([]ConsumptionLine, 0, len(entries))
	for _, e := range entries {
		if e.ReversalOf != "" || reversed[e.ID] {
			continue
		}
		out = append(out, ConsumptionLine{
			RawMaterialID: e.ItemID,
			Name:          e.ItemName,
			Quantity:      e.Quantity.Neg(),
			UnitCost:      e.UnitCost,
			Total:         e.TotalValue.Neg(),
		})
	}
	return out
}

func toRunResponse(r *entity.ProductionRun) *dto.ProductionRunResponse {
	pkgs := make([]dto.ProductionPackageResponse, 0, len(r.Packages))
	for _, p := range r.Packages {
		pkgs = append(pkgs, dto.ProductionPackageResponse{
			ID:                p.ID,
			PackagingOptionID: p.PackagingOptionID,
			SizeLabel:         p.SizeLabel,
			QuantityProduced:  p.QuantityProduced,
			LiquidCost:        costing.Round(p.SnapshotLiquidCost),
			ContainerCost:     costing.Round(p.SnapshotContainerCost),
			Tax:               costing.Round(p.SnapshotTax),
			UnitFinalCost:     costing.Round(p.UnitFinalCost),
		})
	}
	return &dto.ProductionRunResponse{
		ID:                   r.ID,
		BatchNumber:          r.BatchNumber,
		RunDate:              r.RunDate,
		ProductID:            r.ProductID,
		ProductName:          r.ProductName,
		TotalRawMaterialCost: costing.Round(r.TotalRawMaterialCost),
		GrandTotalCost:       costing.Round(r.GrandTotalCost),
		TotalYield:           r.TotalYield,
		CostPerUnitMass:      costing.Round(r.CostPerUnitMass),
		CostPerUnitVolume:    costing.Round(r.CostPerUnitVolume),
		Packages:             pkgs,
		CreatedBy:            r.CreatedBy,
	}
}
