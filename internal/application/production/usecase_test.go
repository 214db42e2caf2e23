package production_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/application/production"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/costing"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var fixedNow = time.Date(2026, 5, 4, 9, 15, 0, 0, time.UTC)

type fixture struct {
	store  *memory.Store
	ledger *inventory.LedgerUseCase
	uc     *production.RunUseCase
	sheets *fakeGenerator
}

type fakeGenerator struct{ last production.CostSheet }

func (f *fakeGenerator) GenerateCostSheet(_ context.Context, sheet production.CostSheet) ([]byte, error) {
	f.last = sheet
	return []byte("%PDF-fake"), nil
}

func newFixture(t *testing.T, mode inventory.Compensation) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.RawMaterials().Create(ctx, &entity.RawMaterial{ID: "rm-1", Name: "Base surfactante", UnitCost: d("245")}))
	require.NoError(t, s.Products().Create(ctx, &entity.ProductDefinition{
		ID: "p-1", Name: "Lavaloza", UnitOfMeasure: "KG",
		OverheadPercentage: d("10"), SpecificGravity: d("1.10"),
		PackagingOptions: []entity.PackagingOption{
			{ID: "opt-1", ProductID: "p-1", SizeLabel: "1L", Capacity: d("1"), EmptyContainerCost: d("51")},
			{ID: "opt-4", ProductID: "p-1", SizeLabel: "4L", Capacity: d("4"), EmptyContainerCost: d("120")},
		},
	}))
	ledger := inventory.NewLedgerUseCase(s, s.Movements(), s.RawMaterials(), s.Products(), mode).
		WithClock(func() time.Time { return fixedNow })
	gen := &fakeGenerator{}
	uc := production.NewRunUseCase(s, s.Runs(), s.Movements(), ledger, costing.NewCalculator(costing.DefaultTaxRate), gen).
		WithClock(func() time.Time { return fixedNow })
	return &fixture{store: s, ledger: ledger, uc: uc, sheets: gen}
}

func scenarioRequest(batch string) dto.CreateProductionRunRequest {
	return dto.CreateProductionRunRequest{
		ProductID:   "p-1",
		BatchNumber: batch,
		TotalYield:  d("200"),
		Ingredients: []dto.IngredientUsageRequest{{RawMaterialID: "rm-1", QuantityUsed: d("40")}},
		Packages: []dto.PackageRequest{
			{PackagingOptionID: "opt-1", Quantity: d("10")},
			{PackagingOptionID: "opt-4", Quantity: d("0")},
		},
	}
}

func balance(t *testing.T, f *fixture, key entity.ItemKey) entity.Balance {
	t.Helper()
	b, err := f.ledger.Balance(context.Background(), key)
	require.NoError(t, err)
	return b
}

func TestRecordRun_EscenarioDeReferencia(t *testing.T) {
	f := newFixture(t, inventory.CompensationPurge)
	run, err := f.uc.RecordRun(context.Background(), "user-1", scenarioRequest(""))
	require.NoError(t, err)

	assert.Regexp(t, `^BN-20260504-0915-[0-9A-F]{4}$`, run.BatchNumber)
	assert.True(t, run.TotalRawMaterialCost.Equal(d("9800")))
	assert.True(t, run.GrandTotalCost.Equal(d("10780")))
	assert.True(t, run.CostPerUnitMass.Equal(d("53.9")))
	assert.True(t, run.CostPerUnitVolume.Equal(d("59.29")))

	// la línea en cero se omite
	require.Len(t, run.Packages, 1)
	pkg := run.Packages[0]
	assert.True(t, pkg.LiquidCost.Equal(d("59.29")))
	assert.True(t, pkg.Tax.Equal(d("17.6464")))
	assert.True(t, pkg.UnitFinalCost.Equal(d("127.9364")))

	rm := balance(t, f, entity.RawMaterialKey("rm-1"))
	assert.True(t, rm.Quantity.Equal(d("-40")))
	assert.True(t, rm.Value.Equal(d("-9800")))

	fg := balance(t, f, entity.FinishedGoodKey("p-1", "opt-1"))
	assert.True(t, fg.Quantity.Equal(d("10")))
	assert.True(t, fg.Value.Equal(d("1279.364")))
	assert.True(t, balance(t, f, entity.FinishedGoodKey("p-1", "opt-4")).Quantity.IsZero())

	entries, err := f.ledger.ListByReference(context.Background(), entity.ReferenceProduction, run.BatchNumber)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, production.NoteConsumption, entries[0].Notes)
	assert.Equal(t, production.NoteOutput, entries[1].Notes)
	assert.Equal(t, "Lavaloza - 1L", entries[1].ItemName)
}

func TestRecordRun_RendimientoCero(t *testing.T) {
	f := newFixture(t, inventory.CompensationPurge)
	req := scenarioRequest("")
	req.TotalYield = decimal.Zero

	run, err := f.uc.RecordRun(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.True(t, run.CostPerUnitMass.IsZero())
	require.Len(t, run.Packages, 1)
	assert.True(t, run.Packages[0].Tax.Equal(d("8.16")))
	assert.True(t, run.Packages[0].UnitFinalCost.Equal(d("59.16")))
}

func TestRecordRun_ElPrecioQuedaCongelado(t *testing.T) {
	f := newFixture(t, inventory.CompensationPurge)
	ctx := context.Background()
	run, err := f.uc.RecordRun(ctx, "user-1", scenarioRequest(""))
	require.NoError(t, err)

	require.NoError(t, f.store.RawMaterials().UpdateCost(ctx, "rm-1", d("999")))

	again, err := f.uc.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, again.TotalRawMaterialCost.Equal(d("9800")))
}

func TestRecordRun_ItemDesconocido(t *testing.T) {
	f := newFixture(t, inventory.CompensationPurge)
	ctx := context.Background()

	req := scenarioRequest("")
	req.Ingredients[0].RawMaterialID = "no-existe"
	_, err := f.uc.RecordRun(ctx, "user-1", req)
	assert.Equal(t, domain.KindUnknownItem, domain.KindOf(err))

	req = scenarioRequest("")
	req.ProductID = "no-existe"
	_, err = f.uc.RecordRun(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrUnknownItem)

	req = scenarioRequest("")
	req.Packages = []dto.PackageRequest{{PackagingOptionID: "opt-99", Quantity: d("1")}}
	_, err = f.uc.RecordRun(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrUnknownItem)

	runs, err := f.uc.ListRuns(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRecordRun_Validaciones(t *testing.T) {
	f := newFixture(t, inventory.CompensationPurge)
	ctx := context.Background()
	cases := map[string]func(r *dto.CreateProductionRunRequest){
		"sin producto":         func(r *dto.CreateProductionRunRequest) { r.ProductID = "" },
		"rendimiento negativo": func(r *dto.CreateProductionRunRequest) { r.TotalYield = d("-1") },
		"consumo cero":         func(r *dto.CreateProductionRunRequest) { r.Ingredients[0].QuantityUsed = decimal.Zero },
		"paquete negativo":     func(r *dto.CreateProductionRunRequest) { r.Packages[0].Quantity = d("-2") },
		"corrida vacía": func(r *dto.CreateProductionRunRequest) {
			r.Ingredients = nil
			r.Packages = nil
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := scenarioRequest("")
			mutate(&req)
			_, err := f.uc.RecordRun(ctx, "user-1", req)
			assert.Equal(t, domain.KindValidationFailure, domain.KindOf(err))
		})
	}
}

func TestRecordRun_LoteDuplicado(t *testing.T) {
	f := newFixture(t, inventory.CompensationPurge)
	ctx := context.Background()
	_, err := f.uc.RecordRun(ctx, "user-1", scenarioRequest("LOTE-7"))
	require.NoError(t, err)

	_, err = f.uc.RecordRun(ctx, "user-1", scenarioRequest("LOTE-7"))
	assert.ErrorIs(t, err, domain.ErrDuplicateNumber)
	assert.True(t, balance(t, f, entity.RawMaterialKey("rm-1")).Quantity.Equal(d("-40")))
}

func TestRecordRun_FalloDePersistenciaNoDejaRastro(t *testing.T) {
	for _, op := range []string{memory.OpCreateMovements, memory.OpCreateRun, memory.OpCommit} {
		t.Run(op, func(t *testing.T) {
			f := newFixture(t, inventory.CompensationPurge)
			ctx := context.Background()
			f.store.FailOn(op, errors.New("conexión perdida"))

			_, err := f.uc.RecordRun(ctx, "user-1", scenarioRequest("LOTE-1"))
			assert.Equal(t, domain.KindPersistenceFailure, domain.KindOf(err))

			runs, err := f.uc.ListRuns(ctx, dto.PageRequest{})
			require.NoError(t, err)
			assert.Empty(t, runs)
			assert.True(t, balance(t, f, entity.RawMaterialKey("rm-1")).Quantity.IsZero())
			assert.True(t, balance(t, f, entity.FinishedGoodKey("p-1", "opt-1")).Quantity.IsZero())
		})
	}
}

func TestDeleteRun_RestauraSaldos(t *testing.T) {
	for _, mode := range []inventory.Compensation{inventory.CompensationPurge, inventory.CompensationReverse} {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t, mode)
			ctx := context.Background()
			before := balance(t, f, entity.RawMaterialKey("rm-1"))

			run, err := f.uc.RecordRun(ctx, "user-1", scenarioRequest(""))
			require.NoError(t, err)
			require.NoError(t, f.uc.DeleteRun(ctx, "user-1", run.ID))

			after := balance(t, f, entity.RawMaterialKey("rm-1"))
			assert.True(t, before.Quantity.Equal(after.Quantity))
			assert.True(t, before.Value.Equal(after.Value))
			assert.True(t, balance(t, f, entity.FinishedGoodKey("p-1", "opt-1")).Quantity.IsZero())

			_, err = f.uc.GetRun(ctx, run.ID)
			assert.ErrorIs(t, err, domain.ErrNotFound)
			assert.ErrorIs(t, f.uc.DeleteRun(ctx, "user-1", run.ID), domain.ErrNotFound)
		})
	}
}

func TestRevisePackaging_SoloReemplazaProductoTerminado(t *testing.T) {
	for _, mode := range []inventory.Compensation{inventory.CompensationPurge, inventory.CompensationReverse} {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t, mode)
			ctx := context.Background()
			run, err := f.uc.RecordRun(ctx, "user-1", scenarioRequest(""))
			require.NoError(t, err)
			rmBefore := balance(t, f, entity.RawMaterialKey("rm-1"))

			// el costo del insumo cambia; la revisión debe usar el costo por litro congelado
			require.NoError(t, f.store.RawMaterials().UpdateCost(ctx, "rm-1", d("500")))

			revised, err := f.uc.RevisePackaging(ctx, "user-1", run.ID, dto.RevisePackagingRequest{
				Packages: []dto.PackageRequest{
					{PackagingOptionID: "opt-1", Quantity: d("6")},
					{PackagingOptionID: "opt-4", Quantity: d("2")},
				},
			})
			require.NoError(t, err)
			require.Len(t, revised.Packages, 2)
			assert.True(t, revised.CostPerUnitVolume.Equal(d("59.29")))
			assert.True(t, revised.Packages[1].UnitFinalCost.Equal(d("414.3056")))

			rmAfter := balance(t, f, entity.RawMaterialKey("rm-1"))
			assert.True(t, rmBefore.Quantity.Equal(rmAfter.Quantity))
			assert.True(t, rmBefore.Value.Equal(rmAfter.Value))
			assert.True(t, balance(t, f, entity.FinishedGoodKey("p-1", "opt-1")).Quantity.Equal(d("6")))
			assert.True(t, balance(t, f, entity.FinishedGoodKey("p-1", "opt-4")).Quantity.Equal(d("2")))

			stored, err := f.uc.GetRun(ctx, run.ID)
			require.NoError(t, err)
			assert.Len(t, stored.Packages, 2)
		})
	}
}

func TestRevisePackaging_MismoEmpaqueConservaCosto(t *testing.T) {
	for _, mode := range []inventory.Compensation{inventory.CompensationPurge, inventory.CompensationReverse} {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t, mode)
			ctx := context.Background()
			// costo por litro 1/3: no cabe en cuatro decimales
			require.NoError(t, f.store.RawMaterials().Create(ctx, &entity.RawMaterial{ID: "rm-3", Name: "Esencia", UnitCost: d("1")}))
			require.NoError(t, f.store.Products().Create(ctx, &entity.ProductDefinition{
				ID: "p-3", Name: "Ambientador", UnitOfMeasure: "KG",
				OverheadPercentage: decimal.Zero, SpecificGravity: d("1"),
				PackagingOptions: []entity.PackagingOption{
					{ID: "opt-20", ProductID: "p-3", SizeLabel: "20L", Capacity: d("20"), EmptyContainerCost: decimal.Zero},
				},
			}))
			pkgs := []dto.PackageRequest{{PackagingOptionID: "opt-20", Quantity: d("1")}}

			run, err := f.uc.RecordRun(ctx, "user-1", dto.CreateProductionRunRequest{
				ProductID:   "p-3",
				TotalYield:  d("3"),
				Ingredients: []dto.IngredientUsageRequest{{RawMaterialID: "rm-3", QuantityUsed: d("1")}},
				Packages:    pkgs,
			})
			require.NoError(t, err)
			require.Len(t, run.Packages, 1)
			assert.True(t, run.CostPerUnitVolume.Equal(d("0.3333")))
			assert.True(t, run.Packages[0].UnitFinalCost.Equal(d("7.7333")), "got %s", run.Packages[0].UnitFinalCost)
			key := entity.FinishedGoodKey("p-3", "opt-20")
			before := balance(t, f, key)

			revised, err := f.uc.RevisePackaging(ctx, "user-1", run.ID, dto.RevisePackagingRequest{Packages: pkgs})
			require.NoError(t, err)
			require.Len(t, revised.Packages, 1)
			assert.True(t, revised.Packages[0].UnitFinalCost.Equal(run.Packages[0].UnitFinalCost),
				"record=%s revise=%s", run.Packages[0].UnitFinalCost, revised.Packages[0].UnitFinalCost)
			assert.True(t, revised.Packages[0].LiquidCost.Equal(run.Packages[0].LiquidCost))

			after := balance(t, f, key)
			assert.True(t, after.Quantity.Equal(before.Quantity))
			assert.True(t, after.Value.Equal(before.Value), "antes=%s después=%s", before.Value, after.Value)
			assert.True(t, after.Value.Equal(d("7.7333")))
		})
	}
}

func TestRevisePackaging_NoExiste(t *testing.T) {
	f := newFixture(t, inventory.CompensationPurge)
	_, err := f.uc.RevisePackaging(context.Background(), "user-1", "nada", dto.RevisePackagingRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoteConsumido_BloqueaRevisionYBorrado(t *testing.T) {
	f := newFixture(t, inventory.CompensationPurge)
	ctx := context.Background()
	run, err := f.uc.RecordRun(ctx, "user-1", scenarioRequest(""))
	require.NoError(t, err)

	sale := entity.NewMovementEntry(entity.FinishedGoodKey("p-1", "opt-1"), "Lavaloza - 1L", d("-4"), d("127.9364"),
		entity.ReferenceSale, "INV-1", "Vendido a Tienda")
	require.NoError(t, f.ledger.Post(ctx, "user-1", []*entity.MovementEntry{sale}))

	err = f.uc.DeleteRun(ctx, "user-1", run.ID)
	assert.ErrorIs(t, err, domain.ErrBatchStockConsumed)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))

	_, err = f.uc.RevisePackaging(ctx, "user-1", run.ID, dto.RevisePackagingRequest{
		Packages: []dto.PackageRequest{{PackagingOptionID: "opt-1", Quantity: d("3")}},
	})
	assert.ErrorIs(t, err, domain.ErrBatchStockConsumed)

	// reducir a 5 deja saldo 1: permitido
	_, err = f.uc.RevisePackaging(ctx, "user-1", run.ID, dto.RevisePackagingRequest{
		Packages: []dto.PackageRequest{{PackagingOptionID: "opt-1", Quantity: d("5")}},
	})
	require.NoError(t, err)
	assert.True(t, balance(t, f, entity.FinishedGoodKey("p-1", "opt-1")).Quantity.Equal(d("1")))
}

func TestCostSheetPDF(t *testing.T) {
	f := newFixture(t, inventory.CompensationPurge)
	ctx := context.Background()
	run, err := f.uc.RecordRun(ctx, "user-1", scenarioRequest("LOTE-9"))
	require.NoError(t, err)

	pdf, name, err := f.uc.CostSheetPDF(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "costeo_LOTE-9.pdf", name)
	assert.NotEmpty(t, pdf)
	require.Len(t, f.sheets.last.Consumption, 1)
	assert.True(t, f.sheets.last.Consumption[0].Quantity.Equal(d("40")))
	assert.True(t, f.sheets.last.Consumption[0].Total.Equal(d("9800")))
	assert.True(t, f.sheets.last.TaxRate.Equal(d("0.16")))

	_, _, err = f.uc.CostSheetPDF(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
