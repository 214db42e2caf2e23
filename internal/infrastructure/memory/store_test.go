package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/application/ports"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/infrastructure/memory"
)

func entry(id string, key entity.ItemKey, qty, cost string, number string, at time.Time) *entity.MovementEntry {
	e := entity.NewMovementEntry(key, "Ítem "+key.ItemID, decimal.RequireFromString(qty), decimal.RequireFromString(cost),
		entity.ReferencePurchase, number, "")
	e.ID = id
	e.Date = at
	return e
}

func TestRun_ConfirmaAlTerminarSinError(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	key := entity.RawMaterialKey("rm-1")
	now := time.Now()

	err := s.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		return repos.Movements.CreateBatch(ctx, []*entity.MovementEntry{entry("m1", key, "10", "2", "PO-1", now)})
	})
	require.NoError(t, err)

	bal, err := s.Movements().SumByKey(ctx, key)
	require.NoError(t, err)
	assert.True(t, bal.Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, bal.Value.Equal(decimal.NewFromInt(20)))
}

func TestRun_DescartaCambiosSiFnFalla(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	key := entity.RawMaterialKey("rm-1")
	boom := errors.New("fallo de negocio")

	err := s.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		if err := repos.Movements.CreateBatch(ctx, []*entity.MovementEntry{entry("m1", key, "10", "2", "PO-1", time.Now())}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	bal, err := s.Movements().SumByKey(ctx, key)
	require.NoError(t, err)
	assert.True(t, bal.Quantity.IsZero())
}

func TestFailOn_CommitDevuelvePersistencia(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	s.FailOn(memory.OpCommit, errors.New("disco lleno"))
	key := entity.RawMaterialKey("rm-1")

	err := s.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		return repos.Movements.CreateBatch(ctx, []*entity.MovementEntry{entry("m1", key, "1", "1", "PO-1", time.Now())})
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, domain.KindPersistenceFailure, domain.KindOf(err))

	s.FailOn(memory.OpCommit, nil)
	list, err := s.Movements().ListByReference(ctx, entity.ReferencePurchase, "PO-1", "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMovementRepo_FiltrosYOrden(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := s.Movements()
	rm := entity.RawMaterialKey("rm-1")
	fg := entity.FinishedGoodKey("p-1", "opt-1")
	t0 := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateBatch(ctx, []*entity.MovementEntry{
		entry("a", rm, "5", "1", "REF", t0),
		entry("b", fg, "2", "3", "REF", t0.Add(time.Hour)),
		entry("c", rm, "-1", "1", "OTRA", t0.Add(2*time.Hour)),
	}))

	soloRM, err := repo.ListByReference(ctx, entity.ReferencePurchase, "REF", entity.ItemKindRawMaterial)
	require.NoError(t, err)
	require.Len(t, soloRM, 1)
	assert.Equal(t, "a", soloRM[0].ID)

	hist, err := repo.ListByItem(ctx, rm, nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "c", hist[0].ID, "más reciente primero")

	from := t0.Add(30 * time.Minute)
	hist, err = repo.ListByItem(ctx, rm, &from, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)

	n, err := repo.DeleteByReference(ctx, entity.ReferencePurchase, "REF", entity.ItemKindFinishedGood)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	used, err := repo.ExistsForItem(ctx, entity.ItemKindFinishedGood, "p-1")
	require.NoError(t, err)
	assert.False(t, used)

	// la variante vacía solo coincide con movimientos sin variante
	bal, err := repo.SumByKey(ctx, entity.ItemKey{Kind: entity.ItemKindFinishedGood, ItemID: "p-1"})
	require.NoError(t, err)
	assert.True(t, bal.Quantity.IsZero())
}

func TestMovementRepo_IDDuplicadoFalla(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Movements()
	key := entity.RawMaterialKey("rm-1")
	require.NoError(t, repo.CreateBatch(ctx, []*entity.MovementEntry{entry("x", key, "1", "1", "R", time.Now())}))
	err := repo.CreateBatch(ctx, []*entity.MovementEntry{entry("x", key, "1", "1", "R", time.Now())})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestRawMaterialDelete_QuitaLineasDeReceta(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.RawMaterials().Create(ctx, &entity.RawMaterial{ID: "rm-1", Name: "Soda"}))
	require.NoError(t, s.Products().Create(ctx, &entity.ProductDefinition{
		ID: "p-1", Name: "Jabón",
		Ingredients: []entity.ProductIngredient{{ID: "i-1", ProductID: "p-1", RawMaterialID: "rm-1", StandardQty: decimal.NewFromInt(1)}},
	}))

	require.NoError(t, s.RawMaterials().Delete(ctx, "rm-1"))

	p, err := s.Products().GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Empty(t, p.Ingredients)
	rm, err := s.RawMaterials().GetByID(ctx, "rm-1")
	require.NoError(t, err)
	assert.Nil(t, rm)
}

func TestSaleRepo_ResumenPorVendedor(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Sales()
	mk := func(id, sp string, total, paid int64) *entity.Sale {
		return &entity.Sale{
			ID: id, InvoiceNumber: "INV-" + id, SalesPersonName: sp,
			TotalAmount: decimal.NewFromInt(total), PaidAmount: decimal.NewFromInt(paid),
			Balance: decimal.NewFromInt(total - paid),
		}
	}
	require.NoError(t, repo.Create(ctx, mk("1", "Ana", 100, 100)))
	require.NoError(t, repo.Create(ctx, mk("2", "Ana", 50, 10)))
	require.NoError(t, repo.Create(ctx, mk("3", "Unassigned", 30, 0)))
	assert.ErrorIs(t, repo.Create(ctx, mk("1", "Ana", 1, 1)), domain.ErrDuplicateNumber)

	rows, err := repo.SummaryBySalesPerson(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana", rows[0].SalesPerson)
	assert.Equal(t, 2, rows[0].Count)
	assert.True(t, rows[0].TotalSales.Equal(decimal.NewFromInt(150)))
	assert.True(t, rows[0].CashCollected.Equal(decimal.NewFromInt(110)))
	assert.True(t, rows[0].Outstanding.Equal(decimal.NewFromInt(40)))
}
