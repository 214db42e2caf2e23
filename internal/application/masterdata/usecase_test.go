package masterdata_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/masterdata"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUseCase() *masterdata.UseCase {
	s := memory.New()
	return masterdata.NewUseCase(s.RawMaterials(), s.Products(), s.Partners(), s.SalesPeople())
}

func TestCreateProduct_ConRecetaYPresentaciones(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	rm, err := uc.CreateRawMaterial(ctx, dto.CreateRawMaterialRequest{Name: "Pine Oil", Category: "SOLUTION", UnitCost: d("650")})
	require.NoError(t, err)

	p, err := uc.CreateProduct(ctx, dto.CreateProductRequest{
		Name:               "Desinfectante",
		OverheadPercentage: d("10"),
		Ingredients:        []dto.IngredientRequest{{RawMaterialID: rm.ID, StandardQty: d("2.5")}},
		PackagingOptions: []dto.PackagingOptionRequest{
			{SizeLabel: "1L", Capacity: d("1"), EmptyContainerCost: d("51")},
			{SizeLabel: "20L", Capacity: d("20"), EmptyContainerCost: d("300")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "KG", p.UnitOfMeasure)
	assert.True(t, p.SpecificGravity.Equal(d("1")), "gravedad cero se toma como 1")
	assert.Len(t, p.Ingredients, 1)
	assert.Len(t, p.PackagingOptions, 2)

	got, err := uc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desinfectante", got.Name)
}

func TestCreateProduct_Errores(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, dto.CreateProductRequest{
		Name:        "X",
		Ingredients: []dto.IngredientRequest{{RawMaterialID: "nada", StandardQty: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownItem)

	_, err = uc.CreateProduct(ctx, dto.CreateProductRequest{
		Name: "X",
		PackagingOptions: []dto.PackagingOptionRequest{
			{SizeLabel: "1L", Capacity: d("1")},
			{SizeLabel: "1L", Capacity: d("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetProduct(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateRawMaterialCost(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	rm, err := uc.CreateRawMaterial(ctx, dto.CreateRawMaterialRequest{Name: "Water", UnitCost: d("0.10")})
	require.NoError(t, err)

	updated, err := uc.UpdateRawMaterialCost(ctx, rm.ID, dto.UpdateRawMaterialCostRequest{UnitCost: d("0.12")})
	require.NoError(t, err)
	assert.True(t, updated.UnitCost.Equal(d("0.12")))

	_, err = uc.UpdateRawMaterialCost(ctx, rm.ID, dto.UpdateRawMaterialCostRequest{UnitCost: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpdateRawMaterialCost(ctx, "nada", dto.UpdateRawMaterialCostRequest{UnitCost: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPartners(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	sp, err := uc.CreateSalesPerson(ctx, dto.CreateSalesPersonRequest{Name: "Ana Ruiz", Region: "Norte"})
	require.NoError(t, err)

	_, err = uc.CreatePartner(ctx, dto.CreatePartnerRequest{Name: "Tienda", Type: "CUSTOMER", SalesPersonID: sp.ID})
	require.NoError(t, err)
	_, err = uc.CreatePartner(ctx, dto.CreatePartnerRequest{Name: "Proveedor", Type: "SUPPLIER"})
	require.NoError(t, err)

	_, err = uc.CreatePartner(ctx, dto.CreatePartnerRequest{Name: "X", Type: "OTRO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreatePartner(ctx, dto.CreatePartnerRequest{Name: "X", Type: "CUSTOMER", SalesPersonID: "nadie"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	customers, err := uc.ListPartners(ctx, "CUSTOMER", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, sp.ID, customers[0].SalesPersonID)

	all, err := uc.ListPartners(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
