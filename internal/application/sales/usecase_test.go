package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/application/sales"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	uc     *sales.SaleUseCase
	ledger *inventory.LedgerUseCase
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Products().Create(ctx, &entity.ProductDefinition{
		ID: "p-1", Name: "Esmalte",
		PackagingOptions: []entity.PackagingOption{{ID: "opt-1", ProductID: "p-1", SizeLabel: "1L", Capacity: d("1"), EmptyContainerCost: d("51")}},
	}))
	require.NoError(t, s.SalesPeople().Create(ctx, &entity.SalesPerson{ID: "sp-1", Name: "Ana Ruiz"}))
	require.NoError(t, s.SalesPeople().Create(ctx, &entity.SalesPerson{ID: "sp-2", Name: "Luis Mora"}))
	require.NoError(t, s.Partners().Create(ctx, &entity.BusinessPartner{ID: "cus-1", Name: "Ferretería Sol", Type: entity.PartnerTypeCustomer, SalesPersonID: "sp-1"}))

	ledger := inventory.NewLedgerUseCase(s, s.Movements(), s.RawMaterials(), s.Products(), inventory.CompensationPurge)
	out := entity.NewMovementEntry(entity.FinishedGoodKey("p-1", "opt-1"), "Esmalte - 1L", d("10"), d("120"), entity.ReferenceProduction, "BN-1", "Salida de producción")
	require.NoError(t, ledger.Post(ctx, "user-1", []*entity.MovementEntry{out}))

	now := time.Date(2026, 7, 1, 16, 45, 0, 0, time.UTC)
	uc := sales.NewSaleUseCase(s, s.Sales(), s.Partners(), s.SalesPeople(), ledger).WithClock(func() time.Time { return now })
	return fixture{uc: uc, ledger: ledger}
}

func saleRequest() dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		CustomerID: "cus-1",
		Items:      []dto.SaleItemRequest{{ProductID: "p-1", PackagingOptionID: "opt-1", Quantity: d("4"), UnitPrice: d("250")}},
	}
}

func assertInvariant(t *testing.T, s *dto.SaleResponse) {
	t.Helper()
	assert.True(t, s.PaidAmount.Add(s.Balance).Equal(s.TotalAmount), "pagado + saldo = total")
	assert.False(t, s.Balance.IsNegative())
}

func TestCreate_ACreditoHeredaVendedor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	sale, err := f.uc.Create(ctx, "user-1", saleRequest())
	require.NoError(t, err)

	assert.Regexp(t, `^INV-20260701-1645-[0-9A-F]{4}$`, sale.InvoiceNumber)
	assert.Equal(t, "Ferretería Sol", sale.CustomerName)
	assert.Equal(t, "Ana Ruiz", sale.SalesPersonName)
	assert.Equal(t, entity.PaymentStatusCredit, sale.PaymentStatus)
	assert.Equal(t, entity.PaymentMethodCredit, sale.PaymentMethod)
	assert.True(t, sale.TotalAmount.Equal(d("1000")))
	assert.True(t, sale.Balance.Equal(d("1000")))
	assert.Empty(t, sale.Payments)
	assertInvariant(t, sale)

	bal, err := f.ledger.Balance(ctx, entity.FinishedGoodKey("p-1", "opt-1"))
	require.NoError(t, err)
	assert.True(t, bal.Quantity.Equal(d("6")))
	assert.True(t, bal.Value.Equal(d("720")), "la salida se valora al costo promedio")

	entries, err := f.ledger.ListByReference(ctx, entity.ReferenceSale, sale.InvoiceNumber)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Vendido a Ferretería Sol", entries[0].Notes)
}

func TestCreate_ClienteDeMostradorYVendedorExplicito(t *testing.T) {
	f := setup(t)
	req := saleRequest()
	req.CustomerID = ""
	req.WalkInName = "Pedro"
	req.SalesPersonID = "sp-2"
	sale, err := f.uc.Create(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, "Pedro (Walk-in)", sale.CustomerName)
	assert.Equal(t, "Luis Mora", sale.SalesPersonName)

	req.WalkInName = ""
	req.SalesPersonID = ""
	sale, err = f.uc.Create(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, sales.WalkInCustomer, sale.CustomerName)
	assert.Equal(t, sales.UnassignedSalesRep, sale.SalesPersonName)
}

func TestCreate_DeContado(t *testing.T) {
	f := setup(t)
	req := saleRequest()
	req.PaymentStatus = entity.PaymentStatusPaid
	req.PaymentMethod = entity.PaymentMethodBank
	_, err := f.uc.Create(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, domain.ErrPaymentReferenceRequired)

	req.TransactionReference = "TRX-889"
	sale, err := f.uc.Create(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, sale.PaymentStatus)
	assert.True(t, sale.Balance.IsZero())
	require.Len(t, sale.Payments, 1)
	assert.True(t, sale.Payments[0].Amount.Equal(d("1000")))
	assert.NotEmpty(t, sale.Payments[0].ID)
	assertInvariant(t, sale)
}

func TestCreate_ItemsDesconocidos(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := saleRequest()
	req.Items[0].PackagingOptionID = "opt-x"
	_, err := f.uc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrUnknownItem)

	req = saleRequest()
	req.CustomerID = "nadie"
	_, err = f.uc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req = saleRequest()
	req.SalesPersonID = "sp-x"
	_, err = f.uc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bal, err := f.ledger.Balance(ctx, entity.FinishedGoodKey("p-1", "opt-1"))
	require.NoError(t, err)
	assert.True(t, bal.Quantity.Equal(d("10")))
}

func TestRecordPayment_Estados(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	sale, err := f.uc.Create(ctx, "user-1", saleRequest())
	require.NoError(t, err)

	sale, err = f.uc.RecordPayment(ctx, sale.ID, dto.RecordPaymentRequest{Amount: d("400"), Method: entity.PaymentMethodCash})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, sale.PaymentStatus)
	assert.True(t, sale.Balance.Equal(d("600")))
	assertInvariant(t, sale)

	_, err = f.uc.RecordPayment(ctx, sale.ID, dto.RecordPaymentRequest{Amount: d("700"), Method: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	_, err = f.uc.RecordPayment(ctx, sale.ID, dto.RecordPaymentRequest{Amount: d("600"), Method: entity.PaymentMethodMpesa})
	assert.ErrorIs(t, err, domain.ErrPaymentReferenceRequired)

	sale, err = f.uc.RecordPayment(ctx, sale.ID, dto.RecordPaymentRequest{Amount: d("600"), Method: entity.PaymentMethodMpesa, Reference: "SBX12"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, sale.PaymentStatus)
	assert.True(t, sale.Balance.IsZero())
	assert.Len(t, sale.Payments, 2)
	assertInvariant(t, sale)

	_, err = f.uc.RecordPayment(ctx, sale.ID, dto.RecordPaymentRequest{Amount: d("1"), Method: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domain.ErrAlreadySettled)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))

	stored, err := f.uc.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Payments, 2)
	assert.True(t, stored.PaidAmount.Equal(d("1000")))

	_, err = f.uc.RecordPayment(ctx, "nada", dto.RecordPaymentRequest{Amount: d("1"), Method: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReport_PorVendedor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, "user-1", saleRequest())
	require.NoError(t, err)
	paid := saleRequest()
	paid.PaymentStatus = entity.PaymentStatusPaid
	paid.PaymentMethod = entity.PaymentMethodCash
	_, err = f.uc.Create(ctx, "user-1", paid)
	require.NoError(t, err)

	rows, err := f.uc.Report(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana Ruiz", rows[0].SalesPerson)
	assert.Equal(t, 2, rows[0].Count)
	assert.True(t, rows[0].TotalSales.Equal(d("2000")))
	assert.True(t, rows[0].CashCollected.Equal(d("1000")))
	assert.True(t, rows[0].Outstanding.Equal(d("1000")))

	list, err := f.uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
