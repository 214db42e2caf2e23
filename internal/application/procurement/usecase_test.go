package procurement_test

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
	"github.com/jhoicas/produccion-api/internal/application/procurement"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*procurement.OrderUseCase, *inventory.LedgerUseCase, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.RawMaterials().Create(ctx, &entity.RawMaterial{ID: "rm-1", Name: "Resina alquídica", UnitCost: d("245")}))
	require.NoError(t, s.RawMaterials().Create(ctx, &entity.RawMaterial{ID: "rm-2", Name: "Varsol", UnitCost: d("171.95")}))
	require.NoError(t, s.Partners().Create(ctx, &entity.BusinessPartner{ID: "sup-1", Name: "Químicos del Norte", Type: entity.PartnerTypeSupplier}))
	require.NoError(t, s.Partners().Create(ctx, &entity.BusinessPartner{ID: "cus-1", Name: "Ferretería Sol", Type: entity.PartnerTypeCustomer}))
	ledger := inventory.NewLedgerUseCase(s, s.Movements(), s.RawMaterials(), s.Products(), inventory.CompensationPurge)
	now := time.Date(2026, 2, 10, 11, 0, 0, 0, time.UTC)
	uc := procurement.NewOrderUseCase(s, s.PurchaseOrders(), s.Partners(), ledger).WithClock(func() time.Time { return now })
	return uc, ledger, s
}

func orderRequest() dto.CreatePurchaseOrderRequest {
	return dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1",
		Items: []dto.PurchaseOrderItemRequest{
			{RawMaterialID: "rm-1", Quantity: d("100"), UnitCost: d("240")},
			{RawMaterialID: "rm-2", Quantity: d("20.5"), UnitCost: d("170")},
		},
	}
}

func TestCreate_OrdenACredito(t *testing.T) {
	uc, _, _ := setup(t)
	po, err := uc.Create(context.Background(), "user-1", orderRequest())
	require.NoError(t, err)

	assert.Regexp(t, `^PO-20260210-1100-[0-9A-F]{4}$`, po.PONumber)
	assert.Equal(t, entity.POStatusPending, po.Status)
	assert.Equal(t, entity.PaymentStatusCredit, po.PaymentStatus)
	assert.Equal(t, entity.PaymentMethodCredit, po.PaymentMethod)
	assert.True(t, po.TotalAmount.Equal(d("27485")))
	assert.Equal(t, "Químicos del Norte", po.SupplierName)
}

func TestCreate_ValidaReferenciaDePago(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	req := orderRequest()
	req.PaymentStatus = entity.PaymentStatusPaid
	req.PaymentMethod = entity.PaymentMethodMpesa
	_, err := uc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrPaymentReferenceRequired)
	assert.Equal(t, domain.KindValidationFailure, domain.KindOf(err))

	req.TransactionReference = "QWE123RTY"
	po, err := uc.Create(ctx, "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentMethodMpesa, po.PaymentMethod)
	assert.Equal(t, "QWE123RTY", po.TransactionReference)
}

func TestCreate_Errores(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	req := orderRequest()
	req.SupplierID = "nadie"
	_, err := uc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req = orderRequest()
	req.SupplierID = "cus-1"
	_, err = uc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = orderRequest()
	req.Items[1].RawMaterialID = "rm-x"
	_, err = uc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrUnknownItem)

	req = orderRequest()
	req.Items[0].Quantity = decimal.Zero
	_, err = uc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = orderRequest()
	req.PONumber = "PO-MANUAL"
	_, err = uc.Create(ctx, "user-1", req)
	require.NoError(t, err)
	_, err = uc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrDuplicateNumber)
}

func TestReceive_RegistraUnaSolaVez(t *testing.T) {
	uc, ledger, _ := setup(t)
	ctx := context.Background()
	po, err := uc.Create(ctx, "user-1", orderRequest())
	require.NoError(t, err)

	received, err := uc.Receive(ctx, "user-2", po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, received.Status)
	require.NotNil(t, received.ReceivedDate)

	_, err = uc.Receive(ctx, "user-2", po.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReceived)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))

	bal, err := ledger.Balance(ctx, entity.RawMaterialKey("rm-1"))
	require.NoError(t, err)
	assert.True(t, bal.Quantity.Equal(d("100")))
	assert.True(t, bal.Value.Equal(d("24000")))

	entries, err := ledger.ListByReference(ctx, entity.ReferencePurchase, po.PONumber)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Desde Químicos del Norte (CREDIT)", entries[0].Notes)
	assert.Equal(t, "user-2", entries[0].CreatedBy)

	stored, err := uc.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, stored.Status)
}

func TestReceive_NoExiste(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.Receive(context.Background(), "user-1", "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceive_FalloAlMarcarRevierteMovimientos(t *testing.T) {
	uc, ledger, s := setup(t)
	ctx := context.Background()
	po, err := uc.Create(ctx, "user-1", orderRequest())
	require.NoError(t, err)

	s.FailOn(memory.OpMarkReceived, errors.New("timeout"))
	_, err = uc.Receive(ctx, "user-1", po.ID)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	bal, err := ledger.Balance(ctx, entity.RawMaterialKey("rm-1"))
	require.NoError(t, err)
	assert.True(t, bal.Quantity.IsZero())

	s.FailOn(memory.OpMarkReceived, nil)
	_, err = uc.Receive(ctx, "user-1", po.ID)
	require.NoError(t, err)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.POStatusReceived, list[0].Status)
}
