package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestItemKey_Validate(t *testing.T) {
	tests := []struct {
		name    string
		key     entity.ItemKey
		wantErr bool
	}{
		{"materia prima", entity.RawMaterialKey("rm-1"), false},
		{"producto con presentación", entity.FinishedGoodKey("p-1", "opt-1"), false},
		{"producto sin presentación", entity.FinishedGoodKey("p-1", ""), false},
		{"materia prima con presentación", entity.ItemKey{Kind: entity.ItemKindRawMaterial, ItemID: "rm-1", VariantID: "x"}, true},
		{"sin id", entity.RawMaterialKey(""), true},
		{"tipo desconocido", entity.ItemKey{Kind: "OTRO", ItemID: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.key.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMovementEntry_ValorYReversa(t *testing.T) {
	e := entity.NewMovementEntry(entity.FinishedGoodKey("p-1", "opt-1"), "Pintura - 1L",
		d("-3"), d("127.9364"), entity.ReferenceSale, "INV-1", "venta")
	e.ID = "mov-1"

	assert.True(t, d("-383.8092").Equal(e.TotalValue))
	assert.Equal(t, entity.UnitUnit, e.UnitOfMeasure)

	rev := e.Reversal("reversión")
	assert.Equal(t, "mov-1", rev.ReversalOf)
	assert.True(t, rev.Quantity.Equal(d("3")))
	assert.True(t, rev.TotalValue.Equal(d("383.8092")))
	assert.Equal(t, e.Key(), rev.Key())
	assert.Equal(t, "INV-1", rev.ReferenceNumber)
}

func TestPurchaseOrder_ReceiveSoloUnaVez(t *testing.T) {
	po := &entity.PurchaseOrder{PONumber: "PO-1", Status: entity.POStatusPending, SupplierName: "Químicos SA", PaymentStatus: entity.PaymentStatusCredit,
		Items: []entity.PurchaseOrderItem{{RawMaterialID: "rm-1", RawMaterialName: "Resina", Quantity: d("10"), UnitCost: d("245")}}}
	po.Recalculate()
	require.True(t, d("2450").Equal(po.TotalAmount))

	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	require.NoError(t, po.Receive(now))
	assert.True(t, po.IsReceived())
	require.NotNil(t, po.ReceivedDate)
	assert.Equal(t, now, *po.ReceivedDate)

	err := po.Receive(now.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrAlreadyReceived)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, now, *po.ReceivedDate, "la fecha de recepción no cambia")

	entries := po.ReceiptEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ReferencePurchase, entries[0].ReferenceKind)
	assert.Equal(t, "PO-1", entries[0].ReferenceNumber)
	assert.True(t, entries[0].Quantity.Equal(d("10")))
	assert.True(t, entries[0].TotalValue.Equal(d("2450")))
	assert.Equal(t, "Desde Químicos SA (CREDIT)", entries[0].Notes)
}

func newCreditSale(total string) *entity.Sale {
	s := &entity.Sale{ID: "s-1", Items: []entity.SaleItem{{Quantity: d("1"), UnitPrice: d(total)}}}
	s.Recalculate()
	return s
}

func assertSaleInvariant(t *testing.T, s *entity.Sale) {
	t.Helper()
	assert.True(t, s.PaidAmount.Add(s.Balance).Equal(s.TotalAmount),
		"pagado %s + saldo %s debe ser total %s", s.PaidAmount, s.Balance, s.TotalAmount)
}

func TestSale_EstadosDePago(t *testing.T) {
	s := newCreditSale("1000")
	assert.Equal(t, entity.PaymentStatusCredit, s.PaymentStatus)
	assertSaleInvariant(t, s)

	require.NoError(t, s.ApplyPayment(entity.SalePayment{Amount: d("400"), Method: entity.PaymentMethodCash}))
	assert.Equal(t, entity.PaymentStatusPartial, s.PaymentStatus)
	assert.True(t, d("600").Equal(s.Balance))
	assertSaleInvariant(t, s)

	require.NoError(t, s.ApplyPayment(entity.SalePayment{Amount: d("600"), Method: entity.PaymentMethodMpesa, Reference: "QWE123"}))
	assert.Equal(t, entity.PaymentStatusPaid, s.PaymentStatus)
	assert.True(t, s.Balance.IsZero())
	assert.Len(t, s.Payments, 2)
	assertSaleInvariant(t, s)

	err := s.ApplyPayment(entity.SalePayment{Amount: d("1"), Method: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domain.ErrAlreadySettled)
	assert.Len(t, s.Payments, 2)
}

func TestSale_AbonosInvalidos(t *testing.T) {
	tests := []struct {
		name    string
		payment entity.SalePayment
		wantErr error
	}{
		{"sobrepago", entity.SalePayment{Amount: d("1000.01"), Method: entity.PaymentMethodCash}, domain.ErrOverpayment},
		{"monto cero", entity.SalePayment{Amount: decimal.Zero, Method: entity.PaymentMethodCash}, domain.ErrInvalidInput},
		{"monto negativo", entity.SalePayment{Amount: d("-5"), Method: entity.PaymentMethodCash}, domain.ErrInvalidInput},
		{"banco sin referencia", entity.SalePayment{Amount: d("10"), Method: entity.PaymentMethodBank}, domain.ErrPaymentReferenceRequired},
		{"método desconocido", entity.SalePayment{Amount: d("10"), Method: "CHEQUE"}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newCreditSale("1000")
			err := s.ApplyPayment(tt.payment)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, s.Payments)
			assert.True(t, s.PaidAmount.IsZero())
			assertSaleInvariant(t, s)
		})
	}
}

func TestSale_ContadoQuedaSaldada(t *testing.T) {
	s := newCreditSale("250")
	s.SettleInFull(time.Now(), entity.PaymentMethodCash, "")
	assert.Equal(t, entity.PaymentStatusPaid, s.PaymentStatus)
	require.Len(t, s.Payments, 1)
	assert.True(t, d("250").Equal(s.Payments[0].Amount))
	assertSaleInvariant(t, s)
}

func TestResolvePaymentTerms(t *testing.T) {
	status, method, err := entity.ResolvePaymentTerms(entity.PaymentStatusCredit, entity.PaymentMethodCash, "")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCredit, status)
	assert.Equal(t, entity.PaymentMethodCredit, method, "a crédito el método siempre es CREDIT")

	_, _, err = entity.ResolvePaymentTerms(entity.PaymentStatusPaid, entity.PaymentMethodMpesa, "")
	assert.ErrorIs(t, err, domain.ErrPaymentReferenceRequired)

	status, method, err = entity.ResolvePaymentTerms(entity.PaymentStatusPaid, entity.PaymentMethodBank, "TRX-9")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, status)
	assert.Equal(t, entity.PaymentMethodBank, method)

	_, _, err = entity.ResolvePaymentTerms("PENDIENTE", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
