package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceKind indica el documento de negocio que originó un movimiento.
type ReferenceKind string

const (
	ReferencePurchase   ReferenceKind = "PURCHASE"
	ReferenceProduction ReferenceKind = "PRODUCTION"
	ReferenceSale       ReferenceKind = "SALE"
	ReferenceAdjustment ReferenceKind = "ADJUSTMENT"
)

// Valid indica si la referencia es una de las reconocidas.
func (r ReferenceKind) Valid() bool {
	switch r {
	case ReferencePurchase, ReferenceProduction, ReferenceSale, ReferenceAdjustment:
		return true
	}
	return false
}

// Unidades de medida registradas en el kardex.
const (
	UnitKG   = "KG"
	UnitUnit = "UNIT"
)

// MovementEntry es una fila inmutable del kardex.
// Quantity es positiva en entradas (compra, producción) y negativa en salidas (consumo, venta).
// ItemName es una copia desnormalizada del nombre al momento de registrar.
type MovementEntry struct {
	ID              string
	Date            time.Time
	ItemKind        ItemKind
	ItemID          string
	VariantID       string
	ItemName        string
	UnitOfMeasure   string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	TotalValue      decimal.Decimal // Quantity * UnitCost
	ReferenceKind   ReferenceKind
	ReferenceNumber string
	Notes           string
	ReversalOf      string // ID del movimiento que compensa (modo reverse); vacío en movimientos normales
	CreatedBy       string
}

// NewMovementEntry construye un movimiento calculando el valor total.
func NewMovementEntry(key ItemKey, name string, qty, unitCost decimal.Decimal, ref ReferenceKind, refNumber, notes string) *MovementEntry {
	uom := UnitKG
	if key.Kind == ItemKindFinishedGood {
		uom = UnitUnit
	}
	return &MovementEntry{
		ItemKind:        key.Kind,
		ItemID:          key.ItemID,
		VariantID:       key.VariantID,
		ItemName:        name,
		UnitOfMeasure:   uom,
		Quantity:        qty,
		UnitCost:        unitCost,
		TotalValue:      qty.Mul(unitCost),
		ReferenceKind:   ref,
		ReferenceNumber: refNumber,
		Notes:           notes,
	}
}

// Key devuelve la llave de stock del movimiento.
func (m *MovementEntry) Key() ItemKey {
	return ItemKey{Kind: m.ItemKind, ItemID: m.ItemID, VariantID: m.VariantID}
}

// Reversal devuelve la copia negada del movimiento que lo compensa.
func (m *MovementEntry) Reversal(notes string) *MovementEntry {
	return &MovementEntry{
		ItemKind:        m.ItemKind,
		ItemID:          m.ItemID,
		VariantID:       m.VariantID,
		ItemName:        m.ItemName,
		UnitOfMeasure:   m.UnitOfMeasure,
		Quantity:        m.Quantity.Neg(),
		UnitCost:        m.UnitCost,
		TotalValue:      m.TotalValue.Neg(),
		ReferenceKind:   m.ReferenceKind,
		ReferenceNumber: m.ReferenceNumber,
		Notes:           notes,
		ReversalOf:      m.ID,
	}
}

// Balance es la agregación (cantidad, valor) de los movimientos de una llave.
type Balance struct {
	Key      ItemKey
	ItemName string
	Quantity decimal.Decimal
	Value    decimal.Decimal
}
