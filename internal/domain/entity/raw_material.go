package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterial materia prima. UnitCost es el precio vigente que se toma como
// snapshot al costear una corrida; no guarda historial.
type RawMaterial struct {
	ID        string
	Name      string
	Category  string
	UnitCost  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
