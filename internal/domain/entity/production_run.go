package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionRun corrida de producción. Todos los costos son snapshots fijados al
// crear la corrida y no se recalculan con precios posteriores de materia prima.
// BatchNumber es la referencia de todos los movimientos que genera.
type ProductionRun struct {
	ID                   string
	BatchNumber          string
	RunDate              time.Time
	ProductID            string
	ProductName          string
	TotalRawMaterialCost decimal.Decimal
	GrandTotalCost       decimal.Decimal
	TotalYield           decimal.Decimal
	CostPerUnitMass      decimal.Decimal // costo por kg
	CostPerUnitVolume    decimal.Decimal // costo por litro
	Packages             []ProductionPackage
	CreatedBy            string
}

// ProductionPackage salida empacada de una corrida con su costo congelado.
type ProductionPackage struct {
	ID                    string
	RunID                 string
	PackagingOptionID     string
	SizeLabel             string
	QuantityProduced      decimal.Decimal
	SnapshotLiquidCost    decimal.Decimal
	SnapshotContainerCost decimal.Decimal
	SnapshotTax           decimal.Decimal
	UnitFinalCost         decimal.Decimal
}
