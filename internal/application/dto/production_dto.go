package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngredientUsageRequest materia prima consumida en la corrida.
type IngredientUsageRequest struct {
	RawMaterialID string          `json:"raw_material_id" validate:"required"`
	QuantityUsed  decimal.Decimal `json:"quantity_used"`
}

// PackageRequest unidades envasadas en una presentación.
type PackageRequest struct {
	PackagingOptionID string          `json:"packaging_option_id" validate:"required"`
	Quantity          decimal.Decimal `json:"quantity"`
}

// CreateProductionRunRequest body para POST /api/production/runs.
// BatchNumber opcional; si va vacío se genera BN-yyyyMMdd-HHmm-XXXX.
type CreateProductionRunRequest struct {
	ProductID   string                   `json:"product_id" validate:"required"`
	BatchNumber string                   `json:"batch_number,omitempty" validate:"max=64"`
	RunDate     *time.Time               `json:"run_date,omitempty"`
	TotalYield  decimal.Decimal          `json:"total_yield"`
	Ingredients []IngredientUsageRequest `json:"ingredients" validate:"dive"`
	Packages    []PackageRequest         `json:"packages" validate:"dive"`
}

// RevisePackagingRequest body para PUT /api/production/runs/:id/packaging.
type RevisePackagingRequest struct {
	Packages []PackageRequest `json:"packages" validate:"dive"`
}

// ProductionPackageResponse paquete con su costo congelado.
type ProductionPackageResponse struct {
	ID                string          `json:"id"`
	PackagingOptionID string          `json:"packaging_option_id"`
	SizeLabel         string          `json:"size_label"`
	QuantityProduced  decimal.Decimal `json:"quantity_produced"`
	LiquidCost        decimal.Decimal `json:"liquid_cost"`
	ContainerCost     decimal.Decimal `json:"container_cost"`
	Tax               decimal.Decimal `json:"tax"`
	UnitFinalCost     decimal.Decimal `json:"unit_final_cost"`
}

// ProductionRunResponse corrida con costos y paquetes.
type ProductionRunResponse struct {
	ID                   string                      `json:"id"`
	BatchNumber          string                      `json:"batch_number"`
	RunDate              time.Time                   `json:"run_date"`
	ProductID            string                      `json:"product_id"`
	ProductName          string                      `json:"product_name"`
	TotalRawMaterialCost decimal.Decimal             `json:"total_raw_material_cost"`
	GrandTotalCost       decimal.Decimal             `json:"grand_total_cost"`
	TotalYield           decimal.Decimal             `json:"total_yield"`
	CostPerUnitMass      decimal.Decimal             `json:"cost_per_unit_mass"`
	CostPerUnitVolume    decimal.Decimal             `json:"cost_per_unit_volume"`
	Packages             []ProductionPackageResponse `json:"packages"`
	CreatedBy            string                      `json:"created_by,omitempty"`
}
