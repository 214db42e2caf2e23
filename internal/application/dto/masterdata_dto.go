package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRawMaterialRequest body para POST /api/master/raw-materials.
type CreateRawMaterialRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Category string          `json:"category,omitempty" validate:"max=100"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// UpdateRawMaterialCostRequest body para PUT /api/master/raw-materials/:id/cost.
type UpdateRawMaterialCostRequest struct {
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// RawMaterialResponse materia prima en respuestas.
type RawMaterialResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IngredientRequest línea de receta estándar.
type IngredientRequest struct {
	RawMaterialID string          `json:"raw_material_id" validate:"required"`
	StandardQty   decimal.Decimal `json:"standard_qty"`
}

// PackagingOptionRequest presentación del producto.
type PackagingOptionRequest struct {
	SizeLabel          string          `json:"size_label" validate:"required,max=50"`
	Capacity           decimal.Decimal `json:"capacity"`
	EmptyContainerCost decimal.Decimal `json:"empty_container_cost"`
}

// CreateProductRequest body para POST /api/master/products.
type CreateProductRequest struct {
	Name               string                   `json:"name" validate:"required,min=1,max=200"`
	UnitOfMeasure      string                   `json:"unit_of_measure,omitempty" validate:"max=20"`
	OverheadPercentage decimal.Decimal          `json:"overhead_percentage"`
	SpecificGravity    decimal.Decimal          `json:"specific_gravity"`
	Ingredients        []IngredientRequest      `json:"ingredients" validate:"dive"`
	PackagingOptions   []PackagingOptionRequest `json:"packaging_options" validate:"dive"`
}

// IngredientResponse línea de receta en respuestas.
type IngredientResponse struct {
	ID            string          `json:"id"`
	RawMaterialID string          `json:"raw_material_id"`
	StandardQty   decimal.Decimal `json:"standard_qty"`
}

// PackagingOptionResponse presentación en respuestas.
type PackagingOptionResponse struct {
	ID                 string          `json:"id"`
	SizeLabel          string          `json:"size_label"`
	Capacity           decimal.Decimal `json:"capacity"`
	EmptyContainerCost decimal.Decimal `json:"empty_container_cost"`
}

// ProductResponse producto con receta y presentaciones.
type ProductResponse struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	UnitOfMeasure      string                    `json:"unit_of_measure"`
	OverheadPercentage decimal.Decimal           `json:"overhead_percentage"`
	SpecificGravity    decimal.Decimal           `json:"specific_gravity"`
	Ingredients        []IngredientResponse      `json:"ingredients"`
	PackagingOptions   []PackagingOptionResponse `json:"packaging_options"`
}

// CreatePartnerRequest body para POST /api/master/partners.
type CreatePartnerRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Type          string `json:"type" validate:"required,oneof=SUPPLIER CUSTOMER"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Address       string `json:"address,omitempty"`
	SalesPersonID string `json:"sales_person_id,omitempty"`
}

// PartnerResponse tercero en respuestas.
type PartnerResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	SalesPersonID string `json:"sales_person_id,omitempty"`
}

// CreateSalesPersonRequest body para POST /api/master/sales-people.
type CreateSalesPersonRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Phone  string `json:"phone,omitempty"`
	Region string `json:"region,omitempty"`
}

// SalesPersonResponse vendedor en respuestas.
type SalesPersonResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Region string `json:"region,omitempty"`
}
