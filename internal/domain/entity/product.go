package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductDefinition define un producto fabricado.
// OverheadPercentage se aplica multiplicativamente sobre el costo de materia prima;
// SpecificGravity convierte costo por kg a costo por litro.
type ProductDefinition struct {
	ID                 string
	Name               string
	UnitOfMeasure      string
	OverheadPercentage decimal.Decimal
	SpecificGravity    decimal.Decimal
	Ingredients        []ProductIngredient
	PackagingOptions   []PackagingOption
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProductIngredient receta estándar (informativa; no se exige en la corrida).
type ProductIngredient struct {
	ID            string
	ProductID     string
	RawMaterialID string
	StandardQty   decimal.Decimal
}

// PackagingOption presentación de un producto (ej. "4L" con capacidad 4 y costo del envase).
type PackagingOption struct {
	ID                 string
	ProductID          string
	SizeLabel          string
	Capacity           decimal.Decimal
	EmptyContainerCost decimal.Decimal
}

// PackagingOption busca una presentación del producto por ID.
func (p *ProductDefinition) PackagingOption(id string) (PackagingOption, bool) {
	for _, o := range p.PackagingOptions {
		if o.ID == id {
			return o, true
		}
	}
	return PackagingOption{}, false
}

// VariantName nombre desnormalizado de una presentación para el kardex.
func (p *ProductDefinition) VariantName(opt PackagingOption) string {
	return p.Name + " - " + opt.SizeLabel
}
