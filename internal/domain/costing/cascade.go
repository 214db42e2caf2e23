// Package costing implementa la cascada de costos de producción: de consumo de
// materia prima a costo unitario por presentación, incluyendo overhead e impuesto.
//
// Todo el cálculo usa decimal.Decimal y no redondea en pasos intermedios;
// el redondeo (mitad lejos de cero) se aplica solo con Round al presentar.
package costing

import "github.com/shopspring/decimal"

// OutputPlaces dígitos fraccionarios usados al presentar valores monetarios.
const OutputPlaces = 4

// DefaultTaxRate tasa de impuesto incluida en el costo final de cada presentación.
var DefaultTaxRate = decimal.RequireFromString("0.16")

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// IngredientUsage materia prima consumida con su precio snapshot.
type IngredientUsage struct {
	RawMaterialID string
	Name          string
	QuantityUsed  decimal.Decimal
	UnitCost      decimal.Decimal
}

// PackagingLine presentación a empacar y cuántas unidades.
type PackagingLine struct {
	PackagingOptionID  string
	SizeLabel          string
	Capacity           decimal.Decimal
	EmptyContainerCost decimal.Decimal
	Quantity           decimal.Decimal
}

// Input parámetros completos de la cascada.
type Input struct {
	Ingredients        []IngredientUsage
	OverheadPercentage decimal.Decimal
	TotalYield         decimal.Decimal
	SpecificGravity    decimal.Decimal
	Packaging          []PackagingLine
}

// IngredientCost costo de un ingrediente (cantidad × costo unitario).
type IngredientCost struct {
	IngredientUsage
	Cost decimal.Decimal
}

// PackageCost costo congelado por unidad de una presentación.
type PackageCost struct {
	PackagingLine
	LiquidCost    decimal.Decimal
	ContainerCost decimal.Decimal
	Tax           decimal.Decimal
	FinalUnitCost decimal.Decimal
}

// Result resultado de la cascada, en el orden en que se calcula.
type Result struct {
	Ingredients       []IngredientCost
	RawMaterialCost   decimal.Decimal
	GrandTotalCost    decimal.Decimal
	CostPerUnitMass   decimal.Decimal
	CostPerUnitVolume decimal.Decimal
	Packages          []PackageCost
}

// Calculator ejecuta la cascada con una tasa de impuesto fija. Es un valor
// sin estado: dos llamadas con la misma entrada producen el mismo resultado.
type Calculator struct {
	taxRate decimal.Decimal
}

// NewCalculator construye la calculadora con la tasa configurada.
func NewCalculator(taxRate decimal.Decimal) Calculator {
	return Calculator{taxRate: taxRate}
}

// TaxRate devuelve la tasa configurada.
func (c Calculator) TaxRate() decimal.Decimal { return c.taxRate }

// Compute aplica la cascada completa:
//
//	rawMaterialCost   = Σ(qty_i × unitCost_i)
//	grandTotalCost    = rawMaterialCost × (1 + overhead/100)
//	costPerUnitMass   = grandTotalCost / totalYield   (0 si totalYield <= 0)
//	costPerUnitVolume = costPerUnitMass × specificGravity
//
// y luego PackageCost por cada presentación.
func (c Calculator) Compute(in Input) Result {
	res := Result{
		Ingredients: make([]IngredientCost, 0, len(in.Ingredients)),
		Packages:    make([]PackageCost, 0, len(in.Packaging)),
	}

	raw := decimal.Zero
	for _, ing := range in.Ingredients {
		cost := ing.QuantityUsed.Mul(ing.UnitCost)
		raw = raw.Add(cost)
		res.Ingredients = append(res.Ingredients, IngredientCost{IngredientUsage: ing, Cost: cost})
	}
	res.RawMaterialCost = raw
	res.GrandTotalCost = raw.Mul(one.Add(in.OverheadPercentage.Div(hundred)))

	res.CostPerUnitMass = decimal.Zero
	if in.TotalYield.GreaterThan(decimal.Zero) {
		res.CostPerUnitMass = res.GrandTotalCost.Div(in.TotalYield)
	}
	res.CostPerUnitVolume = res.CostPerUnitMass.Mul(in.SpecificGravity)

	for _, line := range in.Packaging {
		res.Packages = append(res.Packages, c.PackageCost(line, res.CostPerUnitVolume))
	}
	return res
}

// PackageCost costea una presentación con un costo por litro ya fijado:
//
//	liquidCost    = capacity × costPerUnitVolume
//	tax           = (liquidCost + containerCost) × taxRate
//	finalUnitCost = (liquidCost + containerCost) × (1 + taxRate)
//
// Se usa también al revisar el empaque de una corrida existente.
func (c Calculator) PackageCost(line PackagingLine, costPerUnitVolume decimal.Decimal) PackageCost {
	liquid := line.Capacity.Mul(costPerUnitVolume)
	base := liquid.Add(line.EmptyContainerCost)
	return PackageCost{
		PackagingLine: line,
		LiquidCost:    liquid,
		ContainerCost: line.EmptyContainerCost,
		Tax:           base.Mul(c.taxRate),
		FinalUnitCost: base.Mul(one.Add(c.taxRate)),
	}
}

// Round redondea para presentación (mitad lejos de cero, OutputPlaces dígitos).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(OutputPlaces)
}
