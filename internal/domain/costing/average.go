package costing

import "github.com/shopspring/decimal"

// AverageUnitCost costo promedio ponderado de una línea de stock: valor / cantidad.
// Devuelve cero si la cantidad no es positiva (sin existencias no hay costo promedio).
func AverageUnitCost(quantity, value decimal.Decimal) decimal.Decimal {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return value.Div(quantity)
}
