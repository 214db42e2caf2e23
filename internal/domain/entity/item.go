package entity

import (
	"fmt"

	"github.com/jhoicas/produccion-api/internal/domain"
)

// ItemKind discrimina el tipo de ítem que mueve el kardex.
type ItemKind string

const (
	ItemKindRawMaterial  ItemKind = "RAW_MATERIAL"  // materia prima
	ItemKindFinishedGood ItemKind = "FINISHED_GOOD" // producto terminado (por presentación)
)

// Valid indica si el tipo es uno de los reconocidos.
func (k ItemKind) Valid() bool {
	return k == ItemKindRawMaterial || k == ItemKindFinishedGood
}

// ParseItemKind convierte el texto recibido por transporte al tipo de ítem.
func ParseItemKind(s string) (ItemKind, error) {
	k := ItemKind(s)
	if !k.Valid() {
		return "", domain.Invalid("tipo de ítem %q", s)
	}
	return k, nil
}

// ItemKey identifica una línea de stock. VariantID solo tiene sentido para
// producto terminado: cada presentación del mismo producto es una línea distinta.
type ItemKey struct {
	Kind      ItemKind
	ItemID    string
	VariantID string
}

// RawMaterialKey construye la llave de una materia prima.
func RawMaterialKey(rawMaterialID string) ItemKey {
	return ItemKey{Kind: ItemKindRawMaterial, ItemID: rawMaterialID}
}

// FinishedGoodKey construye la llave de un producto terminado en una presentación.
func FinishedGoodKey(productID, packagingOptionID string) ItemKey {
	return ItemKey{Kind: ItemKindFinishedGood, ItemID: productID, VariantID: packagingOptionID}
}

// Validate verifica que la llave sea coherente con su tipo.
func (k ItemKey) Validate() error {
	if !k.Kind.Valid() {
		return domain.Invalid("tipo de ítem %q", k.Kind)
	}
	if k.ItemID == "" {
		return domain.Invalid("item_id requerido")
	}
	if k.Kind == ItemKindRawMaterial && k.VariantID != "" {
		return domain.Invalid("la materia prima no admite presentación")
	}
	return nil
}

func (k ItemKey) String() string {
	if k.VariantID == "" {
		return fmt.Sprintf("%s/%s", k.Kind, k.ItemID)
	}
	return fmt.Sprintf("%s/%s/%s", k.Kind, k.ItemID, k.VariantID)
}
