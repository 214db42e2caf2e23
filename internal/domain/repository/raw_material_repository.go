package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// RawMaterialRepository define el puerto de persistencia para materias primas.
type RawMaterialRepository interface {
	Create(ctx context.Context, rm *entity.RawMaterial) error
	GetByID(ctx context.Context, id string) (*entity.RawMaterial, error)
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.RawMaterial, error)
	// Delete elimina la materia prima y las líneas de receta que la usan.
	Delete(ctx context.Context, id string) error
}
