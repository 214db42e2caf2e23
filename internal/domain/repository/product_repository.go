package repository

import (
	"context"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para ProductDefinition.
// GetByID devuelve el producto con ingredientes y presentaciones; (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.ProductDefinition) error
	GetByID(ctx context.Context, id string) (*entity.ProductDefinition, error)
	List(ctx context.Context, limit, offset int) ([]*entity.ProductDefinition, error)
	// Delete elimina el producto junto con ingredientes y presentaciones.
	Delete(ctx context.Context, id string) error
}
