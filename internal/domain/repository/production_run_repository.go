package repository

import (
	"context"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// ProductionRunRepository define el puerto de persistencia para corridas y sus paquetes.
type ProductionRunRepository interface {
	// Create guarda la corrida y sus paquetes.
	Create(ctx context.Context, run *entity.ProductionRun) error
	// GetByID devuelve la corrida con paquetes; (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.ProductionRun, error)
	// ExistsBatchNumber indica si algún registro usa el número de lote.
	ExistsBatchNumber(ctx context.Context, batchNumber string) (bool, error)
	// ReplacePackages sustituye el conjunto de paquetes de la corrida.
	ReplacePackages(ctx context.Context, runID string, packages []entity.ProductionPackage) error
	// Delete elimina paquetes y corrida.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.ProductionRun, error)
}
