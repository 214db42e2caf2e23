package repository

import (
	"context"
	"time"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del kardex (movimientos inmutables).
// Un ItemKind vacío en los filtros significa "todos los tipos".
type MovementRepository interface {
	// CreateBatch inserta los movimientos; dentro de una tx se confirman todos o ninguno.
	CreateBatch(ctx context.Context, entries []*entity.MovementEntry) error

	// DeleteByReference elimina los movimientos de una referencia y devuelve cuántos borró.
	DeleteByReference(ctx context.Context, ref entity.ReferenceKind, number string, kind entity.ItemKind) (int64, error)

	// ListByReference lista los movimientos de una referencia en orden de registro.
	ListByReference(ctx context.Context, ref entity.ReferenceKind, number string, kind entity.ItemKind) ([]*entity.MovementEntry, error)

	// SumByKey suma cantidad y valor de una llave exacta (tipo, ítem, presentación).
	// Devuelve (0, 0) si no hay movimientos.
	SumByKey(ctx context.Context, key entity.ItemKey) (entity.Balance, error)

	// SumGroupedByKind agrupa por llave todos los movimientos de un tipo de ítem.
	SumGroupedByKind(ctx context.Context, kind entity.ItemKind) ([]entity.Balance, error)

	// ListByItem historial de una llave, más reciente primero.
	ListByItem(ctx context.Context, key entity.ItemKey, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error)

	// ExistsForItem indica si el ítem (cualquier presentación) tiene historial.
	ExistsForItem(ctx context.Context, kind entity.ItemKind, itemID string) (bool, error)
}
