package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/ports"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/costing"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// Compensation define cómo se deshacen los movimientos de una referencia.
type Compensation string

const (
	// CompensationPurge borra físicamente los movimientos.
	CompensationPurge Compensation = "purge"
	// CompensationReverse registra movimientos negados que apuntan al original.
	CompensationReverse Compensation = "reverse"
)

// ParseCompensation interpreta el valor de configuración; vacío equivale a purge.
func ParseCompensation(s string) (Compensation, error) {
	switch Compensation(s) {
	case "", CompensationPurge:
		return CompensationPurge, nil
	case CompensationReverse:
		return CompensationReverse, nil
	}
	return "", domain.Invalid("modo de compensación %q", s)
}

// LedgerUseCase es el kardex: registra movimientos inmutables y deriva saldos
// sumándolos. Nunca guarda saldos.
type LedgerUseCase struct {
	txRunner     ports.TxRunner
	movements    repository.MovementRepository
	rawMaterials repository.RawMaterialRepository
	products     repository.ProductRepository
	compensation Compensation
	now          func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner ports.TxRunner,
	movements repository.MovementRepository,
	rawMaterials repository.RawMaterialRepository,
	products repository.ProductRepository,
	compensation Compensation,
) *LedgerUseCase {
	if compensation == "" {
		compensation = CompensationPurge
	}
	return &LedgerUseCase{
		txRunner:     txRunner,
		movements:    movements,
		rawMaterials: rawMaterials,
		products:     products,
		compensation: compensation,
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	uc.now = now
	return uc
}

// Compensation devuelve el modo configurado.
func (uc *LedgerUseCase) Compensation() Compensation {
	return uc.compensation
}

// Post registra los movimientos en una transacción propia.
func (uc *LedgerUseCase) Post(ctx context.Context, userID string, entries []*entity.MovementEntry) error {
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		return uc.PostInTx(ctx, repos.Movements, userID, entries)
	})
}

// PostInTx valida y registra los movimientos con el repositorio de la transacción del caller.
// Completa ID, fecha y usuario cuando vienen vacíos.
func (uc *LedgerUseCase) PostInTx(ctx context.Context, movRepo repository.MovementRepository, userID string, entries []*entity.MovementEntry) error {
	if len(entries) == 0 {
		return nil
	}
	now := uc.now()
	for _, e := range entries {
		if err := e.Key().Validate(); err != nil {
			return err
		}
		if !e.ReferenceKind.Valid() {
			return domain.Invalid("tipo de referencia %q", e.ReferenceKind)
		}
		if e.ReferenceNumber == "" {
			return domain.Invalid("número de referencia requerido")
		}
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.Date.IsZero() {
			e.Date = now
		}
		if e.CreatedBy == "" {
			e.CreatedBy = userID
		}
	}
	return movRepo.CreateBatch(ctx, entries)
}

// PurgeByReference deshace los movimientos de una referencia en una transacción propia.
// kind vacío abarca todos los tipos de ítem. Repetirla no tiene efecto adicional.
func (uc *LedgerUseCase) PurgeByReference(ctx context.Context, userID string, ref entity.ReferenceKind, number string, kind entity.ItemKind) (int64, error) {
	var n int64
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		n, err = uc.CompensateInTx(ctx, repos.Movements, userID, ref, number, kind)
		return err
	})
	return n, err
}

// CompensateInTx deshace los movimientos de la referencia según el modo configurado
// y devuelve cuántos movimientos se borraron o se revirtieron.
func (uc *LedgerUseCase) CompensateInTx(ctx context.Context, movRepo repository.MovementRepository, userID string, ref entity.ReferenceKind, number string, kind entity.ItemKind) (int64, error) {
	if !ref.Valid() || number == "" {
		return 0, domain.Invalid("referencia %s/%q", ref, number)
	}
	if kind != "" && !kind.Valid() {
		return 0, domain.Invalid("tipo de ítem %q", kind)
	}
	if uc.compensation == CompensationPurge {
		return movRepo.DeleteByReference(ctx, ref, number, kind)
	}

	entries, err := movRepo.ListByReference(ctx, ref, number, kind)
	if err != nil {
		return 0, err
	}
	reversed := make(map[string]bool)
	for _, e := range entries {
		if e.ReversalOf != "" {
			reversed[e.ReversalOf] = true
		}
	}
	var reversals []*entity.MovementEntry
	for _, e := range entries {
		if e.ReversalOf != "" || reversed[e.ID] {
			continue
		}
		reversals = append(reversals, e.Reversal("Reversión: "+e.Notes))
	}
	if err := uc.PostInTx(ctx, movRepo, userID, reversals); err != nil {
		return 0, err
	}
	return int64(len(reversals)), nil
}

// NetByReference suma por llave los movimientos vigentes de la referencia.
func NetByReference(entries []*entity.MovementEntry) map[entity.ItemKey]decimal.Decimal {
	net := make(map[entity.ItemKey]decimal.Decimal)
	for _, e := range entries {
		net[e.Key()] = net[e.Key()].Add(e.Quantity)
	}
	return net
}

// EnsureCanWithdraw verifica que retirar las cantidades netas positivas de la referencia
// no deje ninguna llave en saldo negativo (ErrBatchStockConsumed).
func EnsureCanWithdraw(ctx context.Context, movRepo repository.MovementRepository, ref entity.ReferenceKind, number string, kind entity.ItemKind) error {
	return EnsureCanReplace(ctx, movRepo, ref, number, kind, nil)
}

// EnsureCanReplace como EnsureCanWithdraw, pero considerando que en la misma
// operación se registrarán las cantidades de replacement.
func EnsureCanReplace(ctx context.Context, movRepo repository.MovementRepository, ref entity.ReferenceKind, number string, kind entity.ItemKind, replacement map[entity.ItemKey]decimal.Decimal) error {
	entries, err := movRepo.ListByReference(ctx, ref, number, kind)
	if err != nil {
		return err
	}
	for key, qty := range NetByReference(entries) {
		if !qty.IsPositive() {
			continue
		}
		bal, err := movRepo.SumByKey(ctx, key)
		if err != nil {
			return err
		}
		if bal.Quantity.Sub(qty).Add(replacement[key]).IsNegative() {
			return domain.ErrBatchStockConsumed
		}
	}
	return nil
}

// Balance devuelve cantidad y valor de una llave exacta; (0, 0) sin movimientos.
func (uc *LedgerUseCase) Balance(ctx context.Context, key entity.ItemKey) (entity.Balance, error) {
	if err := key.Validate(); err != nil {
		return entity.Balance{}, err
	}
	bal, err := uc.movements.SumByKey(ctx, key)
	if err != nil {
		return entity.Balance{}, err
	}
	bal.Key = key
	return bal, nil
}

// StockLevel saldo agrupado con su costo promedio.
type StockLevel struct {
	entity.Balance
	AverageUnitCost decimal.Decimal
}

// GroupedBalances agrupa por llave los saldos de un tipo de ítem.
func (uc *LedgerUseCase) GroupedBalances(ctx context.Context, kind entity.ItemKind) ([]StockLevel, error) {
	if !kind.Valid() {
		return nil, domain.Invalid("tipo de ítem %q", kind)
	}
	balances, err := uc.movements.SumGroupedByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]StockLevel, 0, len(balances))
	for _, b := range balances {
		out = append(out, StockLevel{
			Balance:         b,
			AverageUnitCost: averageCost(b),
		})
	}
	return out, nil
}

// History lista los movimientos de una llave, más reciente primero.
// limit <= 0 usa el tamaño de página por defecto en ambos backends.
func (uc *LedgerUseCase) History(ctx context.Context, key entity.ItemKey, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.Invalid("rango de fechas invertido")
	}
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.DefaultPage()
	return uc.movements.ListByItem(ctx, key, from, to, page.Limit, page.Offset)
}

// ListByReference lista los movimientos (vigentes y reversiones) de un documento.
func (uc *LedgerUseCase) ListByReference(ctx context.Context, ref entity.ReferenceKind, number string) ([]*entity.MovementEntry, error) {
	if !ref.Valid() || number == "" {
		return nil, domain.Invalid("referencia %s/%q", ref, number)
	}
	return uc.movements.ListByReference(ctx, ref, number, "")
}

// DeleteItem elimina una materia prima o un producto que nunca se movió en el kardex.
func (uc *LedgerUseCase) DeleteItem(ctx context.Context, kind entity.ItemKind, itemID string) error {
	if !kind.Valid() || itemID == "" {
		return domain.Invalid("ítem %s/%q", kind, itemID)
	}
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		used, err := repos.Movements.ExistsForItem(ctx, kind, itemID)
		if err != nil {
			return err
		}
		if used {
			return domain.ErrItemHasHistory
		}
		switch kind {
		case entity.ItemKindRawMaterial:
			rm, err := repos.RawMaterials.GetByID(ctx, itemID)
			if err != nil {
				return err
			}
			if rm == nil {
				return domain.ErrNotFound
			}
			return repos.RawMaterials.Delete(ctx, itemID)
		default:
			p, err := repos.Products.GetByID(ctx, itemID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			return repos.Products.Delete(ctx, itemID)
		}
	})
}

func averageCost(b entity.Balance) decimal.Decimal {
	return costing.Round(costing.AverageUnitCost(b.Quantity, b.Value))
}
