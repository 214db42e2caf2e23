package inventory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/application/numbering"
	"github.com/jhoicas/produccion-api/internal/application/ports"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// AdjustmentInput entrada para un ajuste manual de stock (conteo físico, merma, corrección).
// Quantity positiva suma y negativa resta; UnitCost vacío usa el costo promedio vigente.
type AdjustmentInput struct {
	UserID          string
	Key             entity.ItemKey
	Quantity        decimal.Decimal
	UnitCost        *decimal.Decimal
	Reason          string
	ReferenceNumber string
}

// AdjustStock registra un movimiento de ajuste. El nombre del ítem se toma de los datos maestros.
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, input AdjustmentInput) (*entity.MovementEntry, error) {
	if err := input.Key.Validate(); err != nil {
		return nil, err
	}
	if input.Quantity.IsZero() {
		return nil, domain.Invalid("la cantidad del ajuste no puede ser cero")
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return nil, domain.Invalid("costo unitario negativo")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domain.Invalid("motivo del ajuste requerido")
	}

	name, err := uc.itemName(ctx, input.Key)
	if err != nil {
		return nil, err
	}

	var entry *entity.MovementEntry
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		unitCost := decimal.Zero
		if input.UnitCost != nil {
			unitCost = *input.UnitCost
		} else {
			bal, err := repos.Movements.SumByKey(ctx, input.Key)
			if err != nil {
				return err
			}
			unitCost = averageCost(bal)
		}
		number := strings.TrimSpace(input.ReferenceNumber)
		if number == "" {
			number = numbering.Generate(numbering.PrefixAdjustment, uc.now())
		}
		entry = entity.NewMovementEntry(input.Key, name, input.Quantity, unitCost, entity.ReferenceAdjustment, number, reason)
		return uc.PostInTx(ctx, repos.Movements, input.UserID, []*entity.MovementEntry{entry})
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// itemName resuelve el nombre desnormalizado de una llave; ErrUnknownItem si no existe.
func (uc *LedgerUseCase) itemName(ctx context.Context, key entity.ItemKey) (string, error) {
	if key.Kind == entity.ItemKindRawMaterial {
		rm, err := uc.rawMaterials.GetByID(ctx, key.ItemID)
		if err != nil {
			return "", err
		}
		if rm == nil {
			return "", domain.Unknown("materia prima", key.ItemID)
		}
		return rm.Name, nil
	}
	p, err := uc.products.GetByID(ctx, key.ItemID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", domain.Unknown("producto", key.ItemID)
	}
	if key.VariantID == "" {
		return p.Name, nil
	}
	opt, ok := p.PackagingOption(key.VariantID)
	if !ok {
		return "", domain.Unknown("presentación", key.VariantID)
	}
	return p.VariantName(opt), nil
}
