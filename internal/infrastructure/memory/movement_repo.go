package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// MovementRepo implementa repository.MovementRepository.
type MovementRepo struct{ a access }

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) CreateBatch(_ context.Context, entries []*entity.MovementEntry) error {
	return r.a.write(OpCreateMovements, func(st *state) error {
		seen := make(map[string]bool, len(st.movements))
		for _, m := range st.movements {
			seen[m.ID] = true
		}
		for _, e := range entries {
			if seen[e.ID] {
				return domain.Persistence(OpCreateMovements, domain.Invalid("movimiento duplicado %s", e.ID))
			}
			seen[e.ID] = true
			c := *e
			st.movements = append(st.movements, &c)
		}
		return nil
	})
}

func matchesReference(m *entity.MovementEntry, ref entity.ReferenceKind, number string, kind entity.ItemKind) bool {
	return m.ReferenceKind == ref && m.ReferenceNumber == number && (kind == "" || m.ItemKind == kind)
}

func (r *MovementRepo) DeleteByReference(_ context.Context, ref entity.ReferenceKind, number string, kind entity.ItemKind) (int64, error) {
	var n int64
	err := r.a.write(OpDeleteMovements, func(st *state) error {
		kept := st.movements[:0:0]
		for _, m := range st.movements {
			if matchesReference(m, ref, number, kind) {
				n++
				continue
			}
			kept = append(kept, m)
		}
		st.movements = kept
		return nil
	})
	return n, err
}

func (r *MovementRepo) ListByReference(_ context.Context, ref entity.ReferenceKind, number string, kind entity.ItemKind) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	err := r.a.read(func(st *state) error {
		for _, m := range st.movements {
			if matchesReference(m, ref, number, kind) {
				c := *m
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) SumByKey(_ context.Context, key entity.ItemKey) (entity.Balance, error) {
	bal := entity.Balance{Key: key, Quantity: decimal.Zero, Value: decimal.Zero}
	err := r.a.read(func(st *state) error {
		for _, m := range st.movements {
			if m.Key() == key {
				bal.Quantity = bal.Quantity.Add(m.Quantity)
				bal.Value = bal.Value.Add(m.TotalValue)
				bal.ItemName = m.ItemName
			}
		}
		return nil
	})
	return bal, err
}

func (r *MovementRepo) SumGroupedByKind(_ context.Context, kind entity.ItemKind) ([]entity.Balance, error) {
	byKey := make(map[entity.ItemKey]*entity.Balance)
	err := r.a.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ItemKind != kind {
				continue
			}
			b, ok := byKey[m.Key()]
			if !ok {
				b = &entity.Balance{Key: m.Key(), Quantity: decimal.Zero, Value: decimal.Zero}
				byKey[m.Key()] = b
			}
			b.Quantity = b.Quantity.Add(m.Quantity)
			b.Value = b.Value.Add(m.TotalValue)
			b.ItemName = m.ItemName
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]entity.Balance, 0, len(byKey))
	for _, b := range byKey {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemName != out[j].ItemName {
			return out[i].ItemName < out[j].ItemName
		}
		return out[i].Key.String() < out[j].Key.String()
	})
	return out, nil
}

func (r *MovementRepo) ListByItem(_ context.Context, key entity.ItemKey, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	err := r.a.read(func(st *state) error {
		// recorrido inverso: más reciente primero, y a igual fecha el último registrado
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.Key() != key {
				continue
			}
			if from != nil && m.Date.Before(*from) {
				continue
			}
			if to != nil && m.Date.After(*to) {
				continue
			}
			c := *m
			out = append(out, &c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset), nil
}

func (r *MovementRepo) ExistsForItem(_ context.Context, kind entity.ItemKind, itemID string) (bool, error) {
	found := false
	err := r.a.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ItemKind == kind && m.ItemID == itemID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}
