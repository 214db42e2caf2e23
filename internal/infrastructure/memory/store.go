// Package memory implementa los repositorios y el TxRunner sobre mapas en memoria.
// Se usa en pruebas y con STORE_DRIVER=memory. Las transacciones trabajan sobre
// una copia del estado que solo se publica al confirmar.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/produccion-api/internal/application/ports"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// Operaciones que aceptan fallas inyectadas con FailOn.
const (
	OpCreateMovements = "movements.CreateBatch"
	OpDeleteMovements = "movements.DeleteByReference"
	OpCreateRun       = "runs.Create"
	OpReplacePackages = "runs.ReplacePackages"
	OpDeleteRun       = "runs.Delete"
	OpCreatePurchase  = "purchase_orders.Create"
	OpMarkReceived    = "purchase_orders.MarkReceived"
	OpCreateSale      = "sales.Create"
	OpAddPayment      = "sales.AddPayment"
	OpCommit          = "tx.Commit"
)

type state struct {
	movements      []*entity.MovementEntry
	rawMaterials   map[string]*entity.RawMaterial
	products       map[string]*entity.ProductDefinition
	partners       map[string]*entity.BusinessPartner
	salesPeople    map[string]*entity.SalesPerson
	runs           map[string]*entity.ProductionRun
	purchaseOrders map[string]*entity.PurchaseOrder
	sales          map[string]*entity.Sale
}

func newState() *state {
	return &state{
		rawMaterials:   make(map[string]*entity.RawMaterial),
		products:       make(map[string]*entity.ProductDefinition),
		partners:       make(map[string]*entity.BusinessPartner),
		salesPeople:    make(map[string]*entity.SalesPerson),
		runs:           make(map[string]*entity.ProductionRun),
		purchaseOrders: make(map[string]*entity.PurchaseOrder),
		sales:          make(map[string]*entity.Sale),
	}
}

// clone copia el estado completo; los valores almacenados nunca se mutan en sitio,
// así que basta con copiar los contenedores.
func (s *state) clone() *state {
	c := newState()
	c.movements = append(make([]*entity.MovementEntry, 0, len(s.movements)), s.movements...)
	for k, v := range s.rawMaterials {
		c.rawMaterials[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.partners {
		c.partners[k] = v
	}
	for k, v := range s.salesPeople {
		c.salesPeople[k] = v
	}
	for k, v := range s.runs {
		c.runs[k] = v
	}
	for k, v := range s.purchaseOrders {
		c.purchaseOrders[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	return c
}

// Store guarda el estado y serializa las transacciones de escritura.
type Store struct {
	mu sync.RWMutex
	st *state

	fmu    sync.Mutex
	faults map[string]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState(), faults: make(map[string]error)}
}

// FailOn hace que la operación op devuelva err (envuelto como fallo de persistencia)
// hasta que se limpie con FailOn(op, nil).
func (s *Store) FailOn(op string, err error) {
	s.fmu.Lock()
	defer s.fmu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	s.fmu.Lock()
	defer s.fmu.Unlock()
	if err, ok := s.faults[op]; ok {
		return domain.Persistence(op, err)
	}
	return nil
}

// access resuelve sobre qué estado opera un repositorio: el de una tx en curso
// (sin bloqueo, el TxRunner ya tiene el lock) o el publicado.
type access struct {
	store *Store
	tx    *state
}

func (a access) read(fn func(*state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	return fn(a.store.st)
}

func (a access) write(op string, fn func(*state) error) error {
	if err := a.store.fault(op); err != nil {
		return err
	}
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	next := a.store.st.clone()
	if err := fn(next); err != nil {
		return err
	}
	a.store.st = next
	return nil
}

// Run implementa ports.TxRunner. Los repositorios recibidos por fn solo deben usarse
// dentro de fn; usar los repositorios del store desde fn bloquea.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	if err := fn(ctx, s.repos(access{store: s, tx: tx})); err != nil {
		return err
	}
	if err := s.fault(OpCommit); err != nil {
		return err
	}
	s.st = tx
	return nil
}

func (s *Store) repos(a access) ports.TxRepos {
	return ports.TxRepos{
		Movements:      &MovementRepo{a},
		Runs:           &ProductionRunRepo{a},
		PurchaseOrders: &PurchaseOrderRepo{a},
		Sales:          &SaleRepo{a},
		RawMaterials:   &RawMaterialRepo{a},
		Products:       &ProductRepo{a},
	}
}

func (s *Store) Movements() *MovementRepo { return &MovementRepo{access{store: s}} }
func (s *Store) Runs() *ProductionRunRepo { return &ProductionRunRepo{access{store: s}} }
func (s *Store) PurchaseOrders() *PurchaseOrderRepo { return &PurchaseOrderRepo{access{store: s}} }
func (s *Store) Sales() *SaleRepo { return &SaleRepo{access{store: s}} }
func (s *Store) RawMaterials() *RawMaterialRepo { return &RawMaterialRepo{access{store: s}} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{access{store: s}} }
func (s *Store) Partners() *PartnerRepo { return &PartnerRepo{access{store: s}} }
func (s *Store) SalesPeople() *SalesPersonRepo { return &SalesPersonRepo{access{store: s}} }

var _ ports.TxRunner = (*Store)(nil)

// page aplica limit/offset; limit <= 0 devuelve todo desde offset.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
