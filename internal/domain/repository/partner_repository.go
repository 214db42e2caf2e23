package repository

import (
	"context"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// PartnerRepository define el puerto de persistencia para proveedores y clientes.
type PartnerRepository interface {
	Create(ctx context.Context, p *entity.BusinessPartner) error
	GetByID(ctx context.Context, id string) (*entity.BusinessPartner, error)
	// ListByType lista terceros; partnerType vacío devuelve todos.
	ListByType(ctx context.Context, partnerType string, limit, offset int) ([]*entity.BusinessPartner, error)
}

// SalesPersonRepository define el puerto de persistencia para vendedores.
type SalesPersonRepository interface {
	Create(ctx context.Context, sp *entity.SalesPerson) error
	GetByID(ctx context.Context, id string) (*entity.SalesPerson, error)
	List(ctx context.Context, limit, offset int) ([]*entity.SalesPerson, error)
}
