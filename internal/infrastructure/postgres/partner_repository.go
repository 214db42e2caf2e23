package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var (
	_ repository.PartnerRepository     = (*PartnerRepo)(nil)
	_ repository.SalesPersonRepository = (*SalesPersonRepo)(nil)
)

// PartnerRepo proveedores y clientes sobre PostgreSQL.
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador.
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

func (r *PartnerRepo) Create(ctx context.Context, p *entity.BusinessPartner) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO business_partners (id, name, type, phone, email, address, sales_person_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Type, p.Phone, p.Email, p.Address, nullIfEmpty(p.SalesPersonID), p.CreatedAt,
	)
	return wrap("insert partner", err)
}

func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.BusinessPartner, error) {
	var p entity.BusinessPartner
	var salesPersonID *string
	err := r.q.QueryRow(ctx, `
		SELECT id, name, type, phone, email, address, sales_person_id, created_at
		FROM business_partners WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Type, &p.Phone, &p.Email, &p.Address, &salesPersonID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get partner", err)
	}
	p.SalesPersonID = stringOrEmpty(salesPersonID)
	return &p, nil
}

// ListByType lista terceros; partnerType vacío devuelve todos.
func (r *PartnerRepo) ListByType(ctx context.Context, partnerType string, limit, offset int) ([]*entity.BusinessPartner, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, type, phone, email, address, sales_person_id, created_at
		FROM business_partners
		WHERE ($1 = '' OR type = $1)
		ORDER BY name LIMIT $2 OFFSET $3`, partnerType, limit, offset)
	if err != nil {
		return nil, domain.Persistence("list partners", err)
	}
	defer rows.Close()
	var list []*entity.BusinessPartner
	for rows.Next() {
		var p entity.BusinessPartner
		var salesPersonID *string
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Phone, &p.Email, &p.Address, &salesPersonID, &p.CreatedAt); err != nil {
			return nil, domain.Persistence("scan partner", err)
		}
		p.SalesPersonID = stringOrEmpty(salesPersonID)
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list partners", err)
	}
	return list, nil
}

// SalesPersonRepo vendedores sobre PostgreSQL.
type SalesPersonRepo struct {
	q Querier
}

// NewSalesPersonRepository construye el adaptador.
func NewSalesPersonRepository(q Querier) *SalesPersonRepo {
	return &SalesPersonRepo{q: q}
}

func (r *SalesPersonRepo) Create(ctx context.Context, sp *entity.SalesPerson) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales_people (id, name, phone, region, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sp.ID, sp.Name, sp.Phone, sp.Region, sp.CreatedAt,
	)
	return wrap("insert sales person", err)
}

func (r *SalesPersonRepo) GetByID(ctx context.Context, id string) (*entity.SalesPerson, error) {
	var sp entity.SalesPerson
	err := r.q.QueryRow(ctx, `
		SELECT id, name, phone, region, created_at FROM sales_people WHERE id = $1`, id,
	).Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Region, &sp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get sales person", err)
	}
	return &sp, nil
}

func (r *SalesPersonRepo) List(ctx context.Context, limit, offset int) ([]*entity.SalesPerson, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, phone, region, created_at
		FROM sales_people ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.Persistence("list sales people", err)
	}
	defer rows.Close()
	var list []*entity.SalesPerson
	for rows.Next() {
		var sp entity.SalesPerson
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Region, &sp.CreatedAt); err != nil {
			return nil, domain.Persistence("scan sales person", err)
		}
		list = append(list, &sp)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list sales people", err)
	}
	return list, nil
}
