package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// RawMaterialRepo implementa repository.RawMaterialRepository.
type RawMaterialRepo struct{ a access }

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

func (r *RawMaterialRepo) Create(_ context.Context, rm *entity.RawMaterial) error {
	return r.a.write("raw_materials.Create", func(st *state) error {
		if _, ok := st.rawMaterials[rm.ID]; ok {
			return domain.Invalid("materia prima %s ya existe", rm.ID)
		}
		c := *rm
		st.rawMaterials[rm.ID] = &c
		return nil
	})
}

func (r *RawMaterialRepo) GetByID(_ context.Context, id string) (*entity.RawMaterial, error) {
	var out *entity.RawMaterial
	err := r.a.read(func(st *state) error {
		if rm, ok := st.rawMaterials[id]; ok {
			c := *rm
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *RawMaterialRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	return r.a.write("raw_materials.UpdateCost", func(st *state) error {
		rm, ok := st.rawMaterials[id]
		if !ok {
			return domain.ErrNotFound
		}
		c := *rm
		c.UnitCost = cost
		st.rawMaterials[id] = &c
		return nil
	})
}

func (r *RawMaterialRepo) List(_ context.Context, limit, offset int) ([]*entity.RawMaterial, error) {
	var out []*entity.RawMaterial
	err := r.a.read(func(st *state) error {
		for _, rm := range st.rawMaterials {
			c := *rm
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

func (r *RawMaterialRepo) Delete(_ context.Context, id string) error {
	return r.a.write("raw_materials.Delete", func(st *state) error {
		delete(st.rawMaterials, id)
		for pid, p := range st.products {
			c := copyProduct(p)
			kept := c.Ingredients[:0]
			for _, ing := range c.Ingredients {
				if ing.RawMaterialID != id {
					kept = append(kept, ing)
				}
			}
			c.Ingredients = kept
			st.products[pid] = c
		}
		return nil
	})
}

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ a access }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func copyProduct(p *entity.ProductDefinition) *entity.ProductDefinition {
	c := *p
	c.Ingredients = append([]entity.ProductIngredient(nil), p.Ingredients...)
	c.PackagingOptions = append([]entity.PackagingOption(nil), p.PackagingOptions...)
	return &c
}

func (r *ProductRepo) Create(_ context.Context, p *entity.ProductDefinition) error {
	return r.a.write("products.Create", func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.Invalid("producto %s ya existe", p.ID)
		}
		st.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.ProductDefinition, error) {
	var out *entity.ProductDefinition
	err := r.a.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = copyProduct(p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.ProductDefinition, error) {
	var out []*entity.ProductDefinition
	err := r.a.read(func(st *state) error {
		for _, p := range st.products {
			out = append(out, copyProduct(p))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.a.write("products.Delete", func(st *state) error {
		delete(st.products, id)
		return nil
	})
}

// PartnerRepo implementa repository.PartnerRepository.
type PartnerRepo struct{ a access }

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

func (r *PartnerRepo) Create(_ context.Context, p *entity.BusinessPartner) error {
	return r.a.write("partners.Create", func(st *state) error {
		if _, ok := st.partners[p.ID]; ok {
			return domain.Invalid("tercero %s ya existe", p.ID)
		}
		c := *p
		st.partners[p.ID] = &c
		return nil
	})
}

func (r *PartnerRepo) GetByID(_ context.Context, id string) (*entity.BusinessPartner, error) {
	var out *entity.BusinessPartner
	err := r.a.read(func(st *state) error {
		if p, ok := st.partners[id]; ok {
			c := *p
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *PartnerRepo) ListByType(_ context.Context, partnerType string, limit, offset int) ([]*entity.BusinessPartner, error) {
	var out []*entity.BusinessPartner
	err := r.a.read(func(st *state) error {
		for _, p := range st.partners {
			if partnerType == "" || p.Type == partnerType {
				c := *p
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

// SalesPersonRepo implementa repository.SalesPersonRepository.
type SalesPersonRepo struct{ a access }

var _ repository.SalesPersonRepository = (*SalesPersonRepo)(nil)

func (r *SalesPersonRepo) Create(_ context.Context, sp *entity.SalesPerson) error {
	return r.a.write("sales_people.Create", func(st *state) error {
		if _, ok := st.salesPeople[sp.ID]; ok {
			return domain.Invalid("vendedor %s ya existe", sp.ID)
		}
		c := *sp
		st.salesPeople[sp.ID] = &c
		return nil
	})
}

func (r *SalesPersonRepo) GetByID(_ context.Context, id string) (*entity.SalesPerson, error) {
	var out *entity.SalesPerson
	err := r.a.read(func(st *state) error {
		if sp, ok := st.salesPeople[id]; ok {
			c := *sp
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *SalesPersonRepo) List(_ context.Context, limit, offset int) ([]*entity.SalesPerson, error) {
	var out []*entity.SalesPerson
	err := r.a.read(func(st *state) error {
		for _, sp := range st.salesPeople {
			c := *sp
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}
