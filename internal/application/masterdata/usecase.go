// Package masterdata administra los registros maestros que consume el kardex:
// materias primas, productos (receta y presentaciones), terceros y vendedores.
package masterdata

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var one = decimal.NewFromInt(1)

// UseCase casos de uso de datos maestros.
type UseCase struct {
	rawMaterials repository.RawMaterialRepository
	products     repository.ProductRepository
	partners     repository.PartnerRepository
	salesPeople  repository.SalesPersonRepository
	now          func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	rawMaterials repository.RawMaterialRepository,
	products repository.ProductRepository,
	partners repository.PartnerRepository,
	salesPeople repository.SalesPersonRepository,
) *UseCase {
	return &UseCase{
		rawMaterials: rawMaterials,
		products:     products,
		partners:     partners,
		salesPeople:  salesPeople,
		now:          time.Now,
	}
}

// CreateRawMaterial registra una materia prima con su costo unitario vigente.
func (uc *UseCase) CreateRawMaterial(ctx context.Context, in dto.CreateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("nombre requerido")
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.Invalid("costo unitario negativo")
	}
	now := uc.now()
	rm := &entity.RawMaterial{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  strings.TrimSpace(in.Category),
		UnitCost:  in.UnitCost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.rawMaterials.Create(ctx, rm); err != nil {
		return nil, err
	}
	return toRawMaterialResponse(rm), nil
}

// UpdateRawMaterialCost cambia el costo vigente. Las corridas ya registradas conservan su snapshot.
func (uc *UseCase) UpdateRawMaterialCost(ctx context.Context, id string, in dto.UpdateRawMaterialCostRequest) (*dto.RawMaterialResponse, error) {
	if in.UnitCost.IsNegative() {
		return nil, domain.Invalid("costo unitario negativo")
	}
	rm, err := uc.rawMaterials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.rawMaterials.UpdateCost(ctx, id, in.UnitCost); err != nil {
		return nil, err
	}
	rm.UnitCost = in.UnitCost
	rm.UpdatedAt = uc.now()
	return toRawMaterialResponse(rm), nil
}

// ListRawMaterials lista materias primas por nombre.
func (uc *UseCase) ListRawMaterials(ctx context.Context, page dto.PageRequest) ([]*dto.RawMaterialResponse, error) {
	page.DefaultPage()
	list, err := uc.rawMaterials.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RawMaterialResponse, 0, len(list))
	for _, rm := range list {
		out = append(out, toRawMaterialResponse(rm))
	}
	return out, nil
}

// CreateProduct registra un producto con receta estándar y presentaciones.
// Gravedad específica cero se toma como 1.
func (uc *UseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("nombre requerido")
	}
	if in.OverheadPercentage.IsNegative() || in.SpecificGravity.IsNegative() {
		return nil, domain.Invalid("overhead y gravedad específica no pueden ser negativos")
	}
	now := uc.now()
	p := &entity.ProductDefinition{
		ID:                 uuid.New().String(),
		Name:               name,
		UnitOfMeasure:      in.UnitOfMeasure,
		OverheadPercentage: in.OverheadPercentage,
		SpecificGravity:    in.SpecificGravity,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if p.UnitOfMeasure == "" {
		p.UnitOfMeasure = entity.UnitKG
	}
	if p.SpecificGravity.IsZero() {
		p.SpecificGravity = one
	}
	for _, ing := range in.Ingredients {
		if !ing.StandardQty.IsPositive() {
			return nil, domain.Invalid("ingrediente %q: cantidad estándar debe ser mayor que cero", ing.RawMaterialID)
		}
		rm, err := uc.rawMaterials.GetByID(ctx, ing.RawMaterialID)
		if err != nil {
			return nil, err
		}
		if rm == nil {
			return nil, domain.Unknown("materia prima", ing.RawMaterialID)
		}
		p.Ingredients = append(p.Ingredients, entity.ProductIngredient{
			ID:            uuid.New().String(),
			ProductID:     p.ID,
			RawMaterialID: rm.ID,
			StandardQty:   ing.StandardQty,
		})
	}
	labels := make(map[string]bool, len(in.PackagingOptions))
	for _, opt := range in.PackagingOptions {
		label := strings.TrimSpace(opt.SizeLabel)
		if label == "" || labels[label] {
			return nil, domain.Invalid("presentación %q vacía o repetida", label)
		}
		if !opt.Capacity.IsPositive() || opt.EmptyContainerCost.IsNegative() {
			return nil, domain.Invalid("presentación %q: capacidad o costo de envase inválidos", label)
		}
		labels[label] = true
		p.PackagingOptions = append(p.PackagingOptions, entity.PackagingOption{
			ID:                 uuid.New().String(),
			ProductID:          p.ID,
			SizeLabel:          label,
			Capacity:           opt.Capacity,
			EmptyContainerCost: opt.EmptyContainerCost,
		})
	}
	if err := uc.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetProduct devuelve un producto con receta y presentaciones.
func (uc *UseCase) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// ListProducts lista productos por nombre.
func (uc *UseCase) ListProducts(ctx context.Context, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	list, err := uc.products.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// CreatePartner registra un proveedor o cliente.
func (uc *UseCase) CreatePartner(ctx context.Context, in dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("nombre requerido")
	}
	if in.Type != entity.PartnerTypeSupplier && in.Type != entity.PartnerTypeCustomer {
		return nil, domain.Invalid("tipo de tercero %q", in.Type)
	}
	if in.SalesPersonID != "" {
		sp, err := uc.salesPeople.GetByID(ctx, in.SalesPersonID)
		if err != nil {
			return nil, err
		}
		if sp == nil {
			return nil, domain.ErrNotFound
		}
	}
	p := &entity.BusinessPartner{
		ID:            uuid.New().String(),
		Name:          name,
		Type:          in.Type,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		SalesPersonID: in.SalesPersonID,
		CreatedAt:     uc.now(),
	}
	if err := uc.partners.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

// ListPartners lista terceros; partnerType vacío devuelve todos.
func (uc *UseCase) ListPartners(ctx context.Context, partnerType string, page dto.PageRequest) ([]*dto.PartnerResponse, error) {
	page.DefaultPage()
	list, err := uc.partners.ListByType(ctx, partnerType, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartnerResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPartnerResponse(p))
	}
	return out, nil
}

// CreateSalesPerson registra un vendedor.
func (uc *UseCase) CreateSalesPerson(ctx context.Context, in dto.CreateSalesPersonRequest) (*dto.SalesPersonResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("nombre requerido")
	}
	sp := &entity.SalesPerson{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     in.Phone,
		Region:    in.Region,
		CreatedAt: uc.now(),
	}
	if err := uc.salesPeople.Create(ctx, sp); err != nil {
		return nil, err
	}
	return &dto.SalesPersonResponse{ID: sp.ID, Name: sp.Name, Phone: sp.Phone, Region: sp.Region}, nil
}

// ListSalesPeople lista vendedores.
func (uc *UseCase) ListSalesPeople(ctx context.Context, page dto.PageRequest) ([]*dto.SalesPersonResponse, error) {
	page.DefaultPage()
	list, err := uc.salesPeople.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SalesPersonResponse, 0, len(list))
	for _, sp := range list {
		out = append(out, &dto.SalesPersonResponse{ID: sp.ID, Name: sp.Name, Phone: sp.Phone, Region: sp.Region})
	}
	return out, nil
}

func toRawMaterialResponse(rm *entity.RawMaterial) *dto.RawMaterialResponse {
	return &dto.RawMaterialResponse{
		ID:        rm.ID,
		Name:      rm.Name,
		Category:  rm.Category,
		UnitCost:  rm.UnitCost,
		CreatedAt: rm.CreatedAt,
		UpdatedAt: rm.UpdatedAt,
	}
}

func toProductResponse(p *entity.ProductDefinition) *dto.ProductResponse {
	ings := make([]dto.IngredientResponse, 0, len(p.Ingredients))
	for _, i := range p.Ingredients {
		ings = append(ings, dto.IngredientResponse{ID: i.ID, RawMaterialID: i.RawMaterialID, StandardQty: i.StandardQty})
	}
	opts := make([]dto.PackagingOptionResponse, 0, len(p.PackagingOptions))
	for _, o := range p.PackagingOptions {
		opts = append(opts, dto.PackagingOptionResponse{
			ID:                 o.ID,
			SizeLabel:          o.SizeLabel,
			Capacity:           o.Capacity,
			EmptyContainerCost: o.EmptyContainerCost,
		})
	}
	return &dto.ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		UnitOfMeasure:      p.UnitOfMeasure,
		OverheadPercentage: p.OverheadPercentage,
		SpecificGravity:    p.SpecificGravity,
		Ingredients:        ings,
		PackagingOptions:   opts,
	}
}

func toPartnerResponse(p *entity.BusinessPartner) *dto.PartnerResponse {
	return &dto.PartnerResponse{
		ID:            p.ID,
		Name:          p.Name,
		Type:          p.Type,
		Phone:         p.Phone,
		Email:         p.Email,
		Address:       p.Address,
		SalesPersonID: p.SalesPersonID,
	}
}
