package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/masterdata"
)

// MasterDataHandler materias primas, productos, terceros y vendedores (protegido).
type MasterDataHandler struct {
	uc *masterdata.UseCase
}

// NewMasterDataHandler construye el handler.
func NewMasterDataHandler(uc *masterdata.UseCase) *MasterDataHandler {
	return &MasterDataHandler{uc: uc}
}

// CreateRawMaterial godoc
// @Summary      Crear materia prima
// @Tags         master
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateRawMaterialRequest  true  "nombre, categoría y costo por kg"
// @Success      201   {object}  dto.RawMaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/master/raw-materials [post]
func (h *MasterDataHandler) CreateRawMaterial(c *fiber.Ctx) error {
	var in dto.CreateRawMaterialRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateRawMaterial(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateRawMaterialCost godoc
// @Summary      Actualizar costo de materia prima
// @Description  Afecta solo corridas futuras; las corridas registradas conservan su costo.
// @Tags         master
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                            true  "ID de la materia prima"
// @Param        body  body      dto.UpdateRawMaterialCostRequest  true  "nuevo costo"
// @Success      200   {object}  dto.RawMaterialResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/master/raw-materials/{id}/cost [put]
func (h *MasterDataHandler) UpdateRawMaterialCost(c *fiber.Ctx) error {
	var in dto.UpdateRawMaterialCostRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateRawMaterialCost(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler) ListRawMaterials(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.ListRawMaterials(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreateProduct godoc
// @Summary      Crear producto con receta y presentaciones
// @Tags         master
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProductRequest  true  "producto, ingredientes y presentaciones"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/master/products [post]
func (h *MasterDataHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateProduct(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *MasterDataHandler) GetProduct(c *fiber.Ctx) error {
	out, err := h.uc.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler) ListProducts(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.ListProducts(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreatePartner godoc
// @Summary      Crear proveedor o cliente
// @Tags         master
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePartnerRequest  true  "tipo SUPPLIER o CUSTOMER"
// @Success      201   {object}  dto.PartnerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/master/partners [post]
func (h *MasterDataHandler) CreatePartner(c *fiber.Ctx) error {
	var in dto.CreatePartnerRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreatePartner(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPartners godoc
// @Summary      Listar terceros
// @Tags         master
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "SUPPLIER o CUSTOMER"
// @Param        limit   query  int     false  "por defecto 50, máx 200"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.PartnerResponse
// @Router       /api/master/partners [get]
func (h *MasterDataHandler) ListPartners(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.ListPartners(c.UserContext(), c.Query("type"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *MasterDataHandler) CreateSalesPerson(c *fiber.Ctx) error {
	var in dto.CreateSalesPersonRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateSalesPerson(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *MasterDataHandler) ListSalesPeople(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.ListSalesPeople(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
