package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/production"
)

// ProductionHandler corridas de producción (protegido).
type ProductionHandler struct {
	uc *production.RunUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.RunUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar corrida de producción
// @Description  Costea la corrida, consume materia prima y da entrada al producto terminado en una sola transacción.
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProductionRunRequest  true  "producto, rendimiento, ingredientes y paquetes"
// @Success      201   {object}  dto.ProductionRunResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/production/runs [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductionRunRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RecordRun(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Historial de corridas
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "por defecto 50, máx 200"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.ProductionRunResponse
// @Router       /api/production/runs [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.ListRuns(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener corrida
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la corrida"
// @Success      200  {object}  dto.ProductionRunResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production/runs/{id} [get]
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetRun(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RevisePackaging godoc
// @Summary      Corregir empaque de una corrida
// @Description  Recalcula los paquetes con el costo por litro guardado y reemplaza las entradas de producto terminado del lote.
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID de la corrida"
// @Param        body  body      dto.RevisePackagingRequest  true  "nuevo conjunto de paquetes"
// @Success      200   {object}  dto.ProductionRunResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/runs/{id}/packaging [put]
func (h *ProductionHandler) RevisePackaging(c *fiber.Ctx) error {
	var in dto.RevisePackagingRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RevisePackaging(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar corrida
// @Description  Retira del kardex todos los movimientos del lote y borra la corrida.
// @Tags         production
// @Security     Bearer
// @Param        id   path  string  true  "ID de la corrida"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production/runs/{id} [delete]
func (h *ProductionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteRun(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CostSheet godoc
// @Summary      Hoja de costeo en PDF
// @Tags         production
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la corrida"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production/runs/{id}/cost-sheet [get]
func (h *ProductionHandler) CostSheet(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.CostSheetPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
