package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// InventoryHandler consultas y ajustes del kardex (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Balance godoc
// @Summary      Saldo de una línea de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_kind   query     string  true   "RAW_MATERIAL o FINISHED_GOOD"
// @Param        item_id     query     string  true   "ID de materia prima o producto"
// @Param        variant_id  query     string  false  "ID de presentación (solo FINISHED_GOOD)"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/balance [get]
func (h *InventoryHandler) Balance(c *fiber.Ctx) error {
	key, err := itemKeyFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	bal, err := h.uc.Balance(c.UserContext(), key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBalanceResponse(bal))
}

// StockLevels godoc
// @Summary      Existencias agrupadas por ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_kind  query  string  true  "RAW_MATERIAL o FINISHED_GOOD"
// @Success      200  {array}   dto.StockLevelResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-levels [get]
func (h *InventoryHandler) StockLevels(c *fiber.Ctx) error {
	kind, err := entity.ParseItemKind(c.Query("item_kind"))
	if err != nil {
		return respondError(c, err)
	}
	levels, err := h.uc.GroupedBalances(c.UserContext(), kind)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.StockLevelResponse{
			BalanceResponse: toBalanceResponse(l.Balance),
			AverageUnitCost: l.AverageUnitCost,
		})
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Cantidad positiva suma, negativa resta. Sin unit_cost se usa el costo promedio vigente.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AdjustStockRequest  true  "llave, cantidad y motivo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	kind, err := entity.ParseItemKind(in.ItemKind)
	if err != nil {
		return respondError(c, err)
	}
	m, err := h.uc.AdjustStock(c.UserContext(), inventory.AdjustmentInput{
		UserID:          GetUserID(c),
		Key:             entity.ItemKey{Kind: kind, ItemID: in.ItemID, VariantID: in.VariantID},
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		Reason:          in.Reason,
		ReferenceNumber: in.ReferenceNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(m))
}

// Movements godoc
// @Summary      Kardex de una línea de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_kind   query  string  true   "RAW_MATERIAL o FINISHED_GOOD"
// @Param        item_id     query  string  true   "ID del ítem"
// @Param        variant_id  query  string  false  "ID de presentación"
// @Param        from        query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to          query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        limit       query  int     false  "por defecto 50, máx 200"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	key, err := itemKeyFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	from, err := parseDate(c.Query("from"), false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := parseDate(c.Query("to"), true)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.History(c.UserContext(), key, from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponses(list))
}

// ByReference godoc
// @Summary      Movimientos de un documento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        kind    path  string  true  "PURCHASE, PRODUCTION, SALE o ADJUSTMENT"
// @Param        number  path  string  true  "número del documento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/references/{kind}/{number} [get]
func (h *InventoryHandler) ByReference(c *fiber.Ctx) error {
	list, err := h.uc.ListByReference(c.UserContext(), entity.ReferenceKind(c.Params("kind")), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponses(list))
}

// DeleteItem godoc
// @Summary      Eliminar materia prima o producto sin historial
// @Tags         inventory
// @Security     Bearer
// @Param        kind  path  string  true  "RAW_MATERIAL o FINISHED_GOOD"
// @Param        id    path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{kind}/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	kind, err := entity.ParseItemKind(c.Params("kind"))
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.DeleteItem(c.UserContext(), kind, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func itemKeyFrom(c *fiber.Ctx) (entity.ItemKey, error) {
	q := dto.ItemKeyQuery{
		ItemKind:  c.Query("item_kind"),
		ItemID:    c.Query("item_id"),
		VariantID: c.Query("variant_id"),
	}
	if err := validateStruct(q); err != nil {
		return entity.ItemKey{}, err
	}
	return entity.ItemKey{Kind: entity.ItemKind(q.ItemKind), ItemID: q.ItemID, VariantID: q.VariantID}, nil
}

func toBalanceResponse(b entity.Balance) dto.BalanceResponse {
	return dto.BalanceResponse{
		ItemKind:  string(b.Key.Kind),
		ItemID:    b.Key.ItemID,
		VariantID: b.Key.VariantID,
		ItemName:  b.ItemName,
		Quantity:  b.Quantity,
		Value:     b.Value,
	}
}

func toMovementResponse(m *entity.MovementEntry) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              m.ID,
		Date:            m.Date,
		ItemKind:        string(m.ItemKind),
		ItemID:          m.ItemID,
		VariantID:       m.VariantID,
		ItemName:        m.ItemName,
		UnitOfMeasure:   m.UnitOfMeasure,
		Quantity:        m.Quantity,
		UnitCost:        m.UnitCost,
		TotalValue:      m.TotalValue,
		ReferenceKind:   string(m.ReferenceKind),
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
		ReversalOf:      m.ReversalOf,
		CreatedBy:       m.CreatedBy,
	}
}

func toMovementResponses(list []*entity.MovementEntry) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out
}
