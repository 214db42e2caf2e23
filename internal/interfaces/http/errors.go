package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/domain"
)

// respondError traduce la categoría del error a status + código estable.
// Los 5xx se registran con el error real y no lo exponen al cliente.
func respondError(c *fiber.Ctx, err error) error {
	var status int
	var code string
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case domain.KindUnknownItem:
		status, code = fiber.StatusUnprocessableEntity, "UNKNOWN_ITEM"
	case domain.KindInvalidState:
		status, code = fiber.StatusConflict, "INVALID_STATE"
	case domain.KindValidationFailure:
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case domain.KindPersistenceFailure:
		status, code = fiber.StatusServiceUnavailable, "PERSISTENCE"
	default:
		status, code = fiber.StatusInternalServerError, "INTERNAL"
	}

	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", GetUserID(c)).
			Int("status", status).
			Msg("error en la petición")
		msg = "no se pudo completar la operación, intente más tarde"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
