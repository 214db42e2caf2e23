package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Las cinco categorías base forman la taxonomía pública; los errores específicos
// envuelven una de ellas con %w para que errors.Is funcione por categoría.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUnknownItem  = errors.New("materia prima o producto desconocido")
	ErrInvalidState = errors.New("operación no permitida en el estado actual")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrPersistence  = errors.New("no se pudo confirmar la transacción")
)

var (
	ErrAlreadyReceived          = fmt.Errorf("%w: la orden de compra ya fue recibida", ErrInvalidState)
	ErrAlreadySettled           = fmt.Errorf("%w: la venta ya está saldada", ErrInvalidState)
	ErrBatchStockConsumed       = fmt.Errorf("%w: el producto terminado del lote ya fue consumido", ErrInvalidState)
	ErrItemHasHistory           = fmt.Errorf("%w: el ítem tiene movimientos en el kardex", ErrInvalidState)
	ErrPaymentReferenceRequired = fmt.Errorf("%w: el método de pago requiere referencia de transacción", ErrInvalidInput)
	ErrOverpayment              = fmt.Errorf("%w: el abono excede el saldo pendiente", ErrInvalidInput)
	ErrDuplicateNumber          = fmt.Errorf("%w: el número de documento ya existe", ErrInvalidInput)
)

// Kind clasifica un error para la capa de transporte.
type Kind string

const (
	KindNotFound           Kind = "NotFound"
	KindUnknownItem        Kind = "UnknownItem"
	KindInvalidState       Kind = "InvalidState"
	KindValidationFailure  Kind = "ValidationFailure"
	KindPersistenceFailure Kind = "PersistenceFailure"
	KindInternal           Kind = "Internal"
)

// KindOf devuelve la categoría del error; KindInternal si no pertenece a la taxonomía.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnknownItem):
		return KindUnknownItem
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrInvalidInput):
		return KindValidationFailure
	case errors.Is(err, ErrPersistence):
		return KindPersistenceFailure
	default:
		return KindInternal
	}
}

// Invalid construye un error de validación con detalle legible.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Unknown construye un ErrUnknownItem indicando el tipo e identificador.
func Unknown(what, id string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownItem, what, id)
}

// Persistence envuelve un error del driver como fallo de persistencia.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
