package entity

import (
	"github.com/jhoicas/produccion-api/internal/domain"
)

// Métodos de pago.
const (
	PaymentMethodCash   = "CASH"
	PaymentMethodMpesa  = "MPESA"
	PaymentMethodBank   = "BANK"
	PaymentMethodCredit = "CREDIT"
)

// Estados de pago. Son etiquetas derivadas de (pagado, saldo), nunca fuente de verdad.
const (
	PaymentStatusPaid    = "PAID"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusCredit  = "CREDIT"
)

// RequiresReference indica si el método exige código de transacción.
func RequiresReference(method string) bool {
	return method == PaymentMethodMpesa || method == PaymentMethodBank
}

// ValidatePayment verifica método y referencia de un pago efectivo.
func ValidatePayment(method, reference string) error {
	switch method {
	case PaymentMethodCash, PaymentMethodMpesa, PaymentMethodBank:
	default:
		return domain.Invalid("método de pago %q", method)
	}
	if RequiresReference(method) && reference == "" {
		return domain.ErrPaymentReferenceRequired
	}
	return nil
}

// ResolvePaymentTerms normaliza estado y método de un documento nuevo:
// un documento a crédito siempre queda con método CREDIT.
func ResolvePaymentTerms(status, method, reference string) (string, string, error) {
	switch status {
	case PaymentStatusPaid:
		if err := ValidatePayment(method, reference); err != nil {
			return "", "", err
		}
		return PaymentStatusPaid, method, nil
	case PaymentStatusCredit, "":
		return PaymentStatusCredit, PaymentMethodCredit, nil
	default:
		return "", "", domain.Invalid("estado de pago %q", status)
	}
}
