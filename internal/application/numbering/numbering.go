// Package numbering genera números de documento legibles (lote, orden de compra,
// factura, ajuste) a partir de la fecha y un desambiguador aleatorio.
package numbering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/produccion-api/internal/domain"
)

// Prefijos por tipo de documento.
const (
	PrefixBatch      = "BN"
	PrefixPurchase   = "PO"
	PrefixInvoice    = "INV"
	PrefixAdjustment = "ADJ"
)

const maxAttempts = 5

// Generate devuelve PREFIJO-yyyyMMdd-HHmm-XXXX.
func Generate(prefix string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102-1504"), suffix)
}

// Unique genera un número que exists no reconoce; reintenta ante colisión.
func Unique(ctx context.Context, prefix string, at time.Time, exists func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		n := Generate(prefix, at)
		taken, err := exists(ctx, n)
		if err != nil {
			return "", err
		}
		if !taken {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: no se pudo generar un número %s libre", domain.ErrDuplicateNumber, prefix)
}

// Resolve usa el número provisto por el usuario si está libre (ErrDuplicateNumber si no)
// o genera uno nuevo si viene vacío.
func Resolve(ctx context.Context, given, prefix string, at time.Time, exists func(context.Context, string) (bool, error)) (string, error) {
	given = strings.TrimSpace(given)
	if given == "" {
		return Unique(ctx, prefix, at, exists)
	}
	taken, err := exists(ctx, given)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%w: %s", domain.ErrDuplicateNumber, given)
	}
	return given, nil
}
