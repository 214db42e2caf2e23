package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/produccion-api/internal/domain"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want domain.Kind
	}{
		{domain.ErrNotFound, domain.KindNotFound},
		{domain.Unknown("materia prima", "rm-9"), domain.KindUnknownItem},
		{domain.ErrAlreadyReceived, domain.KindInvalidState},
		{domain.ErrAlreadySettled, domain.KindInvalidState},
		{domain.ErrBatchStockConsumed, domain.KindInvalidState},
		{domain.ErrOverpayment, domain.KindValidationFailure},
		{domain.ErrDuplicateNumber, domain.KindValidationFailure},
		{domain.Invalid("campo %s", "x"), domain.KindValidationFailure},
		{domain.Persistence("insert", errors.New("conn reset")), domain.KindPersistenceFailure},
		{fmt.Errorf("envuelto: %w", domain.ErrNotFound), domain.KindNotFound},
		{errors.New("otro"), domain.KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.KindOf(tt.err), tt.err.Error())
	}
	assert.Equal(t, domain.Kind(""), domain.KindOf(nil))
}

func TestPersistence_ConservaCausa(t *testing.T) {
	cause := errors.New("duplicate key")
	err := domain.Persistence("crear corrida", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Contains(t, err.Error(), "crear corrida")
}
