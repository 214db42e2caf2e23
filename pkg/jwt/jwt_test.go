package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	token, err := Generate("secreto", "produccion-api", "u-1", "produccion", time.Hour)
	require.NoError(t, err)

	claims, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "produccion", claims.Role)
	assert.Equal(t, "produccion-api", claims.Issuer)
}

func TestParse_Rechaza(t *testing.T) {
	token, err := Generate("secreto", "produccion-api", "u-1", "admin", time.Hour)
	require.NoError(t, err)

	_, err = Parse("otro", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	vencido, err := Generate("secreto", "produccion-api", "u-1", "admin", -time.Minute)
	require.NoError(t, err)
	_, err = Parse("secreto", vencido)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Generate("", "x", "u-1", "admin", time.Hour)
	assert.Error(t, err)
}
