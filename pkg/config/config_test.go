package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "produccion-api", cfg.App.Name)
	assert.Equal(t, StorePostgres, cfg.App.StoreDriver)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.Costing.TaxRate.Equal(decimal.RequireFromString("0.16")))
	assert.Equal(t, "purge", cfg.Ledger.Compensation)
	assert.Equal(t, "postgres://postgres:@localhost:5432/produccion?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"TAX_RATE":            "0.19",
		"STORE_DRIVER":        "MEMORY",
		"LEDGER_COMPENSATION": "Reverse",
		"DATABASE_URL":        "postgres://u:p@db:5432/x",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.Costing.TaxRate.Equal(decimal.RequireFromString("0.19")))
	assert.Equal(t, StoreMemory, cfg.App.StoreDriver)
	assert.Equal(t, "reverse", cfg.Ledger.Compensation)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
}

func TestFromViper_Invalidos(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{"TAX_RATE": "abc"}))
	assert.Error(t, err)

	_, err = fromViper(newViper(map[string]any{"TAX_RATE": "-0.1"}))
	assert.Error(t, err)

	_, err = fromViper(newViper(map[string]any{"STORE_DRIVER": "mongo"}))
	assert.Error(t, err)
}
