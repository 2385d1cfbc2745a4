package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.App.StorageDriver)
	assert.False(t, cfg.Inventory.AllowNegativeStock)
	assert.False(t, cfg.Inventory.ZeroAdjustmentCostUsesAverage)
	assert.Equal(t, 500, cfg.Inventory.LedgerPageSize)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_BanderaHeredadaDeNegativos(t *testing.T) {
	v := viper.New()
	v.Set("ALLOW_STOCK_NEGATIVE", "true")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Inventory.AllowNegativeStock)

	// el nombre nuevo tiene prioridad
	v.Set("INVENTORY_ALLOW_NEGATIVE_STOCK", "false")
	cfg, err = fromViper(v)
	require.NoError(t, err)
	assert.False(t, cfg.Inventory.AllowNegativeStock)
}

func TestFromViper_Duraciones(t *testing.T) {
	v := viper.New()
	v.Set("DB_LOCK_TIMEOUT", "250ms")
	v.Set("ENGINE_RETRY_BACKOFF", "20")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, 20*time.Millisecond, cfg.Inventory.RetryBackoff)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "sqlite")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/word", DBName: "kardex", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/kardex?sslmode=disable", c.DSN())
}
