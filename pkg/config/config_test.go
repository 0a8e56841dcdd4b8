package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.App.StorageDriver)
	assert.Equal(t, 30, cfg.Planning.DefaultLookbackDays)
	assert.True(t, cfg.Planning.DefaultDailyRate.IsZero(), "sin tasa inventada por defecto")
	assert.True(t, cfg.Planning.SafetyBuffer.IsZero(), "sin colchón inventado por defecto")
	assert.Equal(t, 5*time.Second, cfg.Planning.CacheTTL)
	assert.Equal(t, 64, cfg.Planning.CacheMaxEntries)
	assert.Equal(t, 5*time.Second, cfg.Purchasing.Timeout)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoad_DesdeVariablesDeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("PLANNING_SAFETY_BUFFER", "12.5")
	t.Setenv("PLANNING_DEFAULT_DAILY_RATE", "3")
	t.Setenv("PLANNING_WORKERS", "4")
	t.Setenv("PURCHASING_BASE_URL", "http://purchasing:8080/")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.App.StorageDriver)
	assert.True(t, cfg.Planning.SafetyBuffer.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, cfg.Planning.DefaultDailyRate.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 4, cfg.Planning.Workers)
	assert.Equal(t, "http://purchasing:8080", cfg.Purchasing.BaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_RechazaValoresInvalidos(t *testing.T) {
	t.Setenv("PLANNING_SAFETY_BUFFER", "-1")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "mrp", Password: "p@ss:word", DBName: "mrp", SSLMode: "disable"}
	assert.Equal(t, "postgres://mrp:p%40ss%3Aword@db:5432/mrp?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u:p@h/d"
	assert.Equal(t, "postgres://u:p@h/d", c.ConnectionString())
}
