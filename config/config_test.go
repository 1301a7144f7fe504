package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_MODE", "")
	t.Setenv("REPORT_SPEND_THRESHOLD", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "SQL", cfg.Store.Mode)
	assert.Equal(t, "mongo", cfg.Store.SequenceBackend)
	assert.Equal(t, "reject", cfg.Store.StockPolicy)
	assert.Equal(t, "1000", cfg.Report.SpendThreshold.String())
	assert.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_MODE", "NO_SQL")
	t.Setenv("SEQUENCE_BACKEND", "Redis")
	t.Setenv("ORDER_STOCK_POLICY", "backorder")
	t.Setenv("REPORT_SPEND_THRESHOLD", "250.50")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "NO_SQL", cfg.Store.Mode)
	assert.Equal(t, "redis", cfg.Store.SequenceBackend)
	assert.Equal(t, "backorder", cfg.Store.StockPolicy)
	assert.Equal(t, "250.5", cfg.Report.SpendThreshold.String())
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("STORE_MODE", "GRAPH")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("REPORT_SPEND_THRESHOLD", "lots")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseSlice("a, b,"))
	assert.Equal(t, []string{}, parseSlice(""))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable", c.DSN())
}

func TestLoad_ExportSettings(t *testing.T) {
	t.Setenv("REPORT_EXPORT_CRON", "0 3 * * *")
	t.Setenv("AWS_S3_BUCKET", "shop-exports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0 3 * * *", cfg.Export.Cron)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Equal(t, "shop-exports", cfg.Export.S3.Bucket)
	assert.Equal(t, "reports", cfg.Export.S3.Prefix)
}
