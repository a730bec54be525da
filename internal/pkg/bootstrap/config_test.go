package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	Init()
	cfg := GetCurrentConfig()
	assert.Equal(t, 8080, cfg.App.HTTPPort)
	assert.Equal(t, "order-events", cfg.Infra.Kafka.OrderTopic)
	assert.Equal(t, 5.0, cfg.Pricing.DeliveryFee)
	assert.Equal(t, 50.0, cfg.Pricing.WaiveThreshold)
}

func TestInit_YamlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  http_port: 9090
pricing:
  delivery_fee: 3.5
  waive_threshold: 80
`), 0o644))
	t.Setenv("CONFIG_PATH", path)

	Init()
	cfg := GetCurrentConfig()
	assert.Equal(t, 9090, cfg.App.HTTPPort)
	assert.Equal(t, 3.5, cfg.Pricing.DeliveryFee)
	assert.Equal(t, 80.0, cfg.Pricing.WaiveThreshold)
	// 文件没写的字段保持默认值。
	assert.Equal(t, "localhost:9092", cfg.Infra.Kafka.Brokers)
}

func TestInit_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
infra:
  kafka:
    brokers: file-broker:9092
`), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("KAFKA_BROKERS", "env-broker:9092")
	t.Setenv("HTTP_PORT", "7070")

	Init()
	cfg := GetCurrentConfig()
	assert.Equal(t, "env-broker:9092", cfg.Infra.Kafka.Brokers)
	assert.Equal(t, 7070, cfg.App.HTTPPort)
}
