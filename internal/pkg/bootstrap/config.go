package bootstrap

import (
	"os"
	"strconv"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"bistro/internal/pkg/logger"
)

// Config 汇总了所有服务共享的配置。
// 来源优先级：环境变量 > yaml 配置文件 > 默认值。
type Config struct {
	App struct {
		HTTPPort int `yaml:"http_port"`
	} `yaml:"app"`

	Infra struct {
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Redis struct {
			Addrs string `yaml:"addrs"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers    string `yaml:"brokers"`
			OrderTopic string `yaml:"order_topic"`
		} `yaml:"kafka"`
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
	} `yaml:"infra"`

	// Pricing 是订单装配的外部策略输入：固定配送费，
	// 小计达到 waive_threshold 时免收。
	Pricing struct {
		DeliveryFee    float64 `yaml:"delivery_fee"`
		WaiveThreshold float64 `yaml:"waive_threshold"`
	} `yaml:"pricing"`
}

var currentConfig atomic.Pointer[Config]

// Init 加载配置。配置文件路径由 CONFIG_PATH 指定，文件不存在时
// 仅依赖环境变量与默认值启动，方便本地开发。
func Init() {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Logger.Fatal().Err(err).Str("path", path).Msg("failed to read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			logger.Logger.Fatal().Err(err).Str("path", path).Msg("failed to parse config file")
		}
	}

	applyEnvOverrides(cfg)
	currentConfig.Store(cfg)
}

// GetCurrentConfig 返回当前生效的配置。必须在 Init 之后调用。
func GetCurrentConfig() *Config {
	cfg := currentConfig.Load()
	if cfg == nil {
		logger.Logger.Fatal().Msg("bootstrap.Init must be called before GetCurrentConfig")
	}
	return cfg
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.HTTPPort = 8080
	cfg.Infra.Mysql.DSN = "root:root@tcp(localhost:3306)/bistro?charset=utf8mb4&parseTime=True&loc=UTC"
	cfg.Infra.Redis.Addrs = "localhost:6379"
	cfg.Infra.Kafka.Brokers = "localhost:9092"
	cfg.Infra.Kafka.OrderTopic = "order-events"
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Pricing.DeliveryFee = 5.0
	cfg.Pricing.WaiveThreshold = 50.0
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	cfg.Infra.Mysql.DSN = getEnv("MYSQL_DSN", cfg.Infra.Mysql.DSN)
	cfg.Infra.Redis.Addrs = getEnv("REDIS_ADDRS", cfg.Infra.Redis.Addrs)
	cfg.Infra.Kafka.Brokers = getEnv("KAFKA_BROKERS", cfg.Infra.Kafka.Brokers)
	cfg.Infra.Kafka.OrderTopic = getEnv("KAFKA_ORDER_TOPIC", cfg.Infra.Kafka.OrderTopic)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	if port, err := strconv.Atoi(getEnv("HTTP_PORT", "")); err == nil && port > 0 {
		cfg.App.HTTPPort = port
	}
}

// getEnv 从环境变量中读取配置，不存在时返回提供的默认值。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
