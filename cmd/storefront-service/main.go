// cmd/storefront-service/main.go
package main

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"bistro/internal/pkg/bootstrap"
	"bistro/internal/pkg/logger"
	"bistro/internal/pkg/mq"
	"bistro/internal/pkg/redis"
	cartapp "bistro/internal/service/cart/application"
	cartinfra "bistro/internal/service/cart/infrastructure"
	cartadapter "bistro/internal/service/cart/infrastructure/adapter"
	cartiface "bistro/internal/service/cart/interfaces"
	catalogapp "bistro/internal/service/catalog/application"
	cataloginfra "bistro/internal/service/catalog/infrastructure"
	catalogiface "bistro/internal/service/catalog/interfaces"
	orderapp "bistro/internal/service/order/application"
	orderinfra "bistro/internal/service/order/infrastructure"
	orderadapter "bistro/internal/service/order/infrastructure/adapter"
	orderiface "bistro/internal/service/order/interfaces"
	promotionapp "bistro/internal/service/promotion/application"
	promotioninfra "bistro/internal/service/promotion/infrastructure"
	promotioniface "bistro/internal/service/promotion/interfaces"
)

const serviceName = "storefront-service"

// main 是应用的组装根：创建并组装所有依赖项，然后启动服务。
func main() {
	logger.Init(serviceName)
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	if err := db.AutoMigrate(
		&cataloginfra.ProductModel{},
		&cartinfra.CartModel{}, &cartinfra.CartLineModel{},
		&promotioninfra.CouponModel{},
		&orderinfra.OrderModel{}, &orderinfra.OrderLineModel{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to migrate schema")
	}

	redisClient, err := redis.NewClient(cfg.Infra.Redis.Addrs)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to initialize redis client")
	}

	kafkaWriter := mq.NewKafkaWriter(strings.Split(cfg.Infra.Kafka.Brokers, ","), cfg.Infra.Kafka.OrderTopic)

	tracer := otel.Tracer(serviceName)

	// 目录：GORM 仓储外面套一层 Redis 点查缓存。
	productRepo := cataloginfra.NewCachedProductRepository(
		cataloginfra.NewGormProductRepository(db), redisClient)
	catalogService := catalogapp.NewCatalogService(productRepo, tracer)

	// 购物车：通过端口依赖目录解析。
	cartService := cartapp.NewCartService(
		cartinfra.NewGormCartRepository(db),
		cartadapter.NewCatalogLocalAdapter(catalogService),
		tracer)

	// 优惠券。
	promotionService := promotionapp.NewPromotionService(
		promotioninfra.NewGormCouponRepository(db), tracer)

	// 订单：单号来自 Redis 序列，事件发往 Kafka。
	numberGen, err := orderadapter.NewRedisNumberGenerator(redisClient)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to initialize order number generator")
	}
	orderService := orderapp.NewOrderApplicationService(
		orderinfra.NewGormOrderRepository(db),
		orderadapter.NewPromotionLocalAdapter(promotionService),
		orderadapter.NewCartLocalAdapter(cartService),
		orderadapter.NewOrderKafkaProducer(kafkaWriter),
		numberGen,
		orderapp.FeePolicy{
			DeliveryFee:    cfg.Pricing.DeliveryFee,
			WaiveThreshold: cfg.Pricing.WaiveThreshold,
		},
		tracer)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.HTTPPort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			catalogiface.NewCatalogHandler(catalogService).RegisterRoutes(appCtx.Mux)
			cartiface.NewCartHandler(cartService).RegisterRoutes(appCtx.Mux)
			promotioniface.NewPromotionHandler(promotionService).RegisterRoutes(appCtx.Mux)
			orderiface.NewOrderHandler(orderService).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(_ context.Context) {
			if err := kafkaWriter.Close(); err != nil {
				logger.Logger.Error().Err(err).Msg("error closing kafka writer")
			}
			if err := redisClient.Close(); err != nil {
				logger.Logger.Error().Err(err).Msg("error closing redis client")
			}
		},
	})
}
