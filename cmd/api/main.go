package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kiosco-pos-api/internal/application/auth"
	"github.com/jhoicas/kiosco-pos-api/internal/application/cart"
	"github.com/jhoicas/kiosco-pos-api/internal/application/catalog"
	"github.com/jhoicas/kiosco-pos-api/internal/application/checkout"
	"github.com/jhoicas/kiosco-pos-api/internal/application/rates"
	"github.com/jhoicas/kiosco-pos-api/internal/application/stocksync"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/entity"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
	"github.com/jhoicas/kiosco-pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kiosco-pos-api/internal/infrastructure/realtime"
	"github.com/jhoicas/kiosco-pos-api/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/kiosco-pos-api/internal/interfaces/http"
	"github.com/jhoicas/kiosco-pos-api/pkg/config"
	"github.com/jhoicas/kiosco-pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	catalogRepo := postgres.NewCatalogRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	rateRepo := postgres.NewRateRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	cartRepo := redisstore.NewCartRepository(redisClient, time.Duration(cfg.Redis.CartTTLMins)*time.Minute)

	defaultRates := entity.RateTable{
		entity.CurrencyUSD: decimal.NewFromInt(1),
		entity.CurrencyBSF: decimal.NewFromFloat(cfg.Rates.UsdToBsf),
		entity.CurrencyARS: decimal.NewFromFloat(cfg.Rates.UsdToArs),
	}
	rateTable, err := rates.New(ctx, rateRepo, defaultRates, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar tasas de cambio")
	}

	stockCache := stocksync.NewCache()
	cartStore := cart.NewStore(cartRepo, stockCache, log)
	catalogUC := catalog.NewUseCase(catalogRepo, stockCache)
	checkoutCoordinator := checkout.New(catalogRepo, stockRepo, saleRepo, cartStore, stockCache, log)
	authUC := auth.NewUseCase(vendorRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Feed de stock: LISTEN/NOTIFY sobre el mismo pool, o un gateway
	// WebSocket externo según configuración.
	var feed repository.StockFeed
	if cfg.Feed.Driver == "websocket" && cfg.Feed.URL != "" {
		feed = realtime.NewWSFeed(cfg.Feed.URL, log)
	} else {
		feed = postgres.NewStockListener(pool, log)
	}

	syncCtx, stopSync := context.WithCancel(ctx)
	defer stopSync()
	if cfg.App.VendorID != "" {
		synchronizer := stocksync.New(feed, stockCache, cartStore, cfg.App.VendorID, log)
		go synchronizer.Run(syncCtx)
	} else {
		log.Warn().Msg("KIOSK_VENDOR_ID vacío: sincronizador de stock deshabilitado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kiosco POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		CatalogUC: catalogUC,
		Rates:     rateTable,
		CartStore: cartStore,
		Checkout:  checkoutCoordinator,
		Sales:     saleRepo,
		Stock:     stockRepo,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSync()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
