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

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	domaininv "github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/events"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage adaptadores de persistencia elegidos por STORAGE_DRIVER.
type storage struct {
	txRunner   inventory.TxRunner
	items      repository.ItemRepository
	warehouses repository.WarehouseRepository
	stock      repository.StockRepository
	ledger     repository.LedgerRepository
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.App.StorageDriver == "memory" {
		store := memory.New(cfg.DB.LockTimeout)
		return &storage{
			txRunner:   store,
			items:      store.Items(),
			warehouses: store.Warehouses(),
			stock:      store.Stock(),
			ledger:     store.Ledger(),
			close:      func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		txRunner:   postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
		items:      postgres.NewItemRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		stock:      postgres.NewStockRepository(pool),
		ledger:     postgres.NewLedgerRepository(pool),
		close:      pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer store.close()

	// Eventos posteriores al commit: siempre al log, y a Redis si está configurado.
	publishers := events.Fanout{events.NewLogPublisher(log.Zerolog())}
	if cfg.Redis.Addr != "" {
		rdb, err := events.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		publishers = append(publishers, events.NewRedisPublisher(rdb, cfg.Redis.Stream, cfg.Redis.StreamMaxLen))
	}

	policy := domaininv.Policy{
		AllowNegativeStock:            cfg.Inventory.AllowNegativeStock,
		ZeroAdjustmentCostUsesAverage: cfg.Inventory.ZeroAdjustmentCostUsesAverage,
	}
	engine := inventory.NewCostingEngine(store.txRunner, policy, publishers, log.Component("costing"))
	transfers := inventory.NewTransferOrchestrator(engine)
	retry := inventory.RetryPolicy{MaxAttempts: cfg.Inventory.MaxRetries + 1, Backoff: cfg.Inventory.RetryBackoff}
	movementUC := inventory.NewMovementUseCase(store.txRunner, store.items, store.warehouses, engine, transfers, retry)
	stockUC := inventory.NewStockUseCase(store.stock, store.ledger, cfg.Inventory.LedgerPageSize)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.items, store.stock)
	sequenceUC := inventory.NewSequenceUseCase(store.txRunner)
	itemUC := usecase.NewItemUseCase(store.items)
	warehouseUC := usecase.NewWarehouseUseCase(store.warehouses)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Kardex API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:        itemUC,
		WarehouseUC:   warehouseUC,
		Movements:     movementUC,
		Stock:         stockUC,
		Replenishment: replenishmentUC,
		Sequences:     sequenceUC,
		JWTSecret:     cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
