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
	goredis "github.com/redis/go-redis/v9"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/inventory"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/orders"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/pricing"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/receipt"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/sales"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/domain/repository"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/infrastructure/memory"
	infrapdf "github.com/AsirMahmud/retail-management-sytstem-sub000/internal/infrastructure/pdf"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/infrastructure/phone"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/infrastructure/postgres"
	infraredis "github.com/AsirMahmud/retail-management-sytstem-sub000/internal/infrastructure/redis"
	httpRouter "github.com/AsirMahmud/retail-management-sytstem-sub000/internal/interfaces/http"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/pkg/config"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/pkg/logger"
)

// store une el coordinador de transacciones y los repositorios fuera de transacción.
type store interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
	Repositories() repository.Repositories
}

// locker candado por clave compartido por ventas y pedidos.
type locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var st store
	switch cfg.App.StoreDriver {
	case "memory":
		log.Warn().Msg("sin base de datos configurada: usando store en memoria (los datos no persisten)")
		st = memory.New()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		st = postgres.NewTxRunner(pool)
	}
	repos := st.Repositories()

	// Redis es opcional: sin REDIS_ADDR la caché se desactiva y el candado es local al proceso.
	var (
		discountCache pricing.DiscountCache = pricing.NoopCache{}
		keyLocker     locker                = memory.NewLocalLocker()
		redisClient   *goredis.Client
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se continúa sin caché ni candado distribuido")
		} else {
			defer redisClient.Close()
			discountCache = infraredis.NewDiscountCache(redisClient, cfg.Redis.DiscountCacheTTL)
			keyLocker = infraredis.NewLocker(redisClient)
		}
	}

	phones := phone.NewNormalizer(cfg.App.PhoneRegion)

	ledgerUC := inventory.NewStockLedgerUseCase(st, repos, log.Component("stock_ledger"))
	catalogUC := inventory.NewCatalogUseCase(st, repos, ledgerUC)
	discountUC := pricing.NewDiscountUseCase(st, repos, discountCache, log.Component("pricing"))
	saleUC := sales.NewSaleUseCase(st, repos, ledgerUC, discountUC, phones, keyLocker, sales.Config{
		DueDays:        cfg.Sales.DueDays,
		InvoiceRetries: cfg.Sales.InvoiceRetries,
	}, log.Component("sales"))
	orderUC := orders.NewOrderUseCase(repos, saleUC, discountUC, phones, keyLocker, log.Component("orders"))

	// PDF: recibo imprimible de la venta
	receiptUC := receipt.NewReceiptUseCase(saleUC, repos.Customers, repos.Products,
		infrapdf.NewMarotoReceiptGenerator(), cfg.App.StoreName)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	const swaggerFile = "./docs/swagger.json"
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Retail Back-office API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("documentación swagger no encontrada, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:  catalogUC,
		LedgerUC:   ledgerUC,
		DiscountUC: discountUC,
		SaleUC:     saleUC,
		OrderUC:    orderUC,
		ReceiptUC:  receiptUC,
		JWTSecret:  cfg.JWT.Secret,
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
