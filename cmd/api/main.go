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

	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/application/masterdata"
	"github.com/jhoicas/produccion-api/internal/application/ports"
	"github.com/jhoicas/produccion-api/internal/application/procurement"
	"github.com/jhoicas/produccion-api/internal/application/production"
	"github.com/jhoicas/produccion-api/internal/application/sales"
	"github.com/jhoicas/produccion-api/internal/domain/costing"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
	"github.com/jhoicas/produccion-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/produccion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/produccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/produccion-api/internal/interfaces/http"
	"github.com/jhoicas/produccion-api/pkg/config"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

// backend repositorios de lectura + TxRunner del driver elegido.
type backend struct {
	tx          ports.TxRunner
	repos       ports.TxRepos
	partners    repository.PartnerRepository
	salesPeople repository.SalesPersonRepository
	close       func()
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.App.StoreDriver == config.StoreMemory {
		s := memory.New()
		return &backend{
			tx: s,
			repos: ports.TxRepos{
				Movements:      s.Movements(),
				Runs:           s.Runs(),
				PurchaseOrders: s.PurchaseOrders(),
				Sales:          s.Sales(),
				RawMaterials:   s.RawMaterials(),
				Products:       s.Products(),
			},
			partners:    s.Partners(),
			salesPeople: s.SalesPeople(),
			close:       func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &backend{
		tx:          postgres.NewTxRunner(pool),
		repos:       postgres.NewRepos(pool),
		partners:    postgres.NewPartnerRepository(pool),
		salesPeople: postgres.NewSalesPersonRepository(pool),
		close:       pool.Close,
	}, nil
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
		Str("store", cfg.App.StoreDriver).
		Str("tax_rate", cfg.Costing.TaxRate.String()).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	compensation, err := inventory.ParseCompensation(cfg.Ledger.Compensation)
	if err != nil {
		log.Fatal().Err(err).Msg("LEDGER_COMPENSATION")
	}

	ctx := context.Background()
	be, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer be.close()

	ledgerUC := inventory.NewLedgerUseCase(be.tx, be.repos.Movements, be.repos.RawMaterials, be.repos.Products, compensation)
	runUC := production.NewRunUseCase(
		be.tx, be.repos.Runs, be.repos.Movements, ledgerUC,
		costing.NewCalculator(cfg.Costing.TaxRate),
		infrapdf.NewCostSheetGenerator(),
	)
	orderUC := procurement.NewOrderUseCase(be.tx, be.repos.PurchaseOrders, be.partners, ledgerUC)
	saleUC := sales.NewSaleUseCase(be.tx, be.repos.Sales, be.partners, be.salesPeople, ledgerUC)
	masterUC := masterdata.NewUseCase(be.repos.RawMaterials, be.repos.Products, be.partners, be.salesPeople)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Producción API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:     ledgerUC,
		Runs:       runUC,
		Orders:     orderUC,
		Sales:      saleUC,
		MasterData: masterUC,
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
