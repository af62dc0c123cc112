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

	"github.com/hospitalsr/farmacia-api/internal/application/auth"
	"github.com/hospitalsr/farmacia-api/internal/application/catalogo"
	"github.com/hospitalsr/farmacia-api/internal/application/consolidado"
	"github.com/hospitalsr/farmacia-api/internal/application/cuadre"
	"github.com/hospitalsr/farmacia-api/internal/application/ingreso"
	"github.com/hospitalsr/farmacia-api/internal/application/kardex"
	"github.com/hospitalsr/farmacia-api/internal/application/requisicion"
	"github.com/hospitalsr/farmacia-api/internal/infrastructure/postgres"
	httpRouter "github.com/hospitalsr/farmacia-api/internal/interfaces/http"
	"github.com/hospitalsr/farmacia-api/pkg/config"
	"github.com/hospitalsr/farmacia-api/pkg/logger"
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

	insumoRepo := postgres.NewInsumoRepository(pool)
	loteRepo := postgres.NewLoteRepository(pool)
	movimientoRepo := postgres.NewMovimientoRepository(pool)
	saldoRepo := postgres.NewSaldoRepository(pool)
	requisicionRepo := postgres.NewRequisicionRepository(pool)
	consolidadoRepo := postgres.NewConsolidadoRepository(pool)
	cuadreRepo := postgres.NewCuadreRepository(pool)
	servicioRepo := postgres.NewServicioRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	motor := kardex.NewMotor()
	consultas := kardex.NewConsultas(insumoRepo, movimientoRepo, saldoRepo)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogoUC := catalogo.NewUseCase(insumoRepo, loteRepo, servicioRepo)
	ingresoUC := ingreso.NewUseCase(txRunner, motor, insumoRepo)
	requisicionUC := requisicion.NewUseCase(txRunner, motor, requisicionRepo, servicioRepo, insumoRepo)
	consolidadoUC := consolidado.NewUseCase(txRunner, motor, consolidadoRepo, servicioRepo, insumoRepo, cfg.Farmacia.CamasPorSala)
	cuadreUC := cuadre.NewUseCase(txRunner, motor, cuadreRepo, saldoRepo, insumoRepo)

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
		Title:    "Farmacia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CatalogoUC:    catalogoUC,
		IngresoUC:     ingresoUC,
		Consultas:     consultas,
		RequisicionUC: requisicionUC,
		ConsolidadoUC: consolidadoUC,
		CuadreUC:      cuadreUC,
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
