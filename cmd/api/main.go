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

	_ "github.com/jhoicas/mrp-planner/docs"
	"github.com/jhoicas/mrp-planner/internal/application/inventory"
	"github.com/jhoicas/mrp-planner/internal/application/mrp"
	"github.com/jhoicas/mrp-planner/internal/application/usecase"
	"github.com/jhoicas/mrp-planner/internal/infrastructure/kafka"
	"github.com/jhoicas/mrp-planner/internal/infrastructure/metrics"
	"github.com/jhoicas/mrp-planner/internal/infrastructure/purchasing"
	"github.com/jhoicas/mrp-planner/internal/infrastructure/report"
	httpRouter "github.com/jhoicas/mrp-planner/internal/interfaces/http"
	"github.com/jhoicas/mrp-planner/pkg/config"
	"github.com/jhoicas/mrp-planner/pkg/logger"
)

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
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	policy := mrp.Policy{
		DefaultLookbackDays: cfg.Planning.DefaultLookbackDays,
		DefaultDailyRate:    cfg.Planning.DefaultDailyRate,
		SafetyBuffer:        cfg.Planning.SafetyBuffer,
		DefaultHorizonDays:  cfg.Planning.DefaultHorizonDays,
		LookupTimeout:       cfg.Purchasing.Timeout,
		Workers:             cfg.Planning.Workers,
	}

	// Motor MRP: libro → pronóstico → requerimientos → fachada / planificador
	ledger := inventory.NewLedgerUseCase(store.txRunner, store.materials, store.batches, store.events)
	forecaster := mrp.NewForecaster(store.materials, store.events, policy)
	calc := mrp.NewCalculator(store.materials, ledger, forecaster, policy)
	query := mrp.NewQueryFacade(store.materials, calc, policy, mrp.CacheConfig{
		TTL:        cfg.Planning.CacheTTL,
		MaxEntries: cfg.Planning.CacheMaxEntries,
	})
	ledger.Subscribe(query)

	purchasingClient := purchasing.NewClient(cfg.Purchasing.BaseURL, cfg.Purchasing.Timeout)
	if cfg.Purchasing.BaseURL == "" {
		log.Warn().Msg("PURCHASING_BASE_URL vacío: las sugerencias no descuentan órdenes abiertas")
	}
	planner := mrp.NewPlanner(store.materials, calc, purchasingClient, policy, log.Component("planner"))
	reports := mrp.NewReportUseCase(query, planner, report.NewRenderer())
	materialUC := usecase.NewMaterialUseCase(store.materials)

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New("mrp")
		ledger.Subscribe(appMetrics)
	}

	// Kafka: consumos de producción entrantes y publicación de movimientos
	kafkaDone := make(chan struct{})
	if cfg.Kafka.Enabled {
		kafkaLog := log.Component("kafka")
		if cfg.Kafka.MovementsTopic != "" {
			producer, err := kafka.NewSyncProducer(cfg.Kafka, cfg.App.Name)
			if err != nil {
				log.Fatal().Err(err).Msg("kafka producer")
			}
			defer producer.Close()
			ledger.Subscribe(kafka.NewMovementPublisher(producer, cfg.Kafka.MovementsTopic, kafkaLog))
		}

		group, err := kafka.NewConsumerGroup(cfg.Kafka, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("kafka consumer group")
		}
		handler := kafka.NewConsumptionHandler(ledger, kafkaLog)
		consumer := kafka.NewConsumer(group, []string{cfg.Kafka.ConsumptionTopic}, handler.Handle, kafkaLog)
		go func() {
			defer close(kafkaDone)
			if err := consumer.Run(ctx); err != nil {
				log.Error().Err(err).Msg("consumidor kafka finalizado")
			}
			_ = group.Close()
		}()
	} else {
		close(kafkaDone)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	if appMetrics != nil {
		app.Use(appMetrics.Middleware())
		app.Get("/metrics", appMetrics.Handler())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MRP Planner API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := store.ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MaterialUC: materialUC,
		Ledger:     ledger,
		Query:      query,
		Planner:    planner,
		Reports:    reports,
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

	stop()
	<-kafkaDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
