package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/graph"
	fernkafka "github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/processor"
	fernredis "github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/routes/company"
	"github.com/Ramsey-B/fern/pkg/routes/health"
	"github.com/Ramsey-B/fern/pkg/routes/people"
	"github.com/Ramsey-B/fern/pkg/startup"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zlog, err := newZapLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zlog.Sync() }()

	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		zlog.Info("log", zap.Any("entry", msg))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerShutdown := setupTracing(ctx, cfg, logger)
	defer tracerShutdown()

	graphClient, err := graph.NewClient(graph.Config{
		Host:     cfg.GraphDBHost,
		Port:     cfg.GraphDBPort,
		Username: cfg.GraphDBUser,
		Password: cfg.GraphDBPassword,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to create graph client")
		os.Exit(1)
	}
	defer func() { _ = graphClient.Close(context.Background()) }()

	companies := graph.NewCompanyService(graphClient, logger)
	persons := graph.NewPersonService(graphClient, logger)
	employments := graph.NewEmploymentService(graphClient, logger)
	acquisitions := graph.NewAcquisitionService(graphClient, logger)

	var producer *fernkafka.Producer
	if cfg.KafkaAuditEnabled {
		producer = fernkafka.NewProducer(fernkafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaAuditTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer func() { _ = producer.Close() }()
	}
	emitter := events.NewEmitter(producer, logger)

	dispatcher := processor.NewProcessor(logger, companies, persons, employments, acquisitions, emitter)

	orchestrator := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	orchestrator.AddDependency(&graphDependency{client: graphClient})

	var redisClient *fernredis.Client
	var ingest health.Runner
	switch cfg.IngestSource {
	case config.IngestSourceRedis:
		redisClient, err = fernredis.NewClient(fernredis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to create redis client")
			os.Exit(1)
		}
		defer func() { _ = redisClient.Close() }()

		subscriber := fernredis.NewSubscriber(redisClient, cfg.RedisChannel, logger, dispatcher.Handle)
		orchestrator.AddDependency(subscriber)
		ingest = subscriber
	default:
		consumer := fernkafka.NewConsumer(fernkafka.ConsumerConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaInputTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
		}, logger, func(ctx context.Context, msg *fernkafka.IncomingMessage) error {
			return dispatcher.Handle(ctx, msg.Envelope)
		})
		orchestrator.AddDependency(consumer)
		ingest = consumer
	}

	checker := newHealthChecker(cfg, graphClient, redisClient, ingest)
	server := newHTTPServer(cfg, logger, checker, companies, persons)
	orchestrator.AddDependency(server)

	if err := orchestrator.Start(ctx); err != nil {
		logger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}
	checker.SetReady(true)
	logger.Infof("%s listening on port %d", cfg.AppName, cfg.Port)

	<-ctx.Done()
	logger.Info("Shutdown signal received")
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := orchestrator.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown did not complete cleanly")
	}
}

func newZapLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

// setupTracing installs the OTLP tracer provider when an endpoint is
// configured; tracing stays no-op otherwise. Returns the shutdown func.
func setupTracing(ctx context.Context, cfg *config.Config, logger ectologger.Logger) func() {
	tracing.SetTracer(otel.Tracer(cfg.AppName))

	if cfg.OTLPEndpoint == "" {
		return func() {}
	}

	exporterCfg := exporters.DefaultOTLPConfig()
	exporterCfg.Endpoint = cfg.OTLPEndpoint
	exporterCfg.Insecure = cfg.OTLPInsecure

	exporter, err := exporters.NewOTLPExporter(ctx, exporterCfg)
	if err != nil {
		logger.WithError(err).Error("Failed to create OTLP exporter, tracing disabled")
		return func() {}
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.AppName),
			semconv.ServiceVersion(cfg.Version),
		)),
	)
	otel.SetTracerProvider(provider)
	tracing.SetTracer(otel.Tracer(cfg.AppName))

	logger.Infof("Tracing enabled, exporting to %s", cfg.OTLPEndpoint)
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to shut down tracer provider")
		}
	}
}

func newHealthChecker(cfg *config.Config, graphClient *graph.Client, redisClient *fernredis.Client, ingest health.Runner) *health.Checker {
	var redisPinger health.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	return health.NewChecker(graphClient, redisPinger, ingest, cfg.Version)
}

func newHTTPServer(
	cfg *config.Config,
	logger ectologger.Logger,
	checker *health.Checker,
	companies *graph.CompanyService,
	persons *graph.PersonService,
) *httpServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Context())
	e.Use(otelecho.Middleware(cfg.AppName, otelecho.WithSkipper(func(c echo.Context) bool {
		return c.Request().URL.Path == "/api/v1/health/live"
	})))
	e.Use(middleware.Logger(logger))

	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	company.NewHandler(companies, logger).Register(api)
	people.NewHandler(persons, logger).Register(api)

	return &httpServer{echo: e, addr: fmt.Sprintf(":%d", cfg.Port), logger: logger}
}

// graphDependency verifies graph connectivity and ensures the uniqueness
// constraints exist before anything consumes or serves.
type graphDependency struct {
	client *graph.Client
}

func (d *graphDependency) GetName() string {
	return "graph-database"
}

func (d *graphDependency) Start(ctx context.Context) error {
	if err := d.client.VerifyConnectivity(ctx); err != nil {
		return err
	}
	return d.client.EnsureConstraints(ctx)
}

func (d *graphDependency) Stop(ctx context.Context) error {
	return nil
}

type httpServer struct {
	echo   *echo.Echo
	addr   string
	logger ectologger.Logger
}

func (s *httpServer) GetName() string {
	return "http-server"
}

func (s *httpServer) Start(ctx context.Context) error {
	go func() {
		if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}()
	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
