package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	webshopserver "github.com/ipcsmmd/webshop/go"

	catalogcache "github.com/ipcsmmd/webshop/internal/domains/catalog/adapters/cache"
	catalogmemory "github.com/ipcsmmd/webshop/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/ipcsmmd/webshop/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/ipcsmmd/webshop/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/ipcsmmd/webshop/internal/domains/catalog/application"
	catalogports "github.com/ipcsmmd/webshop/internal/domains/catalog/ports"

	customermemory "github.com/ipcsmmd/webshop/internal/domains/customers/adapters/memory"
	customerobs "github.com/ipcsmmd/webshop/internal/domains/customers/adapters/observability"
	customerpostgres "github.com/ipcsmmd/webshop/internal/domains/customers/adapters/persistence/postgres"
	customerapp "github.com/ipcsmmd/webshop/internal/domains/customers/application"
	customerports "github.com/ipcsmmd/webshop/internal/domains/customers/ports"

	ordermemory "github.com/ipcsmmd/webshop/internal/domains/orders/adapters/memory"
	orderobs "github.com/ipcsmmd/webshop/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/ipcsmmd/webshop/internal/domains/orders/adapters/persistence/postgres"
	orderworkflows "github.com/ipcsmmd/webshop/internal/domains/orders/adapters/workflows"
	orderapp "github.com/ipcsmmd/webshop/internal/domains/orders/application"
	orderports "github.com/ipcsmmd/webshop/internal/domains/orders/ports"

	platformobservability "github.com/ipcsmmd/webshop/internal/platform/observability"
	platformpostgres "github.com/ipcsmmd/webshop/internal/platform/postgres"
	platformredis "github.com/ipcsmmd/webshop/internal/platform/redis"
)

const serviceName = "webshop-api"

// Run boots the webshop HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, err := platformobservability.Init(ctx, cfg.Telemetry(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := instruments.Shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, cleanupRepos := BuildRepositories(ctx, cfg, logger)
	defer cleanupRepos()
	services := NewServices(repos, instruments)

	var placement orderports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(services.Orders)
	if temporalClient, err := ConnectTemporalClient(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		placement = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := webshopserver.ApiHandleFunctions{
		BeerAPI:     webshopserver.NewBeerAPI(services.Catalog),
		CustomerAPI: webshopserver.NewCustomerAPI(services.Customers),
		OrderAPI:    webshopserver.NewOrderAPI(services.Orders, placement, repos.OrderKeys),
	}

	router := newRouter(handlers, logger)
	addr := cfg.Addr()
	logger.Info("webshop API listening", slog.String("addr", addr))
	if err := runRouter(ctx, router, addr); err != nil {
		logger.Error("webshop API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func newRouter(handlers webshopserver.ApiHandleFunctions, logger *slog.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName), webshopserver.RequestID(), webshopserver.RequestLogger(logger))
	return webshopserver.NewRouterWithGinEngine(engine, handlers)
}

// Repositories bundles the storage adapters of every bounded context.
type Repositories struct {
	Catalog   catalogports.Repository
	Customers customerports.Repository
	Orders    orderports.Repository
	OrderKeys orderports.IdempotencyStore
}

// BuildRepositories selects postgres when reachable and memory otherwise. The
// catalog is wrapped in a redis read-through cache when REDIS_URL is reachable.
func BuildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (Repositories, func()) {
	repos := Repositories{
		Catalog:   catalogmemory.NewRepository(),
		Customers: customermemory.NewRepository(),
		Orders:    ordermemory.NewRepository(),
		OrderKeys: ordermemory.NewIdempotencyStore(),
	}
	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db != nil {
		repos = Repositories{
			Catalog:   catalogpostgres.NewRepository(db),
			Customers: customerpostgres.NewRepository(db),
			Orders:    orderpostgres.NewRepository(db),
			OrderKeys: orderpostgres.NewIdempotencyStore(db),
		}
		logger.Info("repositories configured with postgres")
	}
	redisClient, closeRedis := platformredis.ConnectOrSkip(ctx, cfg.RedisURL, logger)
	if redisClient != nil {
		repos.Catalog = catalogcache.NewRepository(repos.Catalog, redisClient,
			catalogcache.WithTTL(cfg.CatalogCacheTTL()),
			catalogcache.WithLogger(logger),
		)
		logger.Info("catalog cache enabled", slog.Duration("ttl", cfg.CatalogCacheTTL()))
	}
	return repos, func() {
		closeRedis()
		closeDB()
	}
}

// Services bundles the instrumented application services.
type Services struct {
	Catalog   catalogports.Service
	Customers customerports.Service
	Orders    orderports.Service
}

// NewServices builds every application service and wraps it with tracing, metrics and logging.
func NewServices(repos Repositories, instruments *platformobservability.Instruments) Services {
	logger := effectiveLogger(instruments)
	return Services{
		Catalog: catalogobs.New(
			catalogapp.NewService(repos.Catalog),
			catalogobs.WithLogger(logger),
			catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
			catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
		),
		Customers: customerobs.New(
			customerapp.NewService(repos.Customers),
			customerobs.WithLogger(logger),
			customerobs.WithTracer(instruments.Tracer("internal.customers.application")),
			customerobs.WithMeter(instruments.Meter("internal.customers.application")),
		),
		Orders: orderobs.New(
			orderapp.NewService(repos.Orders),
			orderobs.WithLogger(logger),
			orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
			orderobs.WithMeter(instruments.Meter("internal.orders.application")),
		),
	}
}

// ConnectTemporalClient dials Temporal with tracing and structured logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
