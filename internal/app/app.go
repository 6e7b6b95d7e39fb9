package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/gmoliveira/pizzaria-storefront/internal/backend"
	"github.com/gmoliveira/pizzaria-storefront/internal/checkout"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/cart"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/order"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/session"
	"github.com/gmoliveira/pizzaria-storefront/internal/handler"
	"github.com/gmoliveira/pizzaria-storefront/internal/storage/kv"
	"github.com/gmoliveira/pizzaria-storefront/internal/tracker"
	"github.com/gmoliveira/pizzaria-storefront/pkg/health"
	"github.com/gmoliveira/pizzaria-storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("backend_url", cfg.BackendURL))

	// Backend client.
	client, err := backend.New(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		return errors.Wrap(err, "create backend client")
	}

	// Session storage: Redis when configured, the file store otherwise.
	store, closeStore, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return errors.Wrap(err, "create store")
	}
	defer closeStore()

	pricing, err := cfg.Pricing.Parse()
	if err != nil {
		return errors.Wrap(err, "pricing")
	}

	// Domain services.
	carts := cart.NewStore(store)
	sessions := session.NewManager(store)
	checkoutSvc := checkout.NewService(client, pricing, cfg.Pricing.PizzaSize)
	trackerSvc := tracker.New(
		func(ctx context.Context, orderID string) (order.Status, error) {
			return client.OrderStatus(ctx, orderID)
		},
		cfg.Tracker.Interval,
		m.MeterProvider().Meter("storefront"),
	)
	defer trackerSvc.StopAll()

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("backend", 5*time.Second, health.PingCheck(client))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// HTTP handlers.
	h := handler.New(
		handler.Config{SecureCookies: cfg.SecureCookies},
		client,
		carts,
		sessions,
		checkoutSvc,
		trackerSvc,
		pricing,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Routes(mux)

	instrumented := otelhttp.NewHandler(mux, "storefront",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// newStore builds the configured kv store and its cleanup func.
func newStore(ctx context.Context, cfg StorageConfig) (kv.Store, func(), error) {
	if cfg.RedisAddr != "" {
		rs, err := kv.NewRedisStore(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, errors.Wrap(err, "redis")
		}
		return rs, func() { _ = rs.Close() }, nil
	}

	fs, err := kv.NewFileStore(cfg.Dir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "file store")
	}
	return fs, func() {}, nil
}
