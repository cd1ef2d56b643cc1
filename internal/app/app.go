package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"coffeemachine/internal/coffee"
	"coffeemachine/internal/config"
)

const metricsShutdownTimeout = 5 * time.Second

// Application runs the long-lived command bus: the Kafka consumer plus, when
// configured, the Prometheus endpoint.
type Application struct {
	ctx       context.Context
	cancel    context.CancelFunc
	container *Container
	consumer  coffee.ConsumerService
}

// NewApplication builds the container with messaging enabled and wires the
// consumer loop.
func NewApplication(ctx context.Context, cfg *config.Config, opts Options) (*Application, error) {
	appCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

	opts.Messaging = true
	container, err := NewContainer(appCtx, cfg, opts)
	if err != nil {
		cancel()
		return nil, err
	}

	handler := coffee.NewMessageHandler(container.Service(), container.MessageProducer(), container.Logger())
	consumer := coffee.NewConsumerService(
		container.MessageConsumer(),
		handler,
		container.Logger(),
		cfg.Messaging.CommandRateLimit,
	)

	container.Logger().Info("Application initialized successfully")
	return &Application{
		ctx:       appCtx,
		cancel:    cancel,
		container: container,
		consumer:  consumer,
	}, nil
}

// Run blocks until the context is canceled or a component fails.
func (app *Application) Run() error {
	g, ctx := errgroup.WithContext(app.ctx)

	g.Go(func() error {
		return app.consumer.Start(ctx)
	})

	if addr := app.container.Config().Telemetry.MetricsAddr; addr != "" {
		server := app.metricsServer(addr)
		g.Go(func() error {
			app.container.Logger().Info("📈 Serving metrics", zap.String("addr", addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func (app *Application) metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.container.Metrics().Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(mux, "metrics"),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Shutdown gracefully shuts down all application components
func (app *Application) Shutdown() {
	app.container.Logger().Info("Starting application shutdown...")
	app.cancel()
	app.container.Shutdown(context.Background())
}
