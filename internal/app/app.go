package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/shop/internal/config"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/ieventrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/postgres"
	"github.com/corray333/backend-labs/shop/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/shop/internal/dal/repositories/events"
	"github.com/corray333/backend-labs/shop/internal/dal/s3"
	"github.com/corray333/backend-labs/shop/internal/dal/stripe"
	"github.com/corray333/backend-labs/shop/internal/otel"
	"github.com/corray333/backend-labs/shop/internal/service/services/categorysvc"
	"github.com/corray333/backend-labs/shop/internal/service/services/checkoutsvc"
	"github.com/corray333/backend-labs/shop/internal/service/services/media"
	"github.com/corray333/backend-labs/shop/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/shop/internal/service/services/productsvc"
	"github.com/corray333/backend-labs/shop/internal/service/services/usersvc"
	httptransport "github.com/corray333/backend-labs/shop/internal/transport/http"
	"github.com/corray333/backend-labs/shop/internal/transport/http/middleware/auth"
	"github.com/corray333/backend-labs/shop/pkg/imageproc"
)

const shutdownTimeout = 10 * time.Second

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otel           *otel.OtelController
}

// MustNewApp connects every gateway and wires the services into the HTTP transport.
func MustNewApp(ctx context.Context, cfg *config.Config) *App {
	otelController := otel.MustInitOtel(cfg.Tracing)
	postgresClient := postgres.MustNewClient(ctx, cfg.Postgres)

	var (
		rabbitClient *rabbitmq.Client
		eventRepo    ieventrepo.IEventRepository = events.Noop{}
	)
	if cfg.RabbitMQ.Enabled {
		rabbitClient = rabbitmq.MustNewClient(cfg.RabbitMQ)
		eventRepo = events.NewEventRabbitMQRepository(rabbitClient)
	}

	imageStore := media.NewStore(
		s3.MustNewClient(ctx, cfg.S3),
		imageproc.New(cfg.Images.MaxWidth, cfg.Images.MaxHeight),
	)

	services := httptransport.Services{
		Orders: ordersvc.MustNewOrderService(
			ordersvc.WithPostgresClient(postgresClient),
			ordersvc.WithEventRepository(eventRepo),
		),
		Products: productsvc.MustNewProductService(
			productsvc.WithPostgresClient(postgresClient),
			productsvc.WithImageStore(imageStore),
		),
		Categories: categorysvc.MustNewCategoryService(
			categorysvc.WithPostgresClient(postgresClient),
			categorysvc.WithImageStore(imageStore),
		),
		Users: usersvc.MustNewUserService(
			usersvc.WithPostgresClient(postgresClient),
			usersvc.WithTokenIssuer(auth.NewIssuer(cfg.Auth)),
		),
		Checkout: checkoutsvc.MustNewCheckoutService(
			checkoutsvc.WithPostgresClient(postgresClient),
			checkoutsvc.WithPaymentGateway(stripe.NewClient(cfg.Stripe)),
			checkoutsvc.WithConfig(cfg.Stripe),
		),
	}

	transport := httptransport.NewHTTPTransport(cfg, services)
	transport.RegisterRoutes()

	return &App{
		transport:      transport,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otel:           otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed")

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	if err := a.otel.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
