package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/shop/internal/config"
	"github.com/corray333/backend-labs/shop/internal/service/models/product"
	"github.com/corray333/backend-labs/shop/internal/service/services/categorysvc"
	"github.com/corray333/backend-labs/shop/internal/service/services/checkoutsvc"
	"github.com/corray333/backend-labs/shop/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/shop/internal/service/services/productsvc"
	"github.com/corray333/backend-labs/shop/internal/service/services/usersvc"
	"github.com/corray333/backend-labs/shop/internal/transport/http/categories"
	"github.com/corray333/backend-labs/shop/internal/transport/http/checkout"
	"github.com/corray333/backend-labs/shop/internal/transport/http/docs"
	"github.com/corray333/backend-labs/shop/internal/transport/http/form"
	"github.com/corray333/backend-labs/shop/internal/transport/http/middleware/auth"
	"github.com/corray333/backend-labs/shop/internal/transport/http/orders"
	"github.com/corray333/backend-labs/shop/internal/transport/http/products"
	"github.com/corray333/backend-labs/shop/internal/transport/http/respond"
	"github.com/corray333/backend-labs/shop/internal/transport/http/users"
	"github.com/corray333/backend-labs/shop/pkg/http/middleware/metrics"
	"github.com/corray333/backend-labs/shop/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/shop/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "shop"

// Services are the services exposed over HTTP.
type Services struct {
	Orders     *ordersvc.OrderService
	Products   *productsvc.ProductService
	Categories *categorysvc.CategoryService
	Users      *usersvc.UserService
	Checkout   *checkoutsvc.CheckoutService
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	services Services
	prefix   string
	limits   form.Limits
	registry *prometheus.Registry
}

// NewHTTPTransport builds the router with the middleware chain
// request id, logging, tracing, metrics, CORS and the authorization gate.
func NewHTTPTransport(cfg *config.Config, services Services) *HTTPTransport {
	registry := prometheus.NewRegistry()
	serverMetrics := metrics.NewServerMetrics(metricsNamespace, registry)

	router := newRouter(cfg, serverMetrics)
	server := newServer(cfg.Server.HTTP, router)

	return &HTTPTransport{
		server:   server,
		router:   router,
		services: services,
		prefix:   cfg.Server.HTTP.APIPrefix,
		limits: form.Limits{
			MaxImage: cfg.Server.HTTP.MaxUploadBytes,
			// a full gallery plus the text fields
			MaxBody: cfg.Server.HTTP.MaxUploadBytes*product.MaxGalleryImages + 1<<20,
		},
		registry: registry,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handler returns the root handler.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	h.router.Method(http.MethodGet, "/metrics", metrics.Handler(h.registry))
	h.router.Get(docs.SpecPath, docs.Spec)
	h.router.Get("/swagger/*", docs.UI())

	h.router.Route(h.prefix, func(r chi.Router) {
		r.Route("/orders", h.orderRoutes)
		r.Route("/products", h.productRoutes)
		r.Route("/categories", h.categoryRoutes)
		r.Route("/users", h.userRoutes)
		r.Post("/checkout/create-checkout-session", h.createCheckoutSession)
	})
}

func (h *HTTPTransport) orderRoutes(r chi.Router) {
	svc := h.services.Orders

	r.Get("/", func(w http.ResponseWriter, r *http.Request) { orders.List(w, r, svc) })
	r.Post("/", func(w http.ResponseWriter, r *http.Request) { orders.Create(w, r, svc) })
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) { orders.Get(w, r, svc) })
	r.Get("/get/totalsales", func(w http.ResponseWriter, r *http.Request) { orders.TotalSales(w, r, svc) })
	r.Get("/get/count", func(w http.ResponseWriter, r *http.Request) { orders.Count(w, r, svc) })
	r.Get("/get/userorders/{userId}", func(w http.ResponseWriter, r *http.Request) { orders.UserOrders(w, r, svc) })

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) { orders.UpdateStatus(w, r, svc) })
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { orders.Delete(w, r, svc) })
	})
}

func (h *HTTPTransport) productRoutes(r chi.Router) {
	svc := h.services.Products

	r.Get("/", func(w http.ResponseWriter, r *http.Request) { products.List(w, r, svc) })
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) { products.Get(w, r, svc) })
	r.Get("/get/count", func(w http.ResponseWriter, r *http.Request) { products.Count(w, r, svc) })
	r.Get("/get/featured/{count}", func(w http.ResponseWriter, r *http.Request) { products.Featured(w, r, svc) })

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Post("/", func(w http.ResponseWriter, r *http.Request) { products.Create(w, r, svc, h.limits) })
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) { products.Update(w, r, svc, h.limits) })
		r.Put("/gallery-images/{id}", func(w http.ResponseWriter, r *http.Request) {
			products.UpdateGallery(w, r, svc, h.limits)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { products.Delete(w, r, svc) })
	})
}

func (h *HTTPTransport) categoryRoutes(r chi.Router) {
	svc := h.services.Categories

	r.Get("/", func(w http.ResponseWriter, r *http.Request) { categories.List(w, r, svc) })
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) { categories.Get(w, r, svc) })

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Post("/", func(w http.ResponseWriter, r *http.Request) { categories.Create(w, r, svc, h.limits) })
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) { categories.Update(w, r, svc, h.limits) })
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { categories.Delete(w, r, svc) })
	})
}

func (h *HTTPTransport) userRoutes(r chi.Router) {
	svc := h.services.Users

	r.Post("/register", func(w http.ResponseWriter, r *http.Request) { users.Register(w, r, svc) })
	r.Post("/login", func(w http.ResponseWriter, r *http.Request) { users.Login(w, r, svc) })
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) { users.Get(w, r, svc) })
	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) { users.Update(w, r, svc) })

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) { users.List(w, r, svc) })
		r.Post("/", func(w http.ResponseWriter, r *http.Request) { users.Create(w, r, svc) })
		r.Get("/get/count", func(w http.ResponseWriter, r *http.Request) { users.Count(w, r, svc) })
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { users.Delete(w, r, svc) })
	})
}

func (h *HTTPTransport) createCheckoutSession(w http.ResponseWriter, r *http.Request) {
	checkout.CreateSession(w, r, h.services.Checkout)
}

func newRouter(cfg *config.Config, serverMetrics *metrics.ServerMetrics) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware(cfg.Tracing.ServiceName))
	router.Use(serverMetrics.Middleware)

	corsCfg := cfg.Server.HTTP.CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   corsCfg.AllowedMethods,
		AllowedHeaders:   corsCfg.AllowedHeaders,
		ExposedHeaders:   corsCfg.ExposedHeaders,
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	})
	router.Use(c.Handler)

	router.Use(auth.NewGate(cfg.Auth).Middleware)

	return router
}

func newServer(cfg config.HTTP, router http.Handler) *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
