// Package server exposes the store over HTTP: one generic CRUD
// controller per entity, authentication routes, and the revenue summary.
package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	store "github.com/tsubame-dev/store-api"
)

type Server struct {
	app    *fiber.App
	cfg    *store.Config
	repos  store.RepositoryManager
	auth   store.Authenticator
	logger store.Logger
	sink   store.ActivitySink
}

// Option configures the server before routes are mounted.
type Option func(*Server)

func WithLogger(logger store.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithActivitySink wires an audit sink into every CRUD controller.
func WithActivitySink(sink store.ActivitySink) Option {
	return func(s *Server) {
		s.sink = store.NormalizeActivitySink(sink)
	}
}

// New builds the fiber app and mounts every route. The returned server
// is ready to Listen; tests drive it through App().Test.
func New(cfg *store.Config, repos store.RepositoryManager, auth store.Authenticator, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		repos:  repos,
		auth:   auth,
		logger: store.NewDefaultLogger(),
		sink:   store.NormalizeActivitySink(nil),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "Tsubame Store API",
		ErrorHandler: newErrorHandler(s.logger),
	})

	s.app.Use(corsMiddleware(cfg))
	s.registerRoutes()

	return s
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on the configured address.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.GetListenAddr())
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func corsMiddleware(cfg *store.Config) fiber.Handler {
	origins := cfg.GetAllowedOrigins()
	if len(origins) == 0 {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowCredentials: true,
	})
}

func (s *Server) registerRoutes() {
	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Tsubame Store API",
			"version": "1.0.0",
		})
	})

	api := s.app.Group("/api")

	api.Post("/auth/login", s.handleLogin)
	api.Get("/auth/me", s.requireAuth, s.handleMe)

	// more specific than /revenue/:id, so it must be mounted first
	api.Get("/revenue/summary", s.requireAuth, s.handleRevenueSummary)

	protected := []fiber.Handler{s.requireAuth}

	RegisterCrud(api, "/products", "Product", s.repos.Products(),
		func(r *store.Product) int64 { return r.ID }, s.logger, s.sink, protected...)
	RegisterCrud(api, "/materials", "Material", s.repos.Materials(),
		func(r *store.Material) int64 { return r.ID }, s.logger, s.sink, protected...)
	RegisterCrud(api, "/inventory", "Inventory", s.repos.Inventory(),
		func(r *store.Inventory) int64 { return r.ID }, s.logger, s.sink, protected...)
	RegisterCrud(api, "/product-materials", "Product material", s.repos.ProductMaterials(),
		func(r *store.ProductMaterial) int64 { return r.ID }, s.logger, s.sink, protected...)
	RegisterCrud(api, "/distributors", "Distributor", s.repos.Distributors(),
		func(r *store.Distributor) int64 { return r.ID }, s.logger, s.sink, protected...)
	RegisterCrud(api, "/distributor-details", "Distributor detail", s.repos.DistributorDetails(),
		func(r *store.DistributorDetail) int64 { return r.ID }, s.logger, s.sink, protected...)
	RegisterCrud(api, "/orders", "Order", s.repos.Orders(),
		func(r *store.Order) int64 { return r.ID }, s.logger, s.sink, protected...)
	RegisterCrud(api, "/order-details", "Order detail", s.repos.OrderDetails(),
		func(r *store.OrderDetail) int64 { return r.ID }, s.logger, s.sink, protected...)
	RegisterCrud(api, "/payments", "Payment", s.repos.Payments(),
		func(r *store.Payment) int64 { return r.ID }, s.logger, s.sink, protected...)
	RegisterCrud(api, "/revenue", "Revenue data", s.repos.Revenue(),
		func(r *store.Revenue) int64 { return r.ID }, s.logger, s.sink, protected...)
	RegisterCrud(api, "/audit-logs", "Audit log", s.repos.AuditLogs(),
		func(r *store.AuditLog) int64 { return r.ID }, s.logger, s.sink, protected...)
}
