package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/config"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/http/apierr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/http/middleware"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/http/swagger"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/metric"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/service"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/cache"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/db"
)

var tracer = otel.Tracer("internal/http")

const apiPrefix = "/api/v1"

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	metrics  *metric.Metrics
	gatherer prometheus.Gatherer
	doc      *openapi3.T
	health   db.HealthChecker
	// idempotency is optional; submissions are not deduplicated without it.
	idempotency cache.IdempotencyStore

	authSvc      service.AuthService
	storeSvc     service.StoreService
	productSvc   service.ProductService
	inventorySvc service.InventoryService
}

type CleanupFunc func(ctx context.Context) error

type Services struct {
	Auth      service.AuthService
	Store     service.StoreService
	Product   service.ProductService
	Inventory service.InventoryService
}

func New(
	cfg config.HTTP,
	log *slog.Logger,
	metrics *metric.Metrics,
	gatherer prometheus.Gatherer,
	doc *openapi3.T,
	health db.HealthChecker,
	idempotency cache.IdempotencyStore,
	svcs Services,
) *Service {
	return &Service{
		cfg:          cfg,
		logger:       log.With(slog.String("service", "http")),
		metrics:      metrics,
		gatherer:     gatherer,
		doc:          doc,
		health:       health,
		idempotency:  idempotency,
		authSvc:      svcs.Auth,
		storeSvc:     svcs.Store,
		productSvc:   svcs.Product,
		inventorySvc: svcs.Inventory,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	h, err := s.Handler()
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, h)
}

// Handler builds the full router.
func (s *Service) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	if err := s.RegisterHandlers(r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", slog.Any("error", err))
		}
	}()
	s.logger.Info("http server listening", slog.String("addr", ln.Addr().String()))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) error {
	validate, err := middleware.OpenAPIValidator(s.doc, s.handleResponseError)
	if err != nil {
		return err
	}

	authH := newAuthHandler(s.authSvc)
	storeH := newStoreHandler(s.storeSvc)
	productH := newProductHandler(s.productSvc)
	inventoryH := newInventoryHandler(s.inventorySvc)

	r.Get("/healthz", s.handle(s.healthz))
	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	r.Route(apiPrefix, func(r chi.Router) {
		r.Use(validate)

		r.Post("/auth/register", s.handle(authH.Register))
		r.Post("/auth/login", s.handle(authH.Login))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.authSvc, s.handleResponseError))

			r.Get("/stores", s.handle(storeH.ListStores))
			r.Post("/stores", s.handle(storeH.CreateStore))
			r.Delete("/stores/{store_id}", s.handle(storeH.DeleteStore))

			r.Get("/products", s.handle(productH.ListProducts))
			r.Get("/products/suggestions", s.handle(productH.SuggestProducts))
			r.Get("/products/{product_id}", s.handle(productH.GetProduct))
			r.Put("/products/{product_id}", s.handle(productH.UpdateProduct))
			r.Delete("/products/{product_id}", s.handle(productH.DeleteProduct))
			r.Put("/products/{product_id}/stores/{store_id}/inventory", s.handle(inventoryH.SetQuantity))

			r.With(middleware.Idempotency(s.idempotency, s.logger, s.handleResponseError)).
				Post("/inventory/submissions", s.handle(inventoryH.SubmitStock))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.handleResponseError(w, r, apperr.RouteNotFoundErr)
	})

	return nil
}

func (s *Service) healthz(w http.ResponseWriter, r *http.Request) error {
	if s.health != nil {
		ok, err := s.health.IsHealthy(r.Context())
		if err != nil || !ok {
			return apperr.UnhealthyErr.WrapParent(err)
		}
	}

	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := apierr.Write(w, res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}
