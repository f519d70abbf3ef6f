package api

import (
	"fmt"
	"net"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/productstore/store-api/docs"
	"github.com/productstore/store-api/internal/api/handler"
	"github.com/productstore/store-api/internal/api/middleware"
	"github.com/productstore/store-api/internal/core/domain"
	"github.com/productstore/store-api/internal/core/ports"
	"github.com/productstore/store-api/internal/infrastructure/http/handlers"
)

const (
	metricsPath = "/metrics"

	scopeRegister = "register"
	scopeLogin    = "login"
)

// Deps are the collaborators the HTTP layer needs. Limiter may be nil to
// disable throttling of the auth endpoints; nil Readiness entries are skipped.
type Deps struct {
	Auth      ports.AuthService
	Products  ports.ProductService
	Orders    ports.OrderService
	Limiter   middleware.Limiter
	Readiness map[string]handlers.Pinger
	Logger    zerolog.Logger

	StaticDir   string
	CORSOrigins []string

	// IPExtractor resolves the client IP used for rate limiting. Nil means
	// the socket peer address; forwarding headers are then ignored.
	IPExtractor echo.IPExtractor

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// route binds a path to the policy operation guarding it.
type route struct {
	method  string
	path    string
	op      domain.Operation
	handler echo.HandlerFunc
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = d.IPExtractor
	if e.IPExtractor == nil {
		e.IPExtractor = echo.ExtractIPDirect()
	}
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: corsOrigins(d.CORSOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "store",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == metricsPath
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	productHandler := handler.NewProductHandler(d.Products)
	orderHandler := handler.NewOrderHandler(d.Orders)

	// --- Auth routes (public, throttled per client IP) ---
	e.POST("/api/register", authHandler.Register, middleware.RateLimit(d.Limiter, scopeRegister, d.Logger))
	e.POST("/api/login", authHandler.Login, middleware.RateLimit(d.Limiter, scopeLogin, d.Logger))

	// --- Policy-guarded routes ---
	routes := []route{
		{"GET", "/api/products", domain.OpListProducts, productHandler.List},
		{"POST", "/api/products", domain.OpCreateProduct, productHandler.Create},
		{"PUT", "/api/products/:id", domain.OpUpdateProduct, productHandler.Update},
		{"DELETE", "/api/products/:id", domain.OpDeleteProduct, productHandler.Delete},
		{"GET", "/api/orders", domain.OpListOrders, orderHandler.List},
		{"POST", "/api/orders", domain.OpCreateOrder, orderHandler.Create},
	}
	authMiddleware := middleware.Auth(d.Auth)
	for _, r := range routes {
		var mw []echo.MiddlewareFunc
		if domain.RequiresToken(r.op) {
			mw = append(mw, authMiddleware)
		}
		mw = append(mw, middleware.Authorize(r.op))
		e.Add(r.method, r.path, r.handler, mw...)
	}

	// --- Static product images ---
	if d.StaticDir != "" {
		e.Static("/photo", d.StaticDir)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational ---
	e.GET(metricsPath, echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// IPExtractorFor trusts X-Forwarded-For only when it was appended by one of
// the given proxy ranges. With no ranges the peer address is used as is.
func IPExtractorFor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Status >= 400:
				evt = log.Warn()
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
