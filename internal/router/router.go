package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	adminhandler "github.com/SiddhuQuant/dietec-api/internal/handler/admin"
	authhandler "github.com/SiddhuQuant/dietec-api/internal/handler/auth"
	doctorhandler "github.com/SiddhuQuant/dietec-api/internal/handler/doctor"
	healthhandler "github.com/SiddhuQuant/dietec-api/internal/handler/health"
	portalhandler "github.com/SiddhuQuant/dietec-api/internal/handler/portal"
	"github.com/SiddhuQuant/dietec-api/internal/middleware"
	"github.com/SiddhuQuant/dietec-api/internal/model"
)

type RouterConfig struct {
	RateLimit     rate.Limit
	RateBurst     int
	Timeout       time.Duration
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	authH   *authhandler.Handler
	adminH  *adminhandler.Handler
	doctorH *doctorhandler.Handler
	portalH *portalhandler.Handler
	healthH *healthhandler.Handler
	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authhandler.Handler,
	adminH *adminhandler.Handler,
	doctorH *doctorhandler.Handler,
	portalH *portalhandler.Handler,
	healthH *healthhandler.Handler,
	logger zerolog.Logger,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	if config.Timeout <= 0 {
		config.Timeout = middleware.DefaultTimeoutConfig().Duration
	}

	r := &Router{
		engine:  engine,
		auth:    auth,
		authH:   authH,
		adminH:  adminH,
		doctorH: doctorH,
		portalH: portalH,
		healthH: healthH,
		metrics: initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   float64(config.RateLimit),
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	// Public routes: login, signup, logout, session bootstrap
	r.authH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	admin := protected.Group("")
	admin.Use(r.auth.RequireRole(model.RoleAdmin))
	r.adminH.RegisterRoutes(admin)

	doctor := protected.Group("")
	doctor.Use(r.auth.RequireRole(model.RoleDoctor))
	r.doctorH.RegisterRoutes(doctor)

	patient := protected.Group("")
	patient.Use(r.auth.RequireRole(model.RolePatient))
	r.portalH.RegisterRoutes(patient)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	r.healthH.RegisterRoutes(rg)
	rg.GET("/health/metrics", gin.WrapH(promhttp.Handler()))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	if prefix == "" {
		prefix = "dietec"
	}
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
