package router

import (
	"fmt"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clinovia/portal-api/internal/middleware"
)

// Handler is anything that can mount its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// PublicHandler additionally exposes unauthenticated routes.
type PublicHandler interface {
	Handler
	RegisterPublicRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimit  middleware.RateLimitConfig
	CORSConfig middleware.CORSConfig
	Timeout    time.Duration
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	healthH      Handler
	invitationH  PublicHandler
	patientH     Handler
	requestH     Handler
	appointmentH Handler
	orderH       Handler
	portalH      Handler
	webhookH     Handler
	webhookAuth  gin.HandlerFunc
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

var timeHHMM = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// registerValidators adds the custom binding validators used by request
// models. timehhmm accepts a 24h wall-clock like "14:30".
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("timehhmm", func(fl validator.FieldLevel) bool {
			return timeHHMM.MatchString(fl.Field().String())
		})
	}
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	healthH Handler,
	invitationH PublicHandler,
	patientH Handler,
	requestH Handler,
	appointmentH Handler,
	orderH Handler,
	portalH Handler,
	webhookH Handler,
	webhookSecret string,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	registerValidators()

	engine := gin.New()
	metrics := initRouterMetrics("portal_api")

	r := &Router{
		engine:       engine,
		auth:         auth,
		healthH:      healthH,
		invitationH:  invitationH,
		patientH:     patientH,
		requestH:     requestH,
		appointmentH: appointmentH,
		orderH:       orderH,
		portalH:      portalH,
		webhookH:     webhookH,
		webhookAuth:  middleware.WebhookAuth(webhookSecret),
		metrics:      metrics,
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	if config.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(config.RateLimit)
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.healthH.RegisterRoutes(api)

	// Public: invitation check/accept carry their own credential (the token).
	r.invitationH.RegisterPublicRoutes(api)

	// Auth provider webhook, signed with the shared secret.
	webhooks := api.Group("")
	webhooks.Use(r.webhookAuth)
	r.webhookH.RegisterRoutes(webhooks)

	// Staff surface: session auth plus clinic scope resolution.
	staff := api.Group("")
	staff.Use(r.auth.Authenticate())
	r.invitationH.RegisterRoutes(staff)
	r.patientH.RegisterRoutes(staff)
	r.requestH.RegisterRoutes(staff)
	r.appointmentH.RegisterRoutes(staff)
	r.orderH.RegisterRoutes(staff)

	// Patient portal surface.
	portal := api.Group("/portal")
	portal.Use(r.auth.AuthenticatePortal())
	r.portalH.RegisterRoutes(portal)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	prometheus.MustRegister(r.metrics.requestDuration, r.metrics.requestTotal, r.metrics.errorTotal)

	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
