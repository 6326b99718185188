package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	promhandler "github.com/jwalitptl/dental-console/internal/handler/prometheus"
	"github.com/jwalitptl/dental-console/internal/middleware"
	"github.com/jwalitptl/dental-console/pkg/logger"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	config  RouterConfig
	session gin.HandlerFunc

	healthH  Handler
	authH    Handler
	shellH   Handler
	panelHs  []Handler
	metricsH *promhandler.Handler
}

type RouterConfig struct {
	Mode           string
	AllowedOrigins []string
	MetricsPath    string
	MaxBodySize    int64
	Logger         *logger.Logger
}

// NewRouter wires global middleware. session guards everything except auth and health.
func NewRouter(
	config RouterConfig,
	session gin.HandlerFunc,
	healthH Handler,
	authH Handler,
	shellH Handler,
	metricsH *promhandler.Handler,
	panelHs ...Handler,
) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = middleware.DefaultMaxBodySize
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		config:   config,
		session:  session,
		healthH:  healthH,
		authH:    authH,
		shellH:   shellH,
		panelHs:  panelHs,
		metricsH: metricsH,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(config.Logger),
		middleware.Logger(config.Logger),
		middleware.SecurityHeaders(),
		middleware.SizeLimit(config.MaxBodySize),
	)
	if metricsH != nil {
		engine.Use(metricsH.Middleware())
	}

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderXRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.healthH.RegisterRoutes(api)
	r.authH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.session)
	r.shellH.RegisterRoutes(protected)
	for _, h := range r.panelHs {
		h.RegisterRoutes(protected)
	}

	if r.metricsH != nil && r.config.MetricsPath != "" {
		r.engine.GET(r.config.MetricsPath, r.metricsH.Handler())
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
