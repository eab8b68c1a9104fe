package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/shipstore/lma-finance/internal/http/middleware"
	"github.com/shipstore/lma-finance/internal/metrics"
)

type RouterConfig struct {
	Environment    string
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	Log            zerolog.Logger
}

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, cfg RouterConfig) *gin.Engine {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.Metrics(cfg.Metrics))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	handler.Register(router, authMiddleware)
	return router
}
