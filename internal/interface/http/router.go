package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/prayer-api/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
		timeoutMiddleware(cfg.HTTP.RequestTimeout),
	)

	basePath := cfg.HTTP.BasePath
	if basePath == "" {
		basePath = "/"
	}
	api := router.Group(basePath)
	{
		api.GET("/health", handler.Health)
		api.GET("/locations", handler.Locations)
		api.GET("/prayer-times", handler.PrayerTimes)
		api.GET("/prayer-times/:name", handler.PrayerTime)
		api.GET("/location-info", handler.LocationInfo)
		api.GET("/qiblah", handler.Qiblah)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
