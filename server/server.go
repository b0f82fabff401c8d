// Package server HTTP сервер актов СБИС на базе Gin.
package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vipfat/Sbis-Yen/catalog"
	"github.com/vipfat/Sbis-Yen/document"
	"github.com/vipfat/Sbis-Yen/internal/config"
	"github.com/vipfat/Sbis-Yen/server/handlers"
	"github.com/vipfat/Sbis-Yen/server/middleware"
)

// Server HTTP сервер с реестром справочников и сборщиком актов
type Server struct {
	config     *config.Config
	registry   *catalog.Registry
	builder    *document.Builder
	sender     handlers.DocumentSender
	reload     handlers.ReloadFunc
	logger     *slog.Logger
	httpServer *http.Server
}

// Options зависимости сервера
type Options struct {
	Config   *config.Config
	Registry *catalog.Registry
	Sender   handlers.DocumentSender
	Reload   handlers.ReloadFunc
	Logger   *slog.Logger
}

// New создает сервер
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		config:   opts.Config,
		registry: opts.Registry,
		builder:  document.NewBuilder(opts.Registry, opts.Config.Company, logger),
		sender:   opts.Sender,
		reload:   opts.Reload,
		logger:   logger,
	}
}

// Router собирает Gin роутер со всеми маршрутами
func (s *Server) Router() *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.GinRequestIDMiddleware(),
		middleware.GinRecoveryMiddleware(s.logger),
		middleware.GinLoggerMiddleware(s.logger),
		middleware.GinCORSMiddleware(),
		middleware.GinGzipMiddleware(),
	)

	systemHandler := handlers.NewSystemHandler(s.registry)
	resolutionHandler := handlers.NewResolutionHandler(s.registry)
	catalogsHandler := handlers.NewCatalogsHandler(s.registry, s.reload)
	documentsHandler := handlers.NewDocumentsHandler(s.builder, s.sender)

	router.GET("/healthz", systemHandler.HandleHealth)

	api := router.Group("/api")
	{
		resolution := api.Group("/resolution")
		{
			resolution.POST("/similarity", resolutionHandler.HandleSimilarity)
			resolution.POST("/match", resolutionHandler.HandleMatch)
			resolution.POST("/topk", resolutionHandler.HandleTopK)
			resolution.POST("/resolve", resolutionHandler.HandleResolve)
		}

		catalogs := api.Group("/catalogs")
		{
			catalogs.GET("", catalogsHandler.HandleList)
			catalogs.POST("/reload", catalogsHandler.HandleReload)
			catalogs.GET("/:source", catalogsHandler.HandleEntries)
		}

		documents := api.Group("/documents")
		{
			documents.POST("/build", documentsHandler.HandleBuild)
			documents.POST("/send", documentsHandler.HandleSend)
		}
	}

	handlers.RegisterSwaggerRoutes(router, s.config.Port)

	return router
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Сервер запускается на порту %s", s.config.Port)
	log.Printf("API доступно по адресу: http://localhost%s", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server on %s: %w", addr, err)
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Printf("Останавливаю HTTP сервер...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	log.Printf("HTTP сервер остановлен")
	return nil
}
