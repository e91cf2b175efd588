package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alligatorO15/finboard/internal/api/handlers"
	"github.com/alligatorO15/finboard/internal/api/middleware"
	"github.com/alligatorO15/finboard/internal/config"
	"github.com/alligatorO15/finboard/internal/dashboard"
)

type Server struct {
	router    *gin.Engine
	config    *config.Config
	dashboard *dashboard.Dashboard
	tokens    middleware.TokenValidator
	logger    zerolog.Logger
}

// NewServer builds the router. tokens may be nil, which leaves /api/v1 open.
func NewServer(cfg *config.Config, d *dashboard.Dashboard, tokens middleware.TokenValidator, logger zerolog.Logger) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:    router,
		config:    cfg,
		dashboard: d,
		tokens:    tokens,
		logger:    logger,
	}

	server.setupRoutes()

	return server
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogger(s.logger))

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rangeHandler := handlers.NewRangeHandler(s.dashboard.Selector())
	reportHandler := handlers.NewReportHandler(s.dashboard)
	statsHandler := handlers.NewStatsHandler(s.dashboard)

	api := s.router.Group("/api/v1")
	if s.tokens != nil {
		api.Use(middleware.Auth(s.tokens))
	}
	{
		api.GET("/range", rangeHandler.Get)
		api.PUT("/range", rangeHandler.Set)

		reports := api.Group("/reports")
		{
			reports.GET("", reportHandler.List)
			reports.GET("/:name", reportHandler.Get)
			reports.POST("/:name/refresh", reportHandler.Refresh)
			reports.GET("/:name/history", reportHandler.History)
		}

		api.POST("/refresh", reportHandler.RefreshAll)
		api.GET("/stats", statsHandler.Get)
	}
}
