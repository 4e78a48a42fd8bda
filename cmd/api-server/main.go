package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"shelfsafe/internal/extract"
	"shelfsafe/internal/overlay"
	"shelfsafe/internal/scan"
	"shelfsafe/pkg/config"
	"shelfsafe/pkg/database"
	"shelfsafe/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logg, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer logg.Sync()

	db := database.MustOpen(database.Config{Path: cfg.DB.Path})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.DB.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "not_ready",
				"db_error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	// Overlay store (public read)
	overlayRepo := overlay.NewRepo(db)
	overlayHandler := overlay.NewHandler(overlayRepo)
	overlayHandler.RegisterRoutes(router.Group("/ingredients"))

	// Scan pipeline
	extractor := extract.NewClient(extract.ClientConfig{
		APIKey:          cfg.Gemini.APIKey,
		BaseURL:         cfg.Gemini.BaseURL,
		Model:           cfg.Gemini.Model,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Timeout:         cfg.Gemini.Timeout,
	}, logg)

	scanSvc := scan.NewService(extractor, overlayRepo, logg)
	scanHandler := scan.NewHandler(scanSvc)
	scanHandler.RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:    cfg.App.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Infof("HTTP API server listening on %s", cfg.App.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logg.Infof("shutdown signal received: %s", sig)
	case err := <-errCh:
		logg.Errorf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logg.Errorf("http shutdown error: %v", err)
	}
	logg.Infof("server stopped")
}
