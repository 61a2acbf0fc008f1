// main.go
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

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-gonic/gin"

	"zerosync-web/config"
	"zerosync-web/logger"
	"zerosync-web/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.InitLogger(cfg.LogDir); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	logger.SetLogLevel(cfg.Env)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, newPublisher(cfg))
	if err != nil {
		logger.Error.Fatalf("Failed to build application: %v", err)
	}
	router, err := setupRouter(app)
	if err != nil {
		logger.Error.Fatalf("Failed to set up router: %v", err)
	}

	var handler http.Handler = router
	if cfg.TracingEnabled {
		handler = xray.Handler(xray.NewFixedSegmentNamer(cfg.MetricsNamespace), router)
		logger.Info.Println("X-Ray tracing enabled")
	}

	go CleanupRoutine(ctx, app.logins, app.hub, app.publisher, cfg.VisitorIdleTimeout)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info.Printf("Listening on :%s (env=%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Printf("Server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info.Println("Shutting down")
	app.hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error.Printf("Graceful shutdown failed: %v", err)
	}
}

func newPublisher(cfg *config.Config) metrics.Publisher {
	if !cfg.MetricsEnabled {
		return metrics.NoopPublisher{}
	}
	p, err := metrics.NewCloudWatchPublisher(cfg.MetricsNamespace)
	if err != nil {
		logger.Warn.Printf("CloudWatch metrics disabled: %v", err)
		return metrics.NoopPublisher{}
	}
	return p
}
