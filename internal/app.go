package internal

import (
	"context"
	"fmt"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	"tourvisto/internal/controllers"
	"tourvisto/internal/providers"
	"tourvisto/internal/scheduler/interfaces"
	"tourvisto/internal/structures"
)

type App struct {
	WebServer *http.Server
}

var defaultCorsOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// NewHandler assembles the full HTTP handler: infrastructure endpoints plus
// the instrumented, CORS-enabled API, all gzip-compressed.
func NewHandler(router providers.RouterProviderInterface, healthController *controllers.HealthController, conf *structures.Config, metrics providers.MetricsProviderInterface) http.Handler {
	origins := conf.WebServer.CorsOrigins
	if len(origins) == 0 {
		origins = defaultCorsOrigins
	}

	api := router.Mount(
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Appwrite-JWT"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         int((12 * time.Hour).Seconds()),
		}),
		func(next http.Handler) http.Handler {
			return providers.MetricsMiddleware(metrics, next)
		},
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", api)

	return gzhttp.GzipHandler(mux)
}

func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	app := &App{
		WebServer: &http.Server{
			Addr:              conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:           NewHandler(router, healthController, conf, metrics),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// Trip generation waits on the model, so writes get the generation timeout plus slack.
			WriteTimeout: max(conf.Generation.Timeout, 10*time.Second) + 30*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		scheduler.Stop()
		return nil, fmt.Errorf("server error: %w", err)
	}

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
