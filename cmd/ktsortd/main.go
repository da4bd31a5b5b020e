// Command ktsortd is the ktsort scoring service.
// It serves the batch scoring endpoints and a health check.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ktsort/ktsort/internal/api"
	"github.com/ktsort/ktsort/internal/logging"
	"github.com/ktsort/ktsort/internal/platform"
)

type config struct {
	Port           string
	DatabaseDriver string
	DatabaseURL    string
	APIKey         string
	LogLevel       string
	Workers        int
}

func loadConfig() (config, error) {
	cfg := config{
		Port:           envOrDefault("PORT", "8080"),
		DatabaseDriver: envOrDefault("KTSORT_DATABASE_DRIVER", platform.DriverPostgres),
		DatabaseURL:    os.Getenv("KTSORT_DATABASE_URL"),
		APIKey:         os.Getenv("KTSORT_API_KEY"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
	}
	if v := os.Getenv("KTSORT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("KTSORT_WORKERS: invalid value %q", v)
		}
		cfg.Workers = n
	}
	return cfg, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ktsortd:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewService(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The result store is optional; without it the service only scores.
	var store api.Store
	if cfg.DatabaseURL != "" {
		s, err := platform.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()
		store = s
	}

	mux := http.NewServeMux()
	api.NewHandler(store, cfg.Workers, logger).RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = api.APIKeyAuth(cfg.APIKey)(handler)
	handler = api.CORS(handler)
	handler = api.RequestLog(logger)(handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting ktsortd", zap.String("port", cfg.Port), zap.Bool("store", store != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
