package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	internalHTTP "github.com/allisson/phiguard/internal/http"
	"github.com/allisson/phiguard/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// RunMetricsServer serves metrics on listener until ctx is cancelled or a
// SIGINT/SIGTERM arrives, then shuts down gracefully.
func RunMetricsServer(
	ctx context.Context,
	provider *metrics.Provider,
	namespace string,
	ready internalHTTP.ReadinessCheck,
	logger *slog.Logger,
	listener net.Listener,
) error {
	gin.SetMode(gin.ReleaseMode)
	server := internalHTTP.NewMetricsServer(logger, provider, namespace, ready)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("metrics server error: %w", err)
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	var shutdownErrors []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
	}
	if err := <-serverErr; err != nil {
		shutdownErrors = append(shutdownErrors, err)
	}
	return errors.Join(shutdownErrors...)
}
