package main

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hierviz/adapters/tabular"
	"hierviz/internal"
	"hierviz/internal/config"
	"hierviz/internal/session"
	"hierviz/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level), appConfig.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appConfig, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// run serves the UI, the optional admin listener and the session sweeper
// until ctx is cancelled or one of them fails.
func run(ctx context.Context, appConfig *config.Config, logger *internal.Logger) error {
	gin.SetMode(appConfig.Server.GinMode)

	reader := tabular.NewReader(tabular.ReaderConfig{
		MaxBytes:   appConfig.Upload.MaxBytes,
		NullValues: appConfig.Upload.NullValues,
	})
	sessions := session.NewManager(reader, appConfig.Session.TTL, logger)

	server, err := ui.NewServer(appConfig, sessions, logger)
	if err != nil {
		return err
	}

	servers := []*http.Server{server.HTTPServer(":" + appConfig.Server.Port)}
	if appConfig.Profiling.Enabled {
		servers = append(servers, ui.NewAdminServer(":"+appConfig.Profiling.Port, sessions, logger))
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		return sessions.Run(gctx, appConfig.Session.SweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", appConfig.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return stderrors.Join(errs...)
	})

	return g.Wait()
}
