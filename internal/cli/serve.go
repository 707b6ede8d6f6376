package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coinly/coinly/internal/config"
	"github.com/coinly/coinly/internal/handler"
	"github.com/coinly/coinly/internal/logger"
	"github.com/coinly/coinly/internal/repository"
	"github.com/coinly/coinly/internal/service"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(app *App) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory Finance and Blog API for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.Config
			if port != "" {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, newServer(&cfg))
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (default $PORT)")
	return cmd
}

// newServer builds the dev stub server backed by a fresh in-memory store.
func newServer(cfg *config.Config) *http.Server {
	store := repository.NewMemoryStore()

	financeService := service.NewFinanceService(store)
	blogService := service.NewBlogService(store)

	router := handler.NewRouter(
		handler.RouterConfig{JWTSecret: cfg.JWTSecret, AllowedOrigins: cfg.AllowedOrigins},
		handler.NewFinanceHandler(financeService),
		handler.NewBlogHandler(blogService),
	)

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, server *http.Server) error {
	log := logger.Logger()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", slog.String("error", err.Error()))
			return err
		}
		return nil
	})

	return g.Wait()
}
