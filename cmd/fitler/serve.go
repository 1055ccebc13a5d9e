package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ckdake/fitler/internal/api"
	httptransport "github.com/ckdake/fitler/internal/transport/http"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the status dashboard and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp("serve")
			if err != nil {
				return err
			}
			defer a.close()

			handler := api.NewHandler(a.syncer, a.priority)
			mux := http.NewServeMux()
			handler.RegisterRoutes(mux)
			mux.Handle("/metrics", promhttp.Handler())

			server := httptransport.NewServer(httptransport.ServerConfig{
				Address: a.cfg.HTTPAddress,
			}, mux)

			shutdownCh := make(chan os.Signal, 1)
			signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				a.log.Info().Str("address", a.cfg.HTTPAddress).Msg("dashboard listening")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-shutdownCh:
			case <-cmd.Context().Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				a.log.Error().Err(err).Msg("graceful shutdown failed")
				return err
			}
			return nil
		},
	}
}
