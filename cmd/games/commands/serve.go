package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fortuna/games/internal/api/rest"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the collectors over HTTP until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := getValue(cmd.Context())
			if !cmd.Flags().Changed("port") {
				port = v.Config.RESTPort
			}
			logger := v.Logger.With("component", "serve")

			restServer := rest.NewServer(port, v.Collector, v.Logger)
			errc := make(chan error, 1)
			go func() {
				logger.Info("starting REST API server", "port", port, "version", appVersion)
				errc <- restServer.Start()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			logger.Info("shutting down gracefully")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := restServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("REST API server shutdown error", "err", err)
				return err
			}
			logger.Info("stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "8080", "listen port (env REST_PORT)")
	return cmd
}
