package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/drumtwinlabs/drumtwin/internal/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Starts the twin in server mode, exposing the simulation and forecast endpoints as a JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := buildApp(cmd)
		if err != nil {
			fmt.Printf("Error initializing drumtwin: %v\n", err)
			os.Exit(1)
		}

		addr := app.cfg.Server.Addr
		if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
			addr = flagAddr
		}

		handler := httpadapter.NewHandler(app.twin,
			httpadapter.WithLogger(app.logger),
			httpadapter.WithMetrics(app.registry),
			httpadapter.WithModelInfo(app.modelInfo),
		)

		srv := &http.Server{
			Addr:    addr,
			Handler: handler,
		}

		serverErrors := make(chan error, 1)

		go func() {
			app.logger.Info("drumtwin server listening", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			app.logger.Info("shutdown signal received", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				app.logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					app.logger.Error("error killing server", "err", err)
				}
			}
			app.logger.Info("drumtwin server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (overrides the config file)")
}
