package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/registry"
	grpcapi "github.com/GriffinCanCode/NexusOS/backend/internal/grpc"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/server"
)

// Build information set via ldflags
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nexus",
		Short:         "NexusOS desktop backend",
		Long:          "Window and session manager behind the NexusOS web desktop.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newServeCmd(), newAppsCmd(), newHealthCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var (
		port string
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP, WebSocket and gRPC health endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Flags override environment
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if dev {
				cfg.Logging.Development = true
				cfg.Logging.Level = "debug"
			}

			srv, err := server.NewServer(cfg)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			errChan := make(chan error, 1)
			go func() {
				errChan <- srv.Run()
			}()

			select {
			case <-sigChan:
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(ctx)
			case err := <-errChan:
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				srv.Shutdown(ctx)
				return err
			}
		},
	}

	cmd.Flags().StringVar(&port, "port", "8000", "HTTP port (overrides PORT)")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP bind address (overrides HOST)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Development logging (colored, debug level)")
	return cmd
}

func newAppsCmd() *cobra.Command {
	var manifest string

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List the application catalogue in dock order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if manifest == "" {
				manifest = os.Getenv("APPS_MANIFEST")
			}

			apps, err := registry.Load(manifest, registry.DefaultCatalog())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSIZE\tSINGLETON\tCOMPONENT")
			for _, app := range apps.Info() {
				fmt.Fprintf(w, "%s\t%s\t%dx%d\t%t\t%s\n",
					app.ID, app.Title, app.DefaultWidth, app.DefaultHeight, app.Singleton, app.Component)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&manifest, "manifest", "", "Manifest file (.yaml, .toml, .json); builtin catalogue when empty")
	return cmd
}

func newHealthCmd() *cobra.Command {
	var (
		addr    string
		service string
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe the gRPC health endpoint of a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := grpcapi.NewHealthClient(addr)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			status, err := client.Check(ctx, service)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			if status != "SERVING" {
				return fmt.Errorf("%s is %s", addr, status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:50051", "gRPC health address")
	cmd.Flags().StringVar(&service, "service", "", "Service name (empty for the whole backend)")
	return cmd
}
