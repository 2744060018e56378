/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ssargent/w3stat/pkg/api"
	"github.com/ssargent/w3stat/pkg/config"
	"github.com/ssargent/w3stat/pkg/fingerprint"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the w3stat REST API server. Every route under /api/v1 requires the
X-API-Key header; /metrics serves Prometheus metrics without authentication.

Fingerprint requests name files relative to the map directory. When the config
sets cache_dir, fingerprints are cached and exposed under /api/v1/cache.

Examples:
  w3stat serve
  w3stat serve --port 9000 --map-dir ./maps
  w3stat serve --config ./w3stat.yaml --api-key mysecretkey`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := settingsFrom(cmd)
		applyServeFlags(cmd, cfg)

		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}

		apiKey := cfg.Security.APIKey
		if apiKey == "" || apiKey == "auto" {
			generated, err := config.GenerateSecureKey(32)
			if err != nil {
				return err
			}
			apiKey = generated
			cmd.PrintErrf("Generated API key for this session: %s\n", apiKey)
		}

		order, err := cfg.Order()
		if err != nil {
			return err
		}
		m, err := loadMap(cfg, "")
		if err != nil {
			return err
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := api.NewMetricsWith(registry)
		opts := []fingerprint.Option{
			fingerprint.WithByteOrder(order),
			fingerprint.WithLogger(logger),
			fingerprint.WithObserver(metrics),
		}

		var cacheReader api.ICache
		cache, err := openCache(cfg, logger, metrics)
		if err != nil {
			return err
		}
		if cache != nil {
			defer cache.Close()
			opts = append(opts, fingerprint.WithCache(cache))
			cacheReader = cache
		}

		server := api.NewServer(fingerprint.New(opts...), cacheReader, api.ServerConfig{
			Port:     cfg.Port,
			Bind:     cfg.Bind,
			APIKey:   apiKey,
			HostName: cfg.HostName,
			Map:      m,
			MapDir:   cfg.MapDir,
			Gatherer: registry,
		}, metrics, logger)

		ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		starter := container.GetServerFactory().CreateServerStarter()
		if err := starter.StartServer(ctx, server); err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key for client authentication (default: config security.api_key)")
	serveCmd.Flags().String("map-dir", ".", "Directory fingerprint requests are resolved against")
	serveCmd.Flags().String("cache-dir", "", "Fingerprint cache directory (default: config cache_dir)")
}

// applyServeFlags overrides config values with flags set on the command line
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("bind") {
		cfg.Bind, _ = flags.GetString("bind")
	}
	if flags.Changed("api-key") {
		cfg.Security.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("map-dir") {
		cfg.MapDir, _ = flags.GetString("map-dir")
	}
	if flags.Changed("cache-dir") {
		cfg.CacheDir, _ = flags.GetString("cache-dir")
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
