/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ssargent/w3stat/pkg/api"
	"github.com/ssargent/w3stat/pkg/config"
	"github.com/ssargent/w3stat/pkg/fingerprint"
	"github.com/ssargent/w3stat/pkg/storage"
)

// fingerprintOutput is one line of --output json
type fingerprintOutput struct {
	fingerprint.Fingerprint
	StatString string `json:"stat_string,omitempty"`
}

// fingerprintCmd represents the fingerprint command
var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint <file...>",
	Short: "Fingerprint one or more map files",
	Long: `Compute the size, CRC-32 and SHA-1 of map files. Files are processed
concurrently, bounded by --concurrency or the config batch.concurrency.
When cache_dir is configured, unchanged files are served from the cache.

Examples:
  w3stat fingerprint maps/*.w3x
  w3stat fingerprint --stat --host JiLiZART "maps/(12)EmeraldGardens.w3x"
  w3stat fingerprint --output json --concurrency 4 maps/*.w3x`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		output, _ := cmd.Flags().GetString("output")
		withStat, _ := cmd.Flags().GetBool("stat")
		mapFile, _ := cmd.Flags().GetString("map")
		host, _ := cmd.Flags().GetString("host")

		if output != "text" && output != "json" {
			return fmt.Errorf("unknown output %q (want text or json)", output)
		}

		cfg, logger := settingsFrom(cmd)
		order, err := cfg.Order()
		if err != nil {
			return err
		}
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}
		if host == "" {
			host = cfg.HostName
		}
		m, err := loadMap(cfg, mapFile)
		if err != nil {
			return err
		}

		opts := []fingerprint.Option{
			fingerprint.WithByteOrder(order),
			fingerprint.WithLogger(logger),
		}
		cache, err := openCache(cfg, logger, nil)
		if err != nil {
			return err
		}
		if cache != nil {
			defer cache.Close()
			opts = append(opts, fingerprint.WithCache(cache))
		}
		pipeline := fingerprint.New(opts...)

		results, err := pipeline.Batch(cmd.Context(), args, concurrency)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		enc := json.NewEncoder(out)
		for _, fp := range results {
			line := fingerprintOutput{Fingerprint: fp}
			if withStat {
				_, encoded := pipeline.StatString(fp, m, host)
				line.StatString = fmt.Sprintf("%x", encoded)
			}

			if output == "json" {
				if err := enc.Encode(line); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				continue
			}
			fmt.Fprintf(out, "%s\tsize=%d\tcrc32=0x%08X\tsha1=%s\n", fp.Path, fp.Size, fp.CRC32, fp.SHA1)
			if withStat {
				fmt.Fprintf(out, "\tstat=%s\n", line.StatString)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)

	fingerprintCmd.Flags().IntP("concurrency", "c", 0, "Files fingerprinted in parallel (default: config batch.concurrency)")
	fingerprintCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	fingerprintCmd.Flags().Bool("stat", false, "Also print the encoded stat string for each file")
	fingerprintCmd.Flags().String("map", "", "YAML map description used with --stat")
	fingerprintCmd.Flags().String("host", "", "Host name used with --stat (default: config host_name)")
}

// openCache opens the configured fingerprint cache through the container.
// It returns a nil store when no cache directory is configured.
func openCache(cfg *config.Config, logger *slog.Logger, observer storage.Observer) (api.CacheStore, error) {
	if cfg.CacheDir == "" {
		return nil, nil
	}

	factory := api.NewCacheFactory()
	if container != nil {
		factory = container.GetCacheFactory()
	}

	opts := []storage.Option{storage.WithLogger(logger)}
	if observer != nil {
		opts = append(opts, storage.WithObserver(observer))
	}
	cache, err := factory.OpenCache(cfg.CacheDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return cache, nil
}
