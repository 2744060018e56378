/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/w3stat/pkg/config"
	"github.com/ssargent/w3stat/pkg/gamemap"
	"github.com/ssargent/w3stat/pkg/statstring"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <hex|->",
	Short: "Encode bytes with the stat-string codec",
	Long: `Encode a byte sequence so that it contains no zero bytes. The input is a
hex string, or raw bytes from stdin when the argument is "-".

Examples:
  w3stat encode 0000000000000000
  printf 'hello' | w3stat encode --format dec -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		data, err := bytesArg(cmd, args[0])
		if err != nil {
			return err
		}
		rendered, err := formatBytes(statstring.Encode(data), format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	},
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <hex|->",
	Short: "Decode a stat-string encoded byte sequence",
	Long: `Decode a byte sequence produced by the stat-string codec. Truncated
chunks, masks without the low bit and zero bytes are rejected.

Examples:
  w3stat decode 0101010101010101
  w3stat decode --format dec 0d6968656d6d6f`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		data, err := bytesArg(cmd, args[0])
		if err != nil {
			return err
		}
		decoded, err := statstring.Decode(data)
		if err != nil {
			return err
		}
		rendered, err := formatBytes(decoded, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	},
}

// statstringCmd represents the statstring command
var statstringCmd = &cobra.Command{
	Use:   "statstring",
	Short: "Build the stat string a host advertises",
	Long: `Build and encode the game stat string for a map and host name. The map
comes from --map, the config map_file, or the built-in Emerald Gardens map.
With --parse the command decodes an encoded stat string instead.

Examples:
  w3stat statstring
  w3stat statstring --host JiLiZART --format dec
  w3stat statstring --map ./maps/emerald.yaml
  w3stat statstring --parse 010349070101...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		mapFile, _ := cmd.Flags().GetString("map")
		host, _ := cmd.Flags().GetString("host")
		parse, _ := cmd.Flags().GetString("parse")

		cfg, _ := settingsFrom(cmd)
		order, err := cfg.Order()
		if err != nil {
			return err
		}

		var (
			stat statstring.GameStat
			m    gamemap.Map
		)
		if parse != "" {
			encoded, err := bytesArg(cmd, parse)
			if err != nil {
				return err
			}
			stat, err = statstring.ParseGameStat(encoded, order)
			if err != nil {
				return err
			}
		} else {
			m, err = loadMap(cfg, mapFile)
			if err != nil {
				return err
			}
			if host == "" {
				host = cfg.HostName
			}
			stat = m.GameStat(host, order)
		}

		payload, err := formatBytes(stat.Payload(order), format)
		if err != nil {
			return err
		}
		encoded, err := formatBytes(stat.Encode(order), format)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "flags:   0x%08X\n", stat.Flags)
		fmt.Fprintf(out, "size:    %dx%d\n", stat.Width, stat.Height)
		fmt.Fprintf(out, "map crc: 0x%08X\n", stat.MapCRC)
		fmt.Fprintf(out, "map:     %s\n", stat.MapPath)
		fmt.Fprintf(out, "host:    %s\n", stat.HostName)
		fmt.Fprintf(out, "payload: %s\n", payload)
		fmt.Fprintf(out, "encoded: %s\n", encoded)
		if parse == "" {
			fmt.Fprintf(out, "type:    0x%08X\n", m.GameType())
			fmt.Fprintf(out, "slots:   %d players, %d teams\n", m.Players, m.Teams)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(statstringCmd)

	addFormatFlag(encodeCmd)
	addFormatFlag(decodeCmd)
	addFormatFlag(statstringCmd)

	statstringCmd.Flags().String("map", "", "YAML map description (default: config map_file or Emerald Gardens)")
	statstringCmd.Flags().String("host", "", "Host name (default: config host_name)")
	statstringCmd.Flags().String("parse", "", "Decode this hex stat string instead of building one")
}

// loadMap returns the map named by path, then the configured map file, then
// the built-in default.
func loadMap(cfg *config.Config, path string) (gamemap.Map, error) {
	if path == "" {
		path = cfg.MapFile
	}
	if path == "" {
		return gamemap.Default(), nil
	}
	return gamemap.Load(path)
}
