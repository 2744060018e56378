/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/w3stat/pkg/checksum"
	"github.com/ssargent/w3stat/pkg/digest"
)

// crc32Cmd represents the crc32 command
var crc32Cmd = &cobra.Command{
	Use:   "crc32 <file|->",
	Short: "Compute the CRC-32 of a file",
	Long: `Compute the standard CRC-32 of a file, or of stdin when the argument is "-".
The checksum is printed as a hex word followed by its bytes in the configured
byte order.

Examples:
  w3stat crc32 "Maps/(12)EmeraldGardens.w3x"
  w3stat crc32 --format dec map.w3x
  cat map.w3x | w3stat crc32 -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		cfg, _ := settingsFrom(cmd)
		order, err := cfg.Order()
		if err != nil {
			return err
		}

		in, err := openInput(cmd, args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		h := checksum.New()
		if _, err := io.Copy(h, in); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		crc := h.Sum32()

		rendered, err := formatBytes(checksum.Bytes(crc, order), format)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "crc32: 0x%08X\n", crc)
		fmt.Fprintf(cmd.OutOrStdout(), "bytes: %s\n", rendered)
		return nil
	},
}

// sha1Cmd represents the sha1 command
var sha1Cmd = &cobra.Command{
	Use:   "sha1 <file|->",
	Short: "Compute the SHA-1 digest of a file",
	Long: `Compute the SHA-1 digest of a file, or of stdin when the argument is "-".

Examples:
  w3stat sha1 map.w3x
  w3stat sha1 --format dec map.w3x`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		in, err := openInput(cmd, args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		h := digest.New()
		if _, err := io.Copy(h, in); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		rendered, err := formatBytes(h.Finalize().Bytes(), format)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sha1: %s\n", rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crc32Cmd)
	rootCmd.AddCommand(sha1Cmd)
	addFormatFlag(crc32Cmd)
	addFormatFlag(sha1Cmd)
}
