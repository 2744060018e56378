package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/w3stat/pkg/bytebuf"
)

const stdinArg = "-"

// openInput opens the named file, or stdin for "-".
func openInput(cmd *cobra.Command, name string) (io.ReadCloser, error) {
	if name == stdinArg {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

// bytesArg decodes a hex argument, or reads raw bytes from stdin for "-".
func bytesArg(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(arg), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

// formatBytes renders p as lowercase hex or as a decimal byte list.
func formatBytes(p []byte, format string) (string, error) {
	switch format {
	case "hex":
		return hex.EncodeToString(p), nil
	case "dec":
		return bytebuf.FormatNumbers(p), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want hex or dec)", format)
	}
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", "hex", "Byte output format: hex or dec")
}
