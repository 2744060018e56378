package gamemap

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/w3stat/pkg/bytebuf"
)

// Bytes is a raw byte field written in YAML as a decimal list, either as a
// string ("108 250 204 59") or as a sequence ([108, 250, 204, 59]).
type Bytes []byte

// MarshalYAML emits the string form.
func (b Bytes) MarshalYAML() (interface{}, error) {
	return bytebuf.FormatNumbers(b), nil
}

// UnmarshalYAML accepts both the string and the sequence form.
func (b *Bytes) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		text := strings.TrimSpace(node.Value)
		if text == "" {
			*b = nil
			return nil
		}
		parsed, err := bytebuf.ExtractNumbers(text, len(strings.Fields(text)))
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*b = parsed
		return nil

	case yaml.SequenceNode:
		var values []int
		if err := node.Decode(&values); err != nil {
			return err
		}
		out := make([]byte, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return fmt.Errorf("line %d: %w: %d", node.Line, bytebuf.ErrNumberRange, v)
			}
			out[i] = byte(v)
		}
		*b = out
		return nil

	default:
		return fmt.Errorf("line %d: byte field must be a string or a sequence", node.Line)
	}
}
