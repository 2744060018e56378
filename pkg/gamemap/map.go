// Package gamemap describes a Warcraft III map as the hosting client needs
// it: the map path, the fingerprint fields advertised to other players and
// the game settings folded into the game flags word.
package gamemap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/w3stat/pkg/digest"
	"github.com/ssargent/w3stat/pkg/statstring"
)

// ErrInvalidMap is returned when a map description fails validation.
var ErrInvalidMap = errors.New("gamemap: invalid map")

// Map holds the metadata of one map file. Binary fields keep the raw bytes
// sent on the wire.
type Map struct {
	Path       string     `yaml:"path"`
	Size       Bytes      `yaml:"size"`
	Info       Bytes      `yaml:"info"`
	CRC        Bytes      `yaml:"crc"`
	SHA1       Bytes      `yaml:"sha1"`
	Width      Bytes      `yaml:"width"`
	Height     Bytes      `yaml:"height"`
	Speed      Speed      `yaml:"speed"`
	Visibility Visibility `yaml:"visibility"`
	Observers  Observers  `yaml:"observers"`
	Flags      TeamFlags  `yaml:"flags"`
	Filter     Filter     `yaml:"filter"`
	Options    Options    `yaml:"options"`
	Players    int        `yaml:"players"`
	Teams      int        `yaml:"teams"`
}

// Default returns the built-in Emerald Gardens map as shipped with
// Warcraft III 1.24.
func Default() Map {
	return Map{
		Path:       `Maps\FrozenThrone\(12)EmeraldGardens.w3x`,
		Size:       Bytes{174, 221, 4, 0},
		Info:       Bytes{251, 57, 68, 98},
		CRC:        Bytes{108, 250, 204, 59},
		SHA1:       Bytes{35, 81, 104, 182, 223, 63, 204, 215, 1, 17, 87, 234, 220, 66, 3, 185, 82, 99, 6, 13},
		Width:      Bytes{172, 0},
		Height:     Bytes{172, 0},
		Speed:      SpeedFast,
		Visibility: VisibilityDefault,
		Observers:  ObserversNone,
		Flags:      FlagTeamsTogether | FlagFixedTeams,
		Filter: Filter{
			Maker:     FilterMakerBlizzard,
			Type:      FilterTypeMelee,
			Size:      FilterSizeLarge,
			Observers: FilterObsNone,
		},
		Options: OptMelee,
		Players: 12,
		Teams:   1,
	}
}

// Load reads a YAML map description.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Map{}, fmt.Errorf("failed to read map file: %w", err)
	}

	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Map{}, fmt.Errorf("failed to parse map file: %w", err)
	}

	if err := m.Validate(); err != nil {
		return Map{}, err
	}
	return m, nil
}

// Save writes m as YAML.
func Save(m Map, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}
	return nil
}

// Validate checks field widths.
func (m Map) Validate() error {
	if m.Path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidMap)
	}

	widths := []struct {
		name  string
		field Bytes
		want  int
	}{
		{"size", m.Size, 4},
		{"info", m.Info, 4},
		{"crc", m.CRC, 4},
		{"sha1", m.SHA1, digest.Size},
		{"width", m.Width, 2},
		{"height", m.Height, 2},
	}
	for _, w := range widths {
		if len(w.field) != w.want {
			return fmt.Errorf("%w: %s has %d bytes, want %d", ErrInvalidMap, w.name, len(w.field), w.want)
		}
	}
	return nil
}

// GameStat returns the stat string fields for a game hosted by host. The
// byte order must match the one used to encode the result so the raw
// width, height and CRC bytes survive unchanged.
func (m Map) GameStat(host string, order binary.ByteOrder) statstring.GameStat {
	if order == nil {
		order = binary.LittleEndian
	}
	return statstring.GameStat{
		Flags:    m.GameFlags(),
		Width:    order.Uint16(m.Width),
		Height:   order.Uint16(m.Height),
		MapCRC:   order.Uint32(m.CRC),
		MapPath:  m.Path,
		HostName: host,
	}
}

// WithFingerprint returns a copy of m carrying freshly computed file size,
// CRC-32 and SHA-1 values. Integers are stored little-endian.
func (m Map) WithFingerprint(size uint32, crc uint32, sha digest.Digest) Map {
	m.Size = binary.LittleEndian.AppendUint32(nil, size)
	m.CRC = binary.LittleEndian.AppendUint32(nil, crc)
	m.SHA1 = sha.Bytes()
	return m
}
