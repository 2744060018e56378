package statstring

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ssargent/w3stat/pkg/bytebuf"
)

// ErrMalformedStat is returned when a decoded payload does not follow the
// GameStat layout.
var ErrMalformedStat = errors.New("statstring: malformed game stat")

// fixedLen covers flags, separator, width, height and map CRC.
const fixedLen = 4 + 1 + 2 + 2 + 4

// GameStat holds the fields a host advertises for a game.
type GameStat struct {
	Flags    uint32 `json:"flags"`
	Width    uint16 `json:"width"`
	Height   uint16 `json:"height"`
	MapCRC   uint32 `json:"map_crc"`
	MapPath  string `json:"map_path"`
	HostName string `json:"host_name"`
}

// Payload assembles the unencoded stat string.
func (s GameStat) Payload(order binary.ByteOrder) []byte {
	b := bytebuf.New(order)
	b.AppendUint32(s.Flags).
		AppendByte(0).
		AppendUint16(s.Width).
		AppendUint16(s.Height).
		AppendUint32(s.MapCRC).
		AppendCString(s.MapPath).
		AppendCString(s.HostName).
		AppendByte(0)
	return b.Bytes()
}

// Encode returns the wire form of the stat string.
func (s GameStat) Encode(order binary.ByteOrder) []byte {
	return Encode(s.Payload(order))
}

// ParseGameStat decodes a wire stat string and splits it into fields.
func ParseGameStat(encoded []byte, order binary.ByteOrder) (GameStat, error) {
	payload, err := Decode(encoded)
	if err != nil {
		return GameStat{}, err
	}
	return ParsePayload(payload, order)
}

// ParsePayload splits an unencoded stat string into fields.
func ParsePayload(p []byte, order binary.ByteOrder) (GameStat, error) {
	var s GameStat
	if order == nil {
		order = binary.LittleEndian
	}

	if len(p) < fixedLen {
		return s, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedStat, len(p), fixedLen)
	}
	if p[4] != 0 {
		return s, fmt.Errorf("%w: missing separator after flags", ErrMalformedStat)
	}

	s.Flags = order.Uint32(p[0:4])
	s.Width = order.Uint16(p[5:7])
	s.Height = order.Uint16(p[7:9])
	s.MapCRC = order.Uint32(p[9:13])

	rest := p[fixedLen:]

	path, rest, ok := cutString(rest)
	if !ok {
		return s, fmt.Errorf("%w: unterminated map path", ErrMalformedStat)
	}
	host, rest, ok := cutString(rest)
	if !ok {
		return s, fmt.Errorf("%w: unterminated host name", ErrMalformedStat)
	}
	if len(rest) != 1 || rest[0] != 0 {
		return s, fmt.Errorf("%w: %d trailing bytes after host name", ErrMalformedStat, len(rest))
	}

	s.MapPath = path
	s.HostName = host
	return s, nil
}

func cutString(p []byte) (string, []byte, bool) {
	i := bytes.IndexByte(p, 0)
	if i < 0 {
		return "", nil, false
	}
	return string(p[:i]), p[i+1:], true
}
