package statstring

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/w3stat/pkg/bytebuf"
)

// emeraldGardens is the stat string a host named JiLiZART advertises for
// the stock Emerald Gardens map.
var emeraldGardens = GameStat{
	Flags:    411650,
	Width:    172,
	Height:   172,
	MapCRC:   0x3BCCFA6C,
	MapPath:  `Maps\FrozenThrone\(12)EmeraldGardens.w3x`,
	HostName: "JiLiZART",
}

const emeraldGardensWire = "010349070101ad01c1ad016dfbcd3b4d8b6171735d47736f857b656f5569736f" +
	"a56f655d293133292f456d6573616d65a747617365656f738d2f773379014b69" +
	"154d695b415355010101"

func TestGameStat_GoldenFixture(t *testing.T) {
	// Assemble the payload field by field from the same inputs the hosting
	// client uses, independently of GameStat.Payload.
	width, err := bytebuf.ExtractNumbers("172 0", 2)
	require.NoError(t, err)
	height, err := bytebuf.ExtractNumbers("172 0", 2)
	require.NoError(t, err)
	crc, err := bytebuf.ExtractNumbers("108 250 204 59", 4)
	require.NoError(t, err)

	b := bytebuf.NewLE()
	b.AppendUint32(411650).
		AppendByte(0).
		AppendBytes(width).
		AppendBytes(height).
		AppendBytes(crc).
		AppendCString(`Maps\FrozenThrone\(12)EmeraldGardens.w3x`).
		AppendCString("JiLiZART").
		AppendByte(0)

	payload := b.Bytes()
	require.Len(t, payload, 64)
	assert.Equal(t, payload, emeraldGardens.Payload(binary.LittleEndian))

	wire := Encode(payload)
	assert.Len(t, wire, 74)
	assert.Equal(t, emeraldGardensWire, hex.EncodeToString(wire))
	assert.Equal(t, wire, emeraldGardens.Encode(binary.LittleEndian))
}

func TestParseGameStat(t *testing.T) {
	wire, err := hex.DecodeString(emeraldGardensWire)
	require.NoError(t, err)

	got, err := ParseGameStat(wire, binary.LittleEndian)
	require.NoError(t, err)
	if diff := cmp.Diff(emeraldGardens, got); diff != "" {
		t.Errorf("ParseGameStat mismatch (-want +got):\n%s", diff)
	}
}

func TestGameStat_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		stat  GameStat
		order binary.ByteOrder
	}{
		{"emerald gardens little endian", emeraldGardens, binary.LittleEndian},
		{"emerald gardens big endian", emeraldGardens, binary.BigEndian},
		{"empty strings", GameStat{Flags: 0xFFFFFFFF}, binary.LittleEndian},
		{"long path", GameStat{
			Flags:    0x00064802,
			Width:    0x0100,
			Height:   0x00FF,
			MapCRC:   0x00000000,
			MapPath:  `Maps\Download\` + strings.Repeat("x", 200) + ".w3x",
			HostName: "host",
		}, binary.LittleEndian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := tt.stat.Encode(tt.order)
			assert.NotContains(t, wire, byte(0))

			got, err := ParseGameStat(wire, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.stat, got)
		})
	}
}

func TestParsePayload_Malformed(t *testing.T) {
	good := emeraldGardens.Payload(binary.LittleEndian)

	tests := []struct {
		name    string
		payload []byte
	}{
		{"too short", good[:10]},
		{"missing separator", append([]byte{1, 2, 3, 4, 5}, good[5:]...)},
		{"unterminated path", good[:fixedLen+5]},
		{"unterminated host", good[:len(good)-3]},
		{"missing trailing zero", good[:len(good)-1]},
		{"extra trailing bytes", append(append([]byte{}, good...), 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload(tt.payload, binary.LittleEndian)
			assert.ErrorIs(t, err, ErrMalformedStat)
		})
	}
}

func TestParseGameStat_DecodeFault(t *testing.T) {
	_, err := ParseGameStat([]byte{0x01}, binary.LittleEndian)
	assert.ErrorIs(t, err, ErrTruncatedChunk)
}
