package statstring

import (
	"bytes"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

func TestChunks(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{0, nil},
		{1, []int{1}},
		{6, []int{6}},
		{7, []int{7}},
		{8, []int{7, 1}},
		{14, []int{7, 7}},
		{15, []int{7, 7, 1}},
	}

	for _, tt := range tests {
		data := sequence(tt.n)
		seq := Chunks(data, ChunkSize)

		var lengths []int
		joined := []byte{}
		next := 0
		for i, chunk := range seq {
			assert.Equal(t, next, i, "chunk index for n=%d", tt.n)
			next++
			lengths = append(lengths, len(chunk))
			joined = append(joined, chunk...)
		}
		assert.Equal(t, tt.want, lengths, "n=%d", tt.n)
		assert.Equal(t, data, joined, "n=%d", tt.n)

		// A second pass must produce the same chunks.
		var again []int
		for _, chunk := range seq {
			again = append(again, len(chunk))
		}
		assert.Equal(t, lengths, again, "restart n=%d", tt.n)
	}
}

func TestChunks_EarlyStop(t *testing.T) {
	count := 0
	for range Chunks(sequence(100), ChunkSize) {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestChunks_InvalidSize(t *testing.T) {
	assert.Panics(t, func() { Chunks(nil, 0) })
}

func TestEncode_ChunkBoundaries(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "0101"},
		{6, "55010103030505"},
		{7, "5501010303050507"},
		{8, "55010103030505070307"},
		{14, "5501010303050507ab0709090b0b0d0d"},
		{15, "5501010303050507ab0709090b0b0d0d010f"},
	}

	for _, tt := range tests {
		data := sequence(tt.n)
		encoded := Encode(data)

		assert.Equal(t, tt.want, hex.EncodeToString(encoded), "n=%d", tt.n)
		assert.Len(t, encoded, EncodedLen(tt.n), "n=%d", tt.n)

		decoded, err := Decode(encoded)
		require.NoError(t, err, "n=%d", tt.n)
		assert.Equal(t, len(data), len(decoded), "n=%d", tt.n)
		assert.True(t, bytes.Equal(data, decoded), "n=%d", tt.n)
	}
}

func TestEncode_SpecialBytes(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"all zero", bytes.Repeat([]byte{0x00}, 8), "01010101010101010101"},
		{"all 0xff", bytes.Repeat([]byte{0xFF}, 8), "ffffffffffffffff03ff"},
		{"0xfe becomes 0xff", []byte{0xFE}, "01ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.input)
			assert.Equal(t, tt.want, hex.EncodeToString(encoded))

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded)
		})
	}
}

func TestEncode_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for n := 0; n < 300; n++ {
		data := make([]byte, n)
		rng.Read(data)
		// Sprinkle in zero bytes so embedded terminators are exercised.
		for i := 0; i < n; i += 5 {
			data[i] = 0
		}

		encoded := Encode(data)

		assert.Equal(t, n+(n+6)/7, len(encoded), "length law n=%d", n)
		assert.NotContains(t, encoded, byte(0), "zero byte in output n=%d", n)

		decoded, err := Decode(encoded)
		require.NoError(t, err, "n=%d", n)
		if n == 0 {
			assert.Empty(t, decoded)
			continue
		}
		assert.Equal(t, data, decoded, "round trip n=%d", n)
	}
}

func TestDecode_Faults(t *testing.T) {
	valid := Encode(sequence(7))

	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{"lone mask", []byte{0x01}, ErrTruncatedChunk},
		{"trailing mask after full chunk", append(append([]byte{}, valid...), 0x01), ErrTruncatedChunk},
		{"mask without bit zero", []byte{0x02, 0x01}, ErrInvalidMask},
		{"zero mask", []byte{0x00, 0x01}, ErrInvalidMask},
		{"zero payload byte", []byte{0x01, 0x00}, ErrInvalidByte},
		{"even payload byte", []byte{0x01, 0x03, 0x02}, ErrInvalidByte},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decode(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, out)
		})
	}
}

func TestDecode_IgnoresUnusedMaskBits(t *testing.T) {
	// Final chunk holds one byte; bits 2..7 are don't-care.
	got, err := Decode([]byte{0xFD, 0x05})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04}, got)
}

func TestEncodedLenDecodedLen(t *testing.T) {
	for n := 0; n < 64; n++ {
		m := EncodedLen(n)
		back, err := DecodedLen(m)
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, n, back, "n=%d", n)
	}

	_, err := DecodedLen(9)
	assert.ErrorIs(t, err, ErrTruncatedChunk)
}
