package bytebuf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_AppendUint32(t *testing.T) {
	t.Run("little endian", func(t *testing.T) {
		b := NewLE()
		b.AppendUint32(411650)
		assert.Equal(t, []byte{0x02, 0x48, 0x06, 0x00}, b.Bytes())
	})

	t.Run("big endian", func(t *testing.T) {
		b := New(binary.BigEndian)
		b.AppendUint32(411650)
		assert.Equal(t, []byte{0x00, 0x06, 0x48, 0x02}, b.Bytes())
	})

	t.Run("nil order defaults to little endian", func(t *testing.T) {
		b := New(nil)
		assert.Equal(t, binary.LittleEndian, b.Order())
	})
}

func TestBuilder_AppendUint32N(t *testing.T) {
	tests := []struct {
		name  string
		order binary.ByteOrder
		value uint32
		width int
		want  []byte
	}{
		{"le two bytes", binary.LittleEndian, 172, 2, []byte{172, 0}},
		{"le one byte", binary.LittleEndian, 0x1234, 1, []byte{0x34}},
		{"le full width", binary.LittleEndian, 0x01020304, 4, []byte{4, 3, 2, 1}},
		{"be two bytes", binary.BigEndian, 172, 2, []byte{0, 172}},
		{"be three bytes", binary.BigEndian, 0x01020304, 3, []byte{2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.order)
			require.NoError(t, b.AppendUint32N(tt.value, tt.width))
			assert.Equal(t, tt.want, b.Bytes())
		})
	}

	t.Run("invalid widths", func(t *testing.T) {
		b := NewLE()
		assert.ErrorIs(t, b.AppendUint32N(1, 0), ErrFieldWidth)
		assert.ErrorIs(t, b.AppendUint32N(1, 5), ErrFieldWidth)
		assert.Zero(t, b.Len())
	})
}

func TestBuilder_Strings(t *testing.T) {
	b := NewLE()
	b.AppendString("ab").AppendCString("cd").AppendByte(0).AppendBytes([]byte{0xFF})

	assert.Equal(t, []byte{'a', 'b', 'c', 'd', 0, 0, 0xFF}, b.Bytes())
	assert.Equal(t, 7, b.Len())

	b.Reset()
	assert.Zero(t, b.Len())
	b.AppendUint16(0x0102)
	assert.Equal(t, []byte{0x02, 0x01}, b.Bytes())
}

func TestExtractNumbers(t *testing.T) {
	t.Run("map crc", func(t *testing.T) {
		got, err := ExtractNumbers("108 250 204 59", 4)
		require.NoError(t, err)
		assert.Equal(t, []byte{108, 250, 204, 59}, got)
	})

	t.Run("extra whitespace", func(t *testing.T) {
		got, err := ExtractNumbers("  172   0 ", 2)
		require.NoError(t, err)
		assert.Equal(t, []byte{172, 0}, got)
	})

	t.Run("wrong count", func(t *testing.T) {
		_, err := ExtractNumbers("172 0 1", 2)
		assert.ErrorIs(t, err, ErrNumberCount)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := ExtractNumbers("256 0", 2)
		assert.ErrorIs(t, err, ErrNumberRange)
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := ExtractNumbers("ab 0", 2)
		assert.ErrorIs(t, err, ErrNumberRange)
	})
}

func TestFormatNumbers(t *testing.T) {
	assert.Equal(t, "108 250 204 59", FormatNumbers([]byte{108, 250, 204, 59}))
	assert.Equal(t, "", FormatNumbers(nil))
}

func TestParseByteOrder(t *testing.T) {
	for _, name := range []string{"", "little", "LE", "little-endian"} {
		order, err := ParseByteOrder(name)
		require.NoError(t, err, name)
		assert.Equal(t, binary.LittleEndian, order, name)
	}

	for _, name := range []string{"big", "be", "Big-Endian"} {
		order, err := ParseByteOrder(name)
		require.NoError(t, err, name)
		assert.Equal(t, binary.BigEndian, order, name)
	}

	_, err := ParseByteOrder("middle")
	assert.ErrorIs(t, err, ErrByteOrder)
}
