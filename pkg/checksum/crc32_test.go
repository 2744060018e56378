package checksum

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Vectors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  uint32
	}{
		{"empty", nil, 0x00000000},
		{"empty slice", []byte{}, 0x00000000},
		{"check string", []byte("123456789"), 0xCBF43926},
		{"quick brown fox", []byte("The quick brown fox jumps over the lazy dog"), 0x414FA339},
		{"map path", []byte(`Maps\FrozenThrone\(12)EmeraldGardens.w3x`), 0x64B3792D},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.input))
		})
	}
}

func TestCompute_MatchesStandardLibrary(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{1, 3, 64, 255, 1024, 65537} {
		data := make([]byte, n)
		rng.Read(data)
		assert.Equal(t, crc32.ChecksumIEEE(data), Compute(data), "length %d", n)
	}
}

func TestMakeTable_FreshMatchesCached(t *testing.T) {
	fresh := MakeTable()
	cached := IEEETable()

	require.Equal(t, *fresh, *cached)
	assert.Same(t, cached, IEEETable(), "shared table must be built once")

	data := []byte("Maps\\FrozenThrone\\(12)EmeraldGardens.w3x")
	assert.Equal(t, Checksum(data, fresh), Checksum(data, cached))
	assert.Equal(t, Checksum(data, fresh), Compute(data))
}

func TestIEEETable_ConcurrentReaders(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB, 0x00, 0x13}, 500)
	want := crc32.ChecksumIEEE(data)

	var wg sync.WaitGroup
	results := make([]uint32, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Compute(data)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestUpdate_Incremental(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog")
	for split := 0; split <= len(data); split += 5 {
		crc := Update(Compute(data[:split]), data[split:])
		assert.Equal(t, Compute(data), crc, "split at %d", split)
	}
	assert.Equal(t, Compute(data), Update(0, data))
}

func TestNew_Streaming(t *testing.T) {
	data := bytes.Repeat([]byte("w3stat"), 1000)

	h := New()
	_, err := io.Copy(h, bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, Compute(data), h.Sum32())
	assert.Equal(t, Size, h.Size())

	sum := h.Sum(nil)
	assert.Equal(t, Compute(data), binary.BigEndian.Uint32(sum))

	h.Reset()
	assert.Zero(t, h.Sum32())
}

func TestBytes(t *testing.T) {
	assert.Equal(t, []byte{108, 250, 204, 59}, Bytes(0x3BCCFA6C, binary.LittleEndian))
	assert.Equal(t, []byte{0x3B, 0xCC, 0xFA, 0x6C}, Bytes(0x3BCCFA6C, binary.BigEndian))
}
