package digest

import (
	"bytes"
	"crypto/sha1"
	"hash"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ hash.Hash = (*Hasher)(nil)

func TestSum_Vectors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{"abc", "abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"448 bit message", "abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq", "84983e441c3bd26ebaae4aa1f95129e5e54670f1"},
		{"one million a", strings.Repeat("a", 1000000), "34aa973cd4c4daa4f61eeb2bdbad27316534016f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sum([]byte(tt.input)).String())

			h := New()
			h.Update([]byte(tt.input))
			assert.Equal(t, tt.want, h.Finalize().String())
		})
	}
}

func TestHasher_PaddingBoundaries(t *testing.T) {
	// Lengths around the 56 byte padding threshold and block edges.
	for _, n := range []int{0, 1, 55, 56, 57, 63, 64, 65, 119, 120, 127, 128, 129} {
		data := bytes.Repeat([]byte{0x5A}, n)
		want := sha1.Sum(data)
		assert.Equal(t, Digest(want), Sum(data), "length %d", n)
	}
}

func TestHasher_IncrementalMatchesOneShot(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	data := make([]byte, 4096+37)
	rng.Read(data)
	want := Digest(sha1.Sum(data))

	for _, chunk := range []int{1, 7, 63, 64, 65, 1000} {
		h := New()
		for off := 0; off < len(data); off += chunk {
			end := off + chunk
			if end > len(data) {
				end = len(data)
			}
			h.Update(data[off:end])
		}
		assert.Equal(t, want, h.Finalize(), "chunk size %d", chunk)
		assert.Equal(t, uint64(len(data)), h.Len())
	}
}

func TestHasher_FinalizeDoesNotConsume(t *testing.T) {
	h := New()
	h.Update([]byte("ab"))

	first := h.Finalize()
	again := h.Finalize()
	assert.Equal(t, first, again, "finalizing twice must give the same digest")

	// Continuing after a finalize yields the digest of the longer input.
	h.Update([]byte("c"))
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", h.Finalize().String())
	assert.NotEqual(t, first, h.Finalize())
}

func TestHasher_Reset(t *testing.T) {
	h := New()
	h.Update([]byte("some earlier map data"))
	h.Reset()

	assert.Zero(t, h.Len())
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", h.Finalize().String())
}

func TestHasher_HashInterface(t *testing.T) {
	data := bytes.Repeat([]byte("EmeraldGardens"), 300)

	h := New()
	_, err := io.Copy(h, bytes.NewReader(data))
	require.NoError(t, err)

	want := sha1.Sum(data)
	assert.Equal(t, want[:], h.Sum(nil))
	assert.Equal(t, append([]byte("prefix"), want[:]...), h.Sum([]byte("prefix")))
	assert.Equal(t, Size, h.Size())
	assert.Equal(t, BlockSize, h.BlockSize())
}

func TestParseDigest(t *testing.T) {
	d, err := ParseDigest("a9993e364706816aba3e25717850c26c9cd0d89d")
	require.NoError(t, err)
	assert.Equal(t, Sum([]byte("abc")), d)
	assert.False(t, d.IsZero())

	_, err = ParseDigest("a9993e")
	assert.ErrorIs(t, err, ErrDigestLength)

	_, err = ParseDigest("zz")
	assert.Error(t, err)

	_, err = FromBytes(make([]byte, 19))
	assert.ErrorIs(t, err, ErrDigestLength)

	text, err := d.MarshalText()
	require.NoError(t, err)
	var back Digest
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, d, back)
	assert.Error(t, back.UnmarshalText([]byte("abc")))

	fb, err := FromBytes(d.Bytes())
	require.NoError(t, err)
	assert.Equal(t, d, fb)
	assert.True(t, Digest{}.IsZero())
}
