// Package digest implements the SHA-1 digest used to fingerprint map files.
//
// A Hasher accumulates input; Finalize returns a Digest value and leaves the
// Hasher untouched, so there is no finalized-but-still-writable state. A
// Hasher must not be shared between concurrent digests.
package digest

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"
)

// Size of a SHA-1 digest in bytes.
const Size = 20

// BlockSize is the SHA-1 block size in bytes.
const BlockSize = 64

const (
	init0 = 0x67452301
	init1 = 0xEFCDAB89
	init2 = 0x98BADCFE
	init3 = 0x10325476
	init4 = 0xC3D2E1F0
)

const (
	k0 = 0x5A827999
	k1 = 0x6ED9EBA1
	k2 = 0x8F1BBCDC
	k3 = 0xCA62C1D6
)

// ErrDigestLength is returned by ParseDigest for input that is not 20 bytes.
var ErrDigestLength = errors.New("digest: wrong length")

// Digest is a finalized SHA-1 value.
type Digest [Size]byte

// String returns the lowercase hex form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Bytes returns a copy of the digest as a slice.
func (d Digest) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, d[:])
	return out
}

// MarshalText encodes the digest as hex.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a hex digest.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsZero reports whether d is the zero value, which no real input produces.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// ParseDigest parses a 40 character hex string.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(raw) != Size {
		return d, fmt.Errorf("%w: %d bytes, want %d", ErrDigestLength, len(raw), Size)
	}
	copy(d[:], raw)
	return d, nil
}

// FromBytes converts a 20 byte slice to a Digest.
func FromBytes(p []byte) (Digest, error) {
	var d Digest
	if len(p) != Size {
		return d, fmt.Errorf("%w: %d bytes, want %d", ErrDigestLength, len(p), Size)
	}
	copy(d[:], p)
	return d, nil
}

// Hasher is an in-progress SHA-1 computation.
type Hasher struct {
	h   [5]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

// New returns a Hasher ready for input.
func New() *Hasher {
	h := new(Hasher)
	h.Reset()
	return h
}

// Reset restores the initial register values and drops buffered input.
func (h *Hasher) Reset() {
	h.h = [5]uint32{init0, init1, init2, init3, init4}
	h.nx = 0
	h.len = 0
}

// Size returns the digest length.
func (h *Hasher) Size() int { return Size }

// BlockSize returns the compression block length.
func (h *Hasher) BlockSize() int { return BlockSize }

// Len returns the number of bytes written so far.
func (h *Hasher) Len() uint64 { return h.len }

// Update feeds p into the digest. Every complete 64 byte block is
// compressed immediately; the remainder stays buffered.
func (h *Hasher) Update(p []byte) {
	h.len += uint64(len(p))

	if h.nx > 0 {
		n := copy(h.x[h.nx:], p)
		h.nx += n
		p = p[n:]
		if h.nx < BlockSize {
			return
		}
		h.block(h.x[:])
		h.nx = 0
	}

	for len(p) >= BlockSize {
		h.block(p[:BlockSize])
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		h.nx = copy(h.x[:], p)
	}
}

// Write implements io.Writer. It never fails.
func (h *Hasher) Write(p []byte) (int, error) {
	h.Update(p)
	return len(p), nil
}

// Finalize pads a copy of the current state and returns the digest of
// everything written so far. h can keep accepting input afterwards.
func (h *Hasher) Finalize() Digest {
	d := *h
	return d.checkSum()
}

// Sum appends the current digest to b, as hash.Hash requires.
func (h *Hasher) Sum(b []byte) []byte {
	d := h.Finalize()
	return append(b, d[:]...)
}

// Sum computes the digest of data in one call.
func Sum(data []byte) Digest {
	var h Hasher
	h.Reset()
	h.Update(data)
	return h.checkSum()
}

func (h *Hasher) checkSum() Digest {
	bitLen := h.len << 3

	var pad [BlockSize + 8]byte
	pad[0] = 0x80
	// Pad to 56 mod 64, leaving room for the 8 byte length.
	n := 56 - int(h.len%BlockSize)
	if n <= 0 {
		n += BlockSize
	}
	binary.BigEndian.PutUint64(pad[n:], bitLen)
	h.Update(pad[:n+8])

	if h.nx != 0 {
		panic("digest: buffered bytes after padding")
	}

	var d Digest
	for i, v := range h.h {
		binary.BigEndian.PutUint32(d[i*4:], v)
	}
	return d
}

func (h *Hasher) block(p []byte) {
	var w [80]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(p[i*4:])
	}
	for i := 16; i < 80; i++ {
		w[i] = bits.RotateLeft32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
	}

	a, b, c, d, e := h.h[0], h.h[1], h.h[2], h.h[3], h.h[4]

	for i := 0; i < 80; i++ {
		var f, k uint32
		switch {
		case i < 20:
			f = (b & c) | (^b & d)
			k = k0
		case i < 40:
			f = b ^ c ^ d
			k = k1
		case i < 60:
			f = (b & c) | (b & d) | (c & d)
			k = k2
		default:
			f = b ^ c ^ d
			k = k3
		}
		t := bits.RotateLeft32(a, 5) + f + e + w[i] + k
		a, b, c, d, e = t, a, bits.RotateLeft32(b, 30), c, d
	}

	h.h[0] += a
	h.h[1] += b
	h.h[2] += c
	h.h[3] += d
	h.h[4] += e
}
