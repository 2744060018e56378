package statstring

import (
	"errors"
	"fmt"
	"iter"
)

const (
	// ChunkSize is the number of payload bytes sharing one mask byte.
	ChunkSize = 7

	// maskBase is the initial mask of every chunk. Bit 0 is always set so
	// the mask byte is never zero.
	maskBase = 0x01
)

var (
	// ErrTruncatedChunk is returned when an encoded chunk has a mask byte
	// but no payload.
	ErrTruncatedChunk = errors.New("statstring: chunk has no payload")
	// ErrInvalidMask is returned when a mask byte does not have bit 0 set.
	ErrInvalidMask = errors.New("statstring: invalid mask byte")
	// ErrInvalidByte is returned for a payload byte Encode cannot produce.
	// Encoded payload bytes are always odd, and in particular never zero.
	ErrInvalidByte = errors.New("statstring: invalid payload byte")
)

// Chunks yields consecutive runs of at most size bytes from data, paired
// with the chunk index. The final run may be shorter. Ranging over the
// sequence again starts from the beginning. The yielded slices alias data.
func Chunks(data []byte, size int) iter.Seq2[int, []byte] {
	if size < 1 {
		panic("statstring: chunk size must be positive")
	}
	return func(yield func(int, []byte) bool) {
		for i, start := 0, 0; start < len(data); i, start = i+1, start+size {
			end := min(start+size, len(data))
			if !yield(i, data[start:end:end]) {
				return
			}
		}
	}
}

// EncodedLen returns the length of Encode's output for n input bytes.
func EncodedLen(n int) int {
	return n + (n+ChunkSize-1)/ChunkSize
}

// DecodedLen returns the length of Decode's output for an n byte encoded
// sequence, or ErrTruncatedChunk if n cannot be a valid encoded length.
func DecodedLen(n int) (int, error) {
	if n%(ChunkSize+1) == 1 {
		return 0, ErrTruncatedChunk
	}
	return n - (n+ChunkSize)/(ChunkSize+1), nil
}

// Encode converts data into a sequence that contains no zero bytes.
//
// Each chunk of up to seven input bytes becomes a mask byte followed by
// the chunk's bytes. Even bytes are incremented; odd bytes are kept and
// flagged by setting mask bit slot+1.
func Encode(data []byte) []byte {
	out := make([]byte, 0, EncodedLen(len(data)))

	for _, chunk := range Chunks(data, ChunkSize) {
		maskAt := len(out)
		mask := byte(maskBase)
		out = append(out, mask)

		for slot, c := range chunk {
			if c%2 == 0 {
				out = append(out, c+1)
				continue
			}
			out = append(out, c)
			mask |= 1 << (slot + 1)
		}

		out[maskAt] = mask
	}

	return out
}

// Decode reverses Encode. Mask bits past the end of a short final chunk
// are ignored.
func Decode(data []byte) ([]byte, error) {
	size, err := DecodedLen(len(data))
	if err != nil {
		return nil, fmt.Errorf("%w: trailing mask at offset %d", err, len(data)-1)
	}
	out := make([]byte, 0, size)

	for n, chunk := range Chunks(data, ChunkSize+1) {
		offset := n * (ChunkSize + 1)
		mask := chunk[0]
		if mask&maskBase == 0 {
			return nil, fmt.Errorf("%w: 0x%02x at offset %d", ErrInvalidMask, mask, offset)
		}

		for slot, c := range chunk[1:] {
			if c%2 == 0 {
				return nil, fmt.Errorf("%w: 0x%02x at offset %d", ErrInvalidByte, c, offset+1+slot)
			}
			if mask&(1<<(slot+1)) != 0 {
				out = append(out, c)
			} else {
				out = append(out, c-1)
			}
		}
	}

	return out, nil
}
