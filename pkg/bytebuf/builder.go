// Package bytebuf assembles flat byte sequences from integers, text and
// sub-sequences. It is used to build stat string payloads before they are
// encoded for the wire.
package bytebuf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrFieldWidth is returned when an integer field width is outside 1..4.
	ErrFieldWidth = errors.New("bytebuf: field width must be between 1 and 4")
	// ErrNumberCount is returned when a byte list has the wrong number of values.
	ErrNumberCount = errors.New("bytebuf: unexpected number of byte values")
	// ErrNumberRange is returned when a byte list value does not fit in a byte.
	ErrNumberRange = errors.New("bytebuf: byte value out of range")
	// ErrByteOrder is returned for an unknown byte order name.
	ErrByteOrder = errors.New("bytebuf: unknown byte order")
)

// Builder accumulates bytes in order. Integers are written using the
// builder's byte order. The zero value is not usable; call New.
type Builder struct {
	order binary.ByteOrder
	buf   []byte
}

// New creates a builder that serializes integers in the given byte order.
func New(order binary.ByteOrder) *Builder {
	if order == nil {
		order = binary.LittleEndian
	}
	return &Builder{order: order}
}

// NewLE creates a little-endian builder, the order used on the wire.
func NewLE() *Builder {
	return New(binary.LittleEndian)
}

// Order returns the byte order used for integer fields.
func (b *Builder) Order() binary.ByteOrder {
	return b.order
}

// AppendBytes appends a raw byte sequence.
func (b *Builder) AppendBytes(p []byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

// AppendByte appends a single literal byte, typically a separator.
func (b *Builder) AppendByte(c byte) *Builder {
	b.buf = append(b.buf, c)
	return b
}

// AppendUint32 appends v as four bytes.
func (b *Builder) AppendUint32(v uint32) *Builder {
	var word [4]byte
	b.order.PutUint32(word[:], v)
	b.buf = append(b.buf, word[:]...)
	return b
}

// AppendUint16 appends v as two bytes.
func (b *Builder) AppendUint16(v uint16) *Builder {
	var half [2]byte
	b.order.PutUint16(half[:], v)
	b.buf = append(b.buf, half[:]...)
	return b
}

// AppendUint32N appends the n low-order bytes of v. With a big-endian
// builder the bytes keep their big-endian order.
func (b *Builder) AppendUint32N(v uint32, n int) error {
	if n < 1 || n > 4 {
		return fmt.Errorf("%w: %d", ErrFieldWidth, n)
	}

	var word [4]byte
	b.order.PutUint32(word[:], v)

	if b.order == binary.BigEndian {
		b.buf = append(b.buf, word[4-n:]...)
	} else {
		b.buf = append(b.buf, word[:n]...)
	}
	return nil
}

// AppendString appends the raw bytes of s without a terminator.
func (b *Builder) AppendString(s string) *Builder {
	b.buf = append(b.buf, s...)
	return b
}

// AppendCString appends the raw bytes of s followed by a zero terminator.
func (b *Builder) AppendCString(s string) *Builder {
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	return b
}

// Bytes returns the accumulated bytes. The slice aliases the builder's
// buffer until the next append.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset discards accumulated bytes but keeps the byte order.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// ExtractNumbers parses a whitespace separated list of decimal byte values,
// such as "108 250 204 59". The list must contain exactly count values.
func ExtractNumbers(text string, count int) ([]byte, error) {
	fields := strings.Fields(text)
	if len(fields) != count {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrNumberCount, len(fields), count)
	}

	out := make([]byte, 0, count)
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNumberRange, f)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// FormatNumbers renders bytes as a space separated decimal list, the
// inverse of ExtractNumbers.
func FormatNumbers(p []byte) string {
	var sb strings.Builder
	for i, c := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(int(c)))
	}
	return sb.String()
}

// ParseByteOrder maps a configuration name to a byte order.
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "little", "le", "little-endian":
		return binary.LittleEndian, nil
	case "big", "be", "big-endian":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrByteOrder, name)
	}
}
