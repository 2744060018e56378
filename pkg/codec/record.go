package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ssargent/w3stat/pkg/checksum"
	"github.com/ssargent/w3stat/pkg/digest"
)

// HeaderSize is the fixed part of an encoded record:
// CRC32(4) + Size(8) + ModTime(8) + MapCRC(4) + SHA1(20) + PathLen(4).
const HeaderSize = 48

var (
	// ErrShortRecord is returned when data ends before the declared fields.
	ErrShortRecord = errors.New("codec: record too short")
	// ErrTrailingData is returned when data continues past the declared path.
	ErrTrailingData = errors.New("codec: trailing data after record")
	// ErrChecksum is returned by Validate when the stored CRC does not match.
	ErrChecksum = errors.New("codec: checksum mismatch")
)

// Record is a cached map fingerprint with the file metadata it was
// computed from.
type Record struct {
	CRC32   uint32        // CRC32 checksum of every field after this one
	Size    uint64        // Map file size in bytes
	ModTime int64         // Map file modification time, Unix nanoseconds
	MapCRC  uint32        // CRC-32 of the map file contents
	SHA1    digest.Digest // SHA-1 of the map file contents
	PathLen uint32        // Length of Path in bytes
	Path    []byte        // Map file path
}

// RecordCodec handles serialization and deserialization of records
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// NewRecord creates a record for the map file at path.
func NewRecord(path string, size int64, modTime time.Time, mapCRC uint32, sha digest.Digest) *Record {
	if uint64(len(path)) > math.MaxUint32 {
		panic("path too large")
	}
	if size < 0 {
		size = 0
	}
	return &Record{
		Size:    uint64(size),
		ModTime: modTime.UnixNano(),
		MapCRC:  mapCRC,
		SHA1:    sha,
		PathLen: uint32(len(path)),
		Path:    []byte(path),
	}
}

// Encode serializes r and stores the computed checksum in r.CRC32.
// Format: [CRC32(4)][Size(8)][ModTime(8)][MapCRC(4)][SHA1(20)][PathLen(4)][Path]
func (c *RecordCodec) Encode(r *Record) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot encode nil record")
	}
	if int(r.PathLen) != len(r.Path) {
		return nil, fmt.Errorf("path length mismatch: declared %d, have %d", r.PathLen, len(r.Path))
	}

	buf := make([]byte, r.EncodedSize())
	r.putHeader(buf)
	copy(buf[HeaderSize:], r.Path)
	r.CRC32 = checksum.Compute(buf[4:])
	binary.LittleEndian.PutUint32(buf[0:], r.CRC32)

	return buf, nil
}

// Decode deserializes a binary record. The returned record does not alias
// data.
func (c *RecordCodec) Decode(data []byte) (*Record, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrShortRecord, len(data), HeaderSize)
	}

	r := &Record{}
	r.CRC32 = binary.LittleEndian.Uint32(data[0:4])
	r.Size = binary.LittleEndian.Uint64(data[4:12])
	r.ModTime = int64(binary.LittleEndian.Uint64(data[12:20]))
	r.MapCRC = binary.LittleEndian.Uint32(data[20:24])
	copy(r.SHA1[:], data[24:44])
	r.PathLen = binary.LittleEndian.Uint32(data[44:48])

	total := uint64(HeaderSize) + uint64(r.PathLen)
	if uint64(len(data)) < total {
		return nil, fmt.Errorf("%w: %d bytes, path needs %d", ErrShortRecord, len(data), total)
	}
	if uint64(len(data)) > total {
		return nil, fmt.Errorf("%w: %d extra bytes", ErrTrailingData, uint64(len(data))-total)
	}

	r.Path = append([]byte(nil), data[HeaderSize:total]...)
	return r, nil
}

// Validate checks the integrity of a record using CRC32
func (r *Record) Validate() error {
	if got := r.calculateCRC32(); r.CRC32 != got {
		return fmt.Errorf("%w: stored %08x, computed %08x", ErrChecksum, r.CRC32, got)
	}
	return nil
}

// EncodedSize returns the total size of the record when encoded
func (r *Record) EncodedSize() int {
	return HeaderSize + len(r.Path)
}

// ModifiedAt returns ModTime as a time.Time.
func (r *Record) ModifiedAt() time.Time {
	return time.Unix(0, r.ModTime)
}

// Matches reports whether the record describes a file with the given size
// and modification time.
func (r *Record) Matches(size int64, modTime time.Time) bool {
	return size >= 0 && r.Size == uint64(size) && r.ModTime == modTime.UnixNano()
}

// putHeader writes every header field except CRC32.
func (r *Record) putHeader(buf []byte) {
	binary.LittleEndian.PutUint64(buf[4:], r.Size)
	binary.LittleEndian.PutUint64(buf[12:], uint64(r.ModTime))
	binary.LittleEndian.PutUint32(buf[20:], r.MapCRC)
	copy(buf[24:44], r.SHA1[:])
	binary.LittleEndian.PutUint32(buf[44:], r.PathLen)
}

// calculateCRC32 computes the checksum over every field except CRC32.
func (r *Record) calculateCRC32() uint32 {
	var header [HeaderSize]byte
	r.putHeader(header[:])

	crc := checksum.Compute(header[4:])
	return checksum.Update(crc, r.Path)
}
