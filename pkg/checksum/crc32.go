// Package checksum implements the CRC-32 checksum used to fingerprint map
// files. The result is the standard reflected CRC-32 (IEEE 802.3).
package checksum

import (
	"encoding/binary"
	"hash"
	"sync"
)

// Polynomial is the reflected form of the IEEE CRC-32 polynomial 0x04C11DB7.
const Polynomial = 0xEDB88320

// Size of a CRC-32 checksum in bytes.
const Size = 4

// Table maps each byte value to its polynomial reduction constant.
type Table [256]uint32

var ieeeTable = sync.OnceValue(MakeTable)

// MakeTable builds a fresh lookup table. Most callers want the shared
// table returned by IEEETable.
func MakeTable() *Table {
	t := new(Table)
	for i := range t {
		crc := uint32(i)
		for j := 0; j < 8; j++ {
			if crc&1 == 1 {
				crc = (crc >> 1) ^ Polynomial
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return t
}

// IEEETable returns the process-wide table, building it on first use.
// The table must not be modified.
func IEEETable() *Table {
	return ieeeTable()
}

// Compute returns the CRC-32 checksum of data.
func Compute(data []byte) uint32 {
	return Checksum(data, IEEETable())
}

// Checksum returns the CRC-32 checksum of data using table t.
func Checksum(data []byte, t *Table) uint32 {
	return ^update(0xFFFFFFFF, t, data)
}

// Update returns the checksum of the concatenation of the input that
// produced crc and data, so Update(Compute(a), b) == Compute(a+b).
func Update(crc uint32, data []byte) uint32 {
	return ^update(^crc, IEEETable(), data)
}

func update(crc uint32, t *Table, data []byte) uint32 {
	for _, v := range data {
		crc = t[byte(crc)^v] ^ (crc >> 8)
	}
	return crc
}

// Bytes returns the checksum serialized in the given byte order.
func Bytes(crc uint32, order binary.ByteOrder) []byte {
	out := make([]byte, Size)
	order.PutUint32(out, crc)
	return out
}

// digest is the streaming form of Compute.
type digest struct {
	crc uint32
}

// New returns a hash.Hash32 computing the CRC-32 checksum.
func New() hash.Hash32 {
	return &digest{}
}

func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return 1 }
func (d *digest) Reset()         { d.crc = 0 }
func (d *digest) Sum32() uint32  { return d.crc }

func (d *digest) Write(p []byte) (int, error) {
	d.crc = Update(d.crc, p)
	return len(p), nil
}

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}
