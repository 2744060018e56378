//go:build fuzz
// +build fuzz

package statstring

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// FuzzEncode_RoundTrip checks round trip, zero avoidance and the length law
func FuzzEncode_RoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte{0x00})
	f.Add([]byte{0xFF, 0xFE, 0x00, 0x01})
	f.Add(bytes.Repeat([]byte{0x00}, 15))
	f.Add([]byte(`Maps\FrozenThrone\(12)EmeraldGardens.w3x`))

	f.Fuzz(func(t *testing.T, data []byte) {
		encoded := Encode(data)

		if len(encoded) != EncodedLen(len(data)) {
			t.Fatalf("length %d, want %d", len(encoded), EncodedLen(len(data)))
		}
		if i := bytes.IndexByte(encoded, 0); i >= 0 {
			t.Fatalf("zero byte at offset %d", i)
		}

		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !bytes.Equal(decoded, data) {
			t.Errorf("round trip mismatch: got %x, want %x", decoded, data)
		}
	})
}

// FuzzDecode_Arbitrary feeds arbitrary bytes to Decode, which must either
// fail cleanly or produce output that re-encodes to a valid stat string.
func FuzzDecode_Arbitrary(f *testing.F) {
	f.Add([]byte{0x01})
	f.Add([]byte{0x01, 0x03})
	f.Add([]byte{0x02, 0x00, 0x00})
	f.Add(Encode([]byte("seed")))

	f.Fuzz(func(t *testing.T, data []byte) {
		decoded, err := Decode(data)
		if err != nil {
			return
		}
		if _, err := Decode(Encode(decoded)); err != nil {
			t.Fatalf("re-encoded output does not decode: %v", err)
		}
		// Parsing may fail, but must not panic.
		_, _ = ParsePayload(decoded, binary.LittleEndian)
	})
}
