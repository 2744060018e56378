// Package codec provides record serialization for the w3stat fingerprint
// cache.
//
// A record stores the fingerprint of one map file together with the size
// and modification time it was computed from, so a later lookup can tell
// whether the file changed since.
//
// # Record Format
//
// Records are serialized in a binary format with the following structure:
//
//	[CRC32(4)][Size(8)][ModTime(8)][MapCRC(4)][SHA1(20)][PathLen(4)][Path]
//
// Fields:
//   - CRC32: checksum of every following byte (little-endian)
//   - Size: map file size in bytes (little-endian)
//   - ModTime: modification time in Unix nanoseconds (little-endian)
//   - MapCRC: CRC-32 of the map contents (little-endian)
//   - SHA1: SHA-1 digest of the map contents
//   - PathLen: length of the path in bytes (little-endian)
//   - Path: the map file path
//
// The total record size is 48 bytes of header plus len(Path). Decode
// rejects both short and overlong input.
//
// # CRC32 Calculation
//
// The CRC32 field is the checksum of the encoded record with the first four
// bytes removed, computed with package checksum. Any corruption of the
// header or the path is detected by Validate.
//
// # Usage
//
//	c := codec.NewRecordCodec()
//
//	encoded, err := c.Encode(codec.NewRecord(path, size, modTime, crc, sha))
//	if err != nil {
//	    return err
//	}
//
//	record, err := c.Decode(encoded)
//	if err != nil {
//	    return err
//	}
//	if err := record.Validate(); err != nil {
//	    return err // Record is corrupted
//	}
//
// # Thread Safety
//
// RecordCodec has no state and is safe for concurrent use. Encode writes
// the checksum into the record it is given, so a Record must not be
// encoded from two goroutines at once.
package codec
