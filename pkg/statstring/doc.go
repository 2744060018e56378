// Package statstring encodes and decodes game stat strings.
//
// A stat string describes a hosted game's map and settings. It travels in
// a protocol field that ends at the first zero byte, so the binary payload
// is transformed to contain no zeros before it is sent.
//
// # Encoding
//
// The payload is split into chunks of up to seven bytes. Each chunk is
// written as one mask byte followed by the chunk's bytes:
//
//	[mask][b0][b1][b2][b3][b4][b5][b6]
//
// An even byte is written as byte+1. An odd byte is written unchanged and
// bit slot+1 of the mask is set. Bit 0 of the mask is always set. Every
// output byte is therefore odd or a mask with bit 0 set, and never zero.
//
// The encoded length is len(payload) + ceil(len(payload)/7).
//
// # Payload layout
//
// GameStat describes the fields carried in a stat string:
//
//	[flags u32][0x00][width u16][height u16][map crc u32][path][0x00][host][0x00][0x00]
//
// Integers use the byte order passed by the caller; the wire protocol is
// little-endian.
//
// # Usage
//
//	stat := statstring.GameStat{
//	    Flags:    411650,
//	    Width:    172,
//	    Height:   172,
//	    MapCRC:   0x3BCCFA6C,
//	    MapPath:  `Maps\FrozenThrone\(12)EmeraldGardens.w3x`,
//	    HostName: "JiLiZART",
//	}
//	wire := stat.Encode(binary.LittleEndian)
//
//	back, err := statstring.ParseGameStat(wire, binary.LittleEndian)
//	if err != nil {
//	    return err
//	}
package statstring
