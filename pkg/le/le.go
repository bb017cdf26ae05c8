// Package le holds the little-endian fixed-width integer helpers used by
// record field encoders and decoders.
package le

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// ParseU16 decodes a little-endian uint16. It panics unless len(b) == 2.
func ParseU16(b []byte) uint16 {
	mustLen(b, 2)
	return binary.LittleEndian.Uint16(b)
}

// ParseU32 decodes a little-endian uint32. It panics unless len(b) == 4.
func ParseU32(b []byte) uint32 {
	mustLen(b, 4)
	return binary.LittleEndian.Uint32(b)
}

// ParseU64 decodes a little-endian uint64. It panics unless len(b) == 8.
//
// Callers are expected to have validated the overall record length before
// slicing out a field, so a wrong width here means an upstream bug.
func ParseU64(b []byte) uint64 {
	mustLen(b, 8)
	return binary.LittleEndian.Uint64(b)
}

// AppendU16 appends the little-endian encoding of v to dst.
func AppendU16(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

// AppendU32 appends the little-endian encoding of v to dst.
func AppendU32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

// AppendU64 appends the little-endian encoding of v to dst.
func AppendU64(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}

func mustLen(b []byte, width int) {
	if len(b) != width {
		panic(errors.AssertionFailedf("le: slice must be %d bytes, got %d", width, len(b)))
	}
}
