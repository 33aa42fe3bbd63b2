package sbp

import "encoding/binary"

// Little-endian field readers. Callers pass buffers already sized to a full
// record, so offset+width is always in range.

func I8(b []byte, off int) int8 { return int8(b[off]) }

func U8(b []byte, off int) uint8 { return b[off] }

func I16(b []byte, off int) int16 { return int16(binary.LittleEndian.Uint16(b[off:])) }

func U16(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off:]) }

func I32(b []byte, off int) int32 { return int32(binary.LittleEndian.Uint32(b[off:])) }

func U32(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
