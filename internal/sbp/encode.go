package sbp

import "encoding/binary"

// RawPoint is the undecoded field set of a point record, in storage units.
type RawPoint struct {
	Date      uint32
	Latitude  int32 // 1e-7 degrees
	Longitude int32 // 1e-7 degrees
	Altitude  int32 // centimeters
	Flags     uint8
}

// Encode lays p out as a 32-byte point record. Bytes not covered by RawPoint
// are zero.
func (p RawPoint) Encode() []byte {
	b := make([]byte, PointSize)
	binary.LittleEndian.PutUint32(b[offDate:], p.Date)
	binary.LittleEndian.PutUint32(b[offLatitude:], uint32(p.Latitude))
	binary.LittleEndian.PutUint32(b[offLongitude:], uint32(p.Longitude))
	binary.LittleEndian.PutUint32(b[offAltitude:], uint32(p.Altitude))
	b[offFlags] = p.Flags
	return b
}

// EncodeFile builds a complete SBP file: a zero header followed by points.
func EncodeFile(points ...RawPoint) []byte {
	out := make([]byte, HeaderSize, HeaderSize+len(points)*PointSize)
	for _, p := range points {
		out = append(out, p.Encode()...)
	}
	return out
}
