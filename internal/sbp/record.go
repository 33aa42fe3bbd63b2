package sbp

import (
	"strconv"
	"strings"
	"time"
)

const (
	HeaderSize = 64
	PointSize  = 32
)

// Point record field offsets.
const (
	offDate      = 4
	offLatitude  = 12
	offLongitude = 16
	offAltitude  = 20
	offFlags     = 30
)

const flagTrackStart = 0x01

// TimeLayout is the ISO-8601 form used for feature and point times.
const TimeLayout = "2006-01-02T15:04:05.000Z"

type Kind uint8

const (
	HeaderRecord Kind = iota + 1
	PointRecord
)

func (k Kind) String() string {
	switch k {
	case HeaderRecord:
		return "header"
	case PointRecord:
		return "point"
	default:
		return "unknown"
	}
}

// Size is the fixed byte length of a record of this kind.
func (k Kind) Size() int {
	switch k {
	case HeaderRecord:
		return HeaderSize
	case PointRecord:
		return PointSize
	default:
		return 0
	}
}

// Record is one fully assembled fixed-size block. len(Data) == Kind.Size().
type Record struct {
	Kind Kind
	Data []byte
}

// Point is the decoded form of a point record.
type Point struct {
	Time       time.Time
	Longitude  float64
	Latitude   float64
	Altitude   float64
	TrackStart bool
}

// Coordinates returns the GeoJSON position [lon, lat, alt].
func (p Point) Coordinates() [3]float64 {
	return [3]float64{p.Longitude, p.Latitude, p.Altitude}
}

func DecodePoint(rec []byte) Point {
	c := Coordinates(rec)
	return Point{
		Time:       Date(rec),
		Longitude:  c[0],
		Latitude:   c[1],
		Altitude:   c[2],
		TrackStart: IsTrackStart(rec),
	}
}

// Name builds a track name from the record date: year, zero-based month, day,
// hour, minute and second concatenated without padding or separators.
func Name(rec []byte) string {
	return NameFromTime(Date(rec))
}

func NameFromTime(t time.Time) string {
	var b strings.Builder
	for _, v := range []int{t.Year(), int(t.Month()) - 1, t.Day(), t.Hour(), t.Minute(), t.Second()} {
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func Time(rec []byte) string {
	return FormatTime(Date(rec))
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Coordinates returns [lon, lat, alt] in degrees, degrees and meters.
func Coordinates(rec []byte) [3]float64 {
	lat := I32(rec, offLatitude)
	lon := I32(rec, offLongitude)
	alt := I32(rec, offAltitude)
	return [3]float64{
		float64(lon) / 1e7,
		float64(lat) / 1e7,
		float64(alt) / 1e2,
	}
}

func IsTrackStart(rec []byte) bool {
	return rec[offFlags]&flagTrackStart != 0
}
