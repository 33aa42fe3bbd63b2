// Package geojson holds the track output model: a FeatureCollection of
// LineString features with a parallel array of point times.
package geojson

import (
	"encoding/json"
	"io"
)

const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
	TypeLineString        = "LineString"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Geometry   LineString `json:"geometry"`
}

type Properties struct {
	Name       string   `json:"name"`
	Time       string   `json:"time"`
	CoordTimes []string `json:"coordTimes"`
}

type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][3]float64 `json:"coordinates"`
}

func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{Type: TypeFeatureCollection, Features: []Feature{}}
}

// NewFeature starts a track at its first point.
func NewFeature(name, time string, coords [3]float64) Feature {
	return Feature{
		Type: TypeFeature,
		Properties: Properties{
			Name:       name,
			Time:       time,
			CoordTimes: []string{time},
		},
		Geometry: LineString{
			Type:        TypeLineString,
			Coordinates: [][3]float64{coords},
		},
	}
}

// Append adds a point to the track. CoordTimes and Coordinates stay parallel.
func (f *Feature) Append(time string, coords [3]float64) {
	f.Properties.CoordTimes = append(f.Properties.CoordTimes, time)
	f.Geometry.Coordinates = append(f.Geometry.Coordinates, coords)
}

func (f *Feature) Len() int { return len(f.Geometry.Coordinates) }

// Encode writes fc as JSON. A non-empty indent pretty-prints with that indent.
func Encode(w io.Writer, fc *FeatureCollection, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(fc)
}
