package track

import (
	"time"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"sbp2geo/internal/geojson"
	"sbp2geo/internal/sbp"
)

// EarthRadiusMeters is the mean Earth radius.
const EarthRadiusMeters = 6371008.8

type Stats struct {
	Name     string
	Points   int
	Start    time.Time
	End      time.Time
	LengthM  float64
	ClimbM   float64
	Bounds   s2.Rect
	Duration time.Duration
}

// Summarize computes length, elevation gain and bounding box of a track.
// Times that do not parse are left zero.
func Summarize(f geojson.Feature) Stats {
	st := Stats{Name: f.Properties.Name, Points: f.Len(), Bounds: s2.EmptyRect()}
	if st.Points == 0 {
		return st
	}

	times := f.Properties.CoordTimes
	if t, err := time.Parse(sbp.TimeLayout, times[0]); err == nil {
		st.Start = t
	}
	if t, err := time.Parse(sbp.TimeLayout, times[len(times)-1]); err == nil {
		st.End = t
	}
	if !st.Start.IsZero() && !st.End.IsZero() {
		st.Duration = st.End.Sub(st.Start)
	}

	var dist s1.Angle
	var prev s2.LatLng
	for i, c := range f.Geometry.Coordinates {
		ll := s2.LatLngFromDegrees(c[1], c[0])
		st.Bounds = st.Bounds.AddPoint(ll)
		if i > 0 {
			dist += prev.Distance(ll)
			if climb := c[2] - f.Geometry.Coordinates[i-1][2]; climb > 0 {
				st.ClimbM += climb
			}
		}
		prev = ll
	}
	st.LengthM = dist.Radians() * EarthRadiusMeters
	return st
}

// Totals aggregates a whole collection.
type Totals struct {
	Tracks  int
	Points  int
	LengthM float64
	Bounds  s2.Rect
}

func SummarizeAll(fc *geojson.FeatureCollection) (Totals, []Stats) {
	tot := Totals{Bounds: s2.EmptyRect()}
	if fc == nil {
		return tot, nil
	}
	out := make([]Stats, 0, len(fc.Features))
	for _, f := range fc.Features {
		st := Summarize(f)
		tot.Tracks++
		tot.Points += st.Points
		tot.LengthM += st.LengthM
		tot.Bounds = tot.Bounds.Union(st.Bounds)
		out = append(out, st)
	}
	return tot, out
}

// BBox returns the GeoJSON bbox [minLon, minLat, maxLon, maxLat] of r, or
// zeros for an empty rect.
func BBox(r s2.Rect) [4]float64 {
	if r.IsEmpty() {
		return [4]float64{}
	}
	lo, hi := r.Lo(), r.Hi()
	return [4]float64{lo.Lng.Degrees(), lo.Lat.Degrees(), hi.Lng.Degrees(), hi.Lat.Degrees()}
}
