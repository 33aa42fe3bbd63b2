package track

import (
	"math"
	"testing"
	"time"

	"sbp2geo/internal/geojson"
)

func TestSummarize(t *testing.T) {
	f := geojson.NewFeature("n", "2021-06-15T10:20:30.000Z", [3]float64{0, 0, 10})
	f.Append("2021-06-15T10:21:30.000Z", [3]float64{0, 1, 15})
	f.Append("2021-06-15T10:22:30.000Z", [3]float64{1, 1, 12})

	st := Summarize(f)
	if st.Points != 3 {
		t.Fatalf("points=%d want 3", st.Points)
	}
	if st.Duration != 2*time.Minute {
		t.Fatalf("duration=%s want 2m", st.Duration)
	}
	// One degree of latitude plus one degree of longitude at ~1N.
	want := (math.Pi / 180) * EarthRadiusMeters * (1 + math.Cos(math.Pi/180))
	if math.Abs(st.LengthM-want) > 50 {
		t.Fatalf("length=%.1f want ~%.1f", st.LengthM, want)
	}
	if st.ClimbM != 5 {
		t.Fatalf("climb=%.1f want 5", st.ClimbM)
	}
	if got := st.Bounds.Lo().Lat.Degrees(); math.Abs(got) > 1e-9 {
		t.Fatalf("bounds lo lat=%f want 0", got)
	}
	if got := st.Bounds.Hi().Lng.Degrees(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("bounds hi lng=%f want 1", got)
	}
}

func TestSummarizeAll(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	a := geojson.NewFeature("a", "2021-06-15T10:20:30.000Z", [3]float64{0, 0, 0})
	a.Append("2021-06-15T10:20:31.000Z", [3]float64{0, 0.001, 0})
	b := geojson.NewFeature("b", "2021-06-15T11:20:30.000Z", [3]float64{5, 5, 0})
	b.Append("2021-06-15T11:20:31.000Z", [3]float64{5, 5.001, 0})
	fc.Features = append(fc.Features, a, b)

	tot, per := SummarizeAll(fc)
	if tot.Tracks != 2 || tot.Points != 4 || len(per) != 2 {
		t.Fatalf("totals=%+v per=%d", tot, len(per))
	}
	if math.Abs(tot.LengthM-(per[0].LengthM+per[1].LengthM)) > 1e-6 {
		t.Fatalf("length total mismatch")
	}
	if !tot.Bounds.ContainsLatLng(per[1].Bounds.Hi()) {
		t.Fatalf("total bounds do not cover track b")
	}
}
