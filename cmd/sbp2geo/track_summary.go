package main

import (
	"fmt"
	"io"

	"sbp2geo/internal/convert"
	"sbp2geo/internal/sbp"
	"sbp2geo/internal/track"
)

type trackSummary struct {
	Tracks   int
	Points   int
	Dropped  int
	LengthKm float64
	BBox     [4]float64
	Items    []track.Stats
}

func summarizeTracks(res convert.Result) trackSummary {
	tot, per := track.SummarizeAll(res.Collection)
	return trackSummary{
		Tracks:   tot.Tracks,
		Points:   res.Points,
		Dropped:  res.Dropped,
		LengthKm: tot.LengthM / 1000,
		BBox:     track.BBox(tot.Bounds),
		Items:    per,
	}
}

func printSummary(w io.Writer, path string, res convert.Result) {
	s := summarizeTracks(res)

	fmt.Fprintf(w, "path: %s\n", path)
	fmt.Fprintf(w, "tracks: %d\n", s.Tracks)
	fmt.Fprintf(w, "points: %d\n", s.Points)
	fmt.Fprintf(w, "dropped_single_point_tracks: %d\n", s.Dropped)
	fmt.Fprintf(w, "length_km: %.3f\n", s.LengthKm)
	fmt.Fprintf(w, "bbox: %.7f,%.7f,%.7f,%.7f\n", s.BBox[0], s.BBox[1], s.BBox[2], s.BBox[3])
	fmt.Fprintf(w, "tracks_detail:\n")
	for _, st := range s.Items {
		fmt.Fprintf(w, "  %s: points=%d start=%s duration=%s length_km=%.3f climb_m=%.1f\n",
			st.Name, st.Points, sbp.FormatTime(st.Start), st.Duration, st.LengthM/1000, st.ClimbM)
	}
}
