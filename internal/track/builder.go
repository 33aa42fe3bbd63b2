// Package track groups SBP point records into track features.
package track

import (
	"context"
	"errors"
	"io"

	"sbp2geo/internal/geojson"
	"sbp2geo/internal/sbp"
)

// MinPoints is the smallest track that is emitted. A LineString needs at least
// two positions.
const MinPoints = 2

// Builder turns a record stream into completed track features.
//
// A track starts at every point record with the start-of-track flag set. The
// first point record always starts a track, flagged or not, so no leading
// points are dropped. Tracks with fewer than MinPoints points are discarded.
type Builder struct {
	records *sbp.RecordReader

	open    *geojson.Feature
	dropped int
	done    bool
}

func NewBuilder(records *sbp.RecordReader) *Builder {
	return &Builder{records: records}
}

// Next returns the next completed track, or io.EOF once input is exhausted and
// the last open track has been flushed. Any other error aborts the stream.
func (b *Builder) Next(ctx context.Context) (geojson.Feature, error) {
	if b.done {
		return geojson.Feature{}, io.EOF
	}
	for {
		rec, err := b.records.Next(ctx)
		if errors.Is(err, io.EOF) {
			b.done = true
			if f, ok := b.flush(); ok {
				return f, nil
			}
			return geojson.Feature{}, io.EOF
		}
		if err != nil {
			return geojson.Feature{}, err
		}
		if rec.Kind != sbp.PointRecord {
			continue
		}

		p := sbp.DecodePoint(rec.Data)
		t := sbp.FormatTime(p.Time)
		if b.open == nil || p.TrackStart {
			prev, ok := b.flush()
			f := geojson.NewFeature(sbp.NameFromTime(p.Time), t, p.Coordinates())
			b.open = &f
			if ok {
				return prev, nil
			}
			continue
		}
		b.open.Append(t, p.Coordinates())
	}
}

// Dropped reports how many single-point tracks were discarded so far.
func (b *Builder) Dropped() int { return b.dropped }

func (b *Builder) flush() (geojson.Feature, bool) {
	f := b.open
	b.open = nil
	if f == nil {
		return geojson.Feature{}, false
	}
	if f.Len() < MinPoints {
		b.dropped++
		return geojson.Feature{}, false
	}
	return *f, true
}
