// Package convert drives SBP decoding end to end and produces a GeoJSON
// FeatureCollection.
package convert

import (
	"context"
	"errors"
	"io"

	"sbp2geo/internal/geojson"
	"sbp2geo/internal/sbp"
	"sbp2geo/internal/track"
)

// Result carries the collection plus counters useful for logging.
type Result struct {
	Collection *geojson.FeatureCollection
	Points     int
	Dropped    int
}

// Convert reads every record from src and collects the emitted tracks. It is
// all-or-nothing: on any error the returned collection is nil.
func Convert(ctx context.Context, src sbp.Source) (*geojson.FeatureCollection, error) {
	res, err := Run(ctx, src)
	if err != nil {
		return nil, err
	}
	return res.Collection, nil
}

// Run is Convert with decode counters.
func Run(ctx context.Context, src sbp.Source) (Result, error) {
	records := sbp.NewRecordReader(src)
	b := track.NewBuilder(records)

	fc := geojson.NewFeatureCollection()
	for {
		f, err := b.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, err
		}
		fc.Features = append(fc.Features, f)
	}
	return Result{Collection: fc, Points: records.Points(), Dropped: b.Dropped()}, nil
}

// FromReader converts from a pull source.
func FromReader(ctx context.Context, r io.Reader) (*geojson.FeatureCollection, error) {
	return Convert(ctx, sbp.NewReaderSource(r))
}

// FromChunks converts from a push source. The caller owns the channel; cancel
// ctx to stop a producer that is still sending after an error.
func FromChunks(ctx context.Context, chunks <-chan sbp.Chunk) (*geojson.FeatureCollection, error) {
	return Convert(ctx, sbp.NewChunkSource(chunks))
}

// FromStream reads r through the push path in chunks of chunkSize bytes.
func FromStream(ctx context.Context, r io.Reader, chunkSize int) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return Run(ctx, sbp.NewChunkSource(sbp.ChunksFromReader(ctx, r, chunkSize)))
}
