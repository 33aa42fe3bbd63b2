// Package sbp decodes SBP track logs.
//
// An SBP file is a 64-byte header followed by any number of 32-byte point
// records. Point records carry a packed UTC date, a fixed-point position and a
// flags byte whose low bit marks the start of a new track.
//
// Records are reassembled from either a pull source (an io.Reader that is asked
// for exactly one record at a time) or a push source (a channel of byte chunks
// of any size). Both feed the same RecordReader, so the record boundaries seen
// downstream never depend on how the input was chunked.
package sbp
