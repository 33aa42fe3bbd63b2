package web

import (
	"sync"
	"sync/atomic"
	"time"
)

type Status struct {
	startUnixNano int64
	conversionsOK uint64
	conversionsKO uint64
	featuresTotal uint64
	pointsTotal   uint64

	mu          sync.Mutex
	lastUnixNs  int64
	lastErr     string
	lastErrKind string
}

func NewStatus() *Status {
	s := &Status{}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	return s
}

// MarkConversion records the outcome of one conversion request.
func (s *Status) MarkConversion(nowUTC time.Time, features, points int, err error, kind string) {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	if err != nil {
		atomic.AddUint64(&s.conversionsKO, 1)
	} else {
		atomic.AddUint64(&s.conversionsOK, 1)
		atomic.AddUint64(&s.featuresTotal, uint64(features))
		atomic.AddUint64(&s.pointsTotal, uint64(points))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUnixNs = nowUTC.UnixNano()
	if err != nil {
		s.lastErr = err.Error()
		s.lastErrKind = kind
	}
}

type StatusSnapshot struct {
	Service           string `json:"service"`
	NowUTC            string `json:"now_utc"`
	UptimeSec         int64  `json:"uptime_sec"`
	ConversionsOK     uint64 `json:"conversions_ok"`
	ConversionsFailed uint64 `json:"conversions_failed"`
	FeaturesTotal     uint64 `json:"features_total"`
	PointsTotal       uint64 `json:"points_total"`
	LastConversionUTC string `json:"last_conversion_utc,omitempty"`
	LastError         string `json:"last_error,omitempty"`
	LastErrorKind     string `json:"last_error_kind,omitempty"`
}

func (s *Status) Snapshot(nowUTC time.Time) StatusSnapshot {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()

	snap := StatusSnapshot{
		Service:           "sbp2geo",
		NowUTC:            nowUTC.UTC().Format(time.RFC3339Nano),
		UptimeSec:         int64(nowUTC.Sub(start).Seconds()),
		ConversionsOK:     atomic.LoadUint64(&s.conversionsOK),
		ConversionsFailed: atomic.LoadUint64(&s.conversionsKO),
		FeaturesTotal:     atomic.LoadUint64(&s.featuresTotal),
		PointsTotal:       atomic.LoadUint64(&s.pointsTotal),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastUnixNs != 0 {
		snap.LastConversionUTC = time.Unix(0, s.lastUnixNs).UTC().Format(time.RFC3339Nano)
	}
	snap.LastError = s.lastErr
	snap.LastErrorKind = s.lastErrKind
	return snap
}
