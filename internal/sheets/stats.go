package sheets

import (
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
}

// StatsSnapshot is a point-in-time aggregate of fetch latency samples.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
}

// FetchStats tracks recent upstream fetch latencies within a rolling window.
type FetchStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewFetchStats(maxAge time.Duration) *FetchStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &FetchStats{
		samples: make([]sample, 0, 64),
		maxAge:  maxAge,
	}
}

func (s *FetchStats) Record(durationMs int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp:  now,
		durationMs: durationMs,
	})
}

func (s *FetchStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	s.pruneLocked(now)
	data := make(stats.Float64Data, 0, len(s.samples))
	for _, sm := range s.samples {
		data = append(data, float64(sm.durationMs))
	}
	s.mu.Unlock()

	if len(data) == 0 {
		return StatsSnapshot{}
	}

	// Errors only occur on empty input, which is handled above.
	minMs, _ := stats.Min(data)
	maxMs, _ := stats.Max(data)
	avg, _ := stats.Mean(data)
	p50, _ := stats.Median(data)
	p95, err := stats.Percentile(data, 95)
	if err != nil {
		p95 = maxMs
	}

	return StatsSnapshot{
		Count: len(data),
		MinMs: minMs,
		MaxMs: maxMs,
		AvgMs: avg,
		P50Ms: p50,
		P95Ms: p95,
	}
}

func (s *FetchStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}
