// Package stats keeps a rolling window of render latencies per operation.
package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
	failed     bool
}

// Snapshot is a point-in-time aggregate of latency samples for one operation.
type Snapshot struct {
	Count  int     `json:"count"`
	Errors int     `json:"errors"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Latency tracks recent call latencies, keyed by operation name ("docx",
// "pdf", "preview", "import"), within a rolling window.
type Latency struct {
	mu      sync.Mutex
	samples map[string][]sample
	maxAge  time.Duration
	now     func() time.Time
}

func NewLatency(maxAge time.Duration) *Latency {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Latency{
		samples: make(map[string][]sample),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Record adds one sample for op.
func (s *Latency) Record(op string, d time.Duration, err error) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples[op] = prune(s.samples[op], now.Add(-s.maxAge))
	s.samples[op] = append(s.samples[op], sample{
		timestamp:  now,
		durationMs: ms,
		failed:     err != nil,
	})
}

// Snapshot returns the aggregate for every operation with live samples.
func (s *Latency) Snapshot() map[string]Snapshot {
	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Snapshot, len(s.samples))
	for op, list := range s.samples {
		list = prune(list, cutoff)
		if len(list) == 0 {
			delete(s.samples, op)
			continue
		}
		s.samples[op] = list
		out[op] = aggregate(list)
	}
	return out
}

func aggregate(list []sample) Snapshot {
	values := make([]int64, 0, len(list))
	var sum int64
	errs := 0
	for _, sm := range list {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		if sm.failed {
			errs++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return Snapshot{
		Count:  len(values),
		Errors: errs,
		MinMs:  values[0],
		MaxMs:  values[len(values)-1],
		AvgMs:  float64(sum) / float64(len(values)),
		P50Ms:  percentile(values, 50),
		P95Ms:  percentile(values, 95),
		P99Ms:  percentile(values, 99),
	}
}

func prune(list []sample, cutoff time.Time) []sample {
	writeIdx := 0
	for _, sm := range list {
		if !sm.timestamp.Before(cutoff) {
			list[writeIdx] = sm
			writeIdx++
		}
	}
	return list[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
