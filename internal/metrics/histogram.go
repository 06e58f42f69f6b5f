package metrics

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Histogram keeps the most recent duration samples in a ring buffer and
// summarizes them.
type Histogram struct {
	mu      sync.Mutex
	samples []float64 // milliseconds
	next    int
	full    bool
}

// NewHistogram creates a histogram retaining up to size samples.
func NewHistogram(size int) *Histogram {
	if size <= 0 {
		size = 1024
	}
	return &Histogram{samples: make([]float64, size)}
}

// Record adds a sample, overwriting the oldest once full.
func (h *Histogram) Record(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples[h.next] = float64(d.Microseconds()) / 1000.0
	h.next++
	if h.next == len(h.samples) {
		h.next = 0
		h.full = true
	}
}

func (h *Histogram) snapshot() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.next
	if h.full {
		n = len(h.samples)
	}
	out := make([]float64, n)
	copy(out, h.samples[:n])
	return out
}

// LatencyStats summarizes a histogram in milliseconds.
type LatencyStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Summary computes statistics over the retained samples.
func (h *Histogram) Summary() LatencyStats {
	sorted := h.snapshot()
	if len(sorted) == 0 {
		return LatencyStats{}
	}
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return LatencyStats{
		Count: len(sorted),
		Mean:  sum / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		P99:   percentile(sorted, 99),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
	}
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}

// Reset drops every sample.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next = 0
	h.full = false
}
