// Package metrics collects in-process counters and latencies for the
// companion's API, pack engine and catalog refreshes.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

const histogramSize = 4096

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	RequestLatency *Histogram
	DrawLatency    *Histogram
	FetchLatency   *Histogram

	Requests         atomic.Uint64
	ServerErrors     atomic.Uint64
	PacksOpened      atomic.Uint64
	CardsDrawn       atomic.Uint64
	LegendariesDrawn atomic.Uint64
	DrawFailures     atomic.Uint64
	CatalogRefreshes atomic.Uint64
	RefreshFailures  atomic.Uint64

	mu        sync.RWMutex
	startTime time.Time
}

// New creates a collector.
func New() *Metrics {
	return &Metrics{
		RequestLatency: NewHistogram(histogramSize),
		DrawLatency:    NewHistogram(histogramSize),
		FetchLatency:   NewHistogram(histogramSize),
		startTime:      time.Now(),
	}
}

// RecordRequest counts an HTTP request and its latency.
func (m *Metrics) RecordRequest(status int, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.Add(1)
	if status >= http.StatusInternalServerError {
		m.ServerErrors.Add(1)
	}
	m.RequestLatency.Record(d)
}

// RecordDraw counts a pack draw. A failed draw only counts the failure.
func (m *Metrics) RecordDraw(cards, legendaries int, d time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.DrawFailures.Add(1)
		return
	}
	m.PacksOpened.Add(1)
	m.CardsDrawn.Add(uint64(cards))
	m.LegendariesDrawn.Add(uint64(legendaries))
	m.DrawLatency.Record(d)
}

// RecordRefresh counts a catalog fetch.
func (m *Metrics) RecordRefresh(d time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RefreshFailures.Add(1)
		return
	}
	m.CatalogRefreshes.Add(1)
	m.FetchLatency.Record(d)
}

// Middleware records latency and status of every request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RecordRequest(status, time.Since(start))
	})
}

// Stats is a point-in-time view of the collector.
type Stats struct {
	RequestLatency LatencyStats `json:"requestLatency"`
	DrawLatency    LatencyStats `json:"drawLatency"`
	FetchLatency   LatencyStats `json:"fetchLatency"`

	Requests         uint64  `json:"requests"`
	ServerErrors     uint64  `json:"serverErrors"`
	PacksOpened      uint64  `json:"packsOpened"`
	CardsDrawn       uint64  `json:"cardsDrawn"`
	LegendariesDrawn uint64  `json:"legendariesDrawn"`
	LegendaryRate    float64 `json:"legendaryRate"` // percent of drawn cards
	DrawFailures     uint64  `json:"drawFailures"`
	CatalogRefreshes uint64  `json:"catalogRefreshes"`
	RefreshFailures  uint64  `json:"refreshFailures"`

	Uptime string `json:"uptime"`
}

// GetStats returns a snapshot of the current statistics.
func (m *Metrics) GetStats() *Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	drawn := m.CardsDrawn.Load()
	legendaries := m.LegendariesDrawn.Load()
	rate := 0.0
	if drawn > 0 {
		rate = float64(legendaries) * 100 / float64(drawn)
	}

	return &Stats{
		RequestLatency:   m.RequestLatency.Summary(),
		DrawLatency:      m.DrawLatency.Summary(),
		FetchLatency:     m.FetchLatency.Summary(),
		Requests:         m.Requests.Load(),
		ServerErrors:     m.ServerErrors.Load(),
		PacksOpened:      m.PacksOpened.Load(),
		CardsDrawn:       drawn,
		LegendariesDrawn: legendaries,
		LegendaryRate:    rate,
		DrawFailures:     m.DrawFailures.Load(),
		CatalogRefreshes: m.CatalogRefreshes.Load(),
		RefreshFailures:  m.RefreshFailures.Load(),
		Uptime:           time.Since(m.startTime).Round(time.Second).String(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestLatency.Reset()
	m.DrawLatency.Reset()
	m.FetchLatency.Reset()
	for _, c := range []*atomic.Uint64{
		&m.Requests, &m.ServerErrors, &m.PacksOpened, &m.CardsDrawn,
		&m.LegendariesDrawn, &m.DrawFailures, &m.CatalogRefreshes, &m.RefreshFailures,
	} {
		c.Store(0)
	}
	m.startTime = time.Now()
}
