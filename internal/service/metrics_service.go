package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/unitime-api/internal/models"
)

// MetricsSnapshot is a lightweight summary of the collectors for the health API.
type MetricsSnapshot struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	DetectionsTotal          uint64    `json:"detectionsTotal"`
	ConflictsTotal           uint64    `json:"conflictsTotal"`
	ResolutionsApplied       uint64    `json:"resolutionsApplied"`
	ScanQueueDepth           int64     `json:"scanQueueDepth"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	cacheLatency      prometheus.Observer
	cacheWrite        prometheus.Observer
	cacheHitRatio     prometheus.Gauge
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	dbQueryDuration   *prometheus.HistogramVec
	detectionDuration *prometheus.HistogramVec
	conflictsDetected *prometheus.CounterVec
	resolutions       *prometheus.CounterVec
	scanJobs          *prometheus.CounterVec
	scanDuration      prometheus.Observer
	scanQueueDepth    prometheus.Gauge

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	detectionCount       uint64
	conflictCount        uint64
	appliedCount         uint64
	scanQueued           int64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	detectionDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_detection_duration_seconds",
		Help:    "Duration of conflict detection passes",
		Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"scope"})

	conflictsDetected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_conflicts_detected_total",
		Help: "Conflicts emitted by detection passes",
	}, []string{"type", "priority"})

	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_resolutions_total",
		Help: "Resolution attempts by action and outcome",
	}, []string{"action", "outcome"})

	scanJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_master_scan_jobs_total",
		Help: "Master scan job runs by outcome",
	}, []string{"outcome"})

	scanDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_master_scan_duration_seconds",
		Help:    "Duration of master scan job runs",
		Buckets: prometheus.DefBuckets,
	})

	scanQueueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_master_scan_queue_depth",
		Help: "Master scan jobs waiting for a worker",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		dbQueryDuration, detectionDuration, conflictsDetected, resolutions, scanJobs, scanDuration, scanQueueDepth, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:          registry,
		handler:           handler,
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheLatency:      cacheLatency,
		cacheWrite:        cacheWrite,
		cacheHitRatio:     cacheHitRatio,
		cacheHits:         cacheHits,
		cacheMisses:       cacheMisses,
		dbQueryDuration:   dbQueryDuration,
		detectionDuration: detectionDuration,
		conflictsDetected: conflictsDetected,
		resolutions:       resolutions,
		scanJobs:          scanJobs,
		scanDuration:      scanDuration,
		scanQueueDepth:    scanQueueDepth,
	}
}

// Registry exposes the underlying registry for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// ObserveDetection records one detection pass and the conflicts it produced.
func (m *MetricsService) ObserveDetection(scope string, duration time.Duration, conflicts []models.Conflict) {
	if m == nil {
		return
	}
	m.detectionDuration.WithLabelValues(scope).Observe(duration.Seconds())
	for _, c := range conflicts {
		m.conflictsDetected.WithLabelValues(string(c.Type), string(c.Priority)).Inc()
	}
	atomic.AddUint64(&m.detectionCount, 1)
	atomic.AddUint64(&m.conflictCount, uint64(len(conflicts)))
}

// RecordResolution counts a resolution attempt. Outcome is "applied" or an
// error code.
func (m *MetricsService) RecordResolution(action models.ResolutionAction, outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(string(models.NormalizeAction(action)), outcome).Inc()
	if outcome == "applied" {
		atomic.AddUint64(&m.appliedCount, 1)
	}
}

// ObserveScanJob records a master scan job run.
func (m *MetricsService) ObserveScanJob(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.scanJobs.WithLabelValues(outcome).Inc()
	m.scanDuration.Observe(duration.Seconds())
}

// SetScanQueueDepth records how many master scans are waiting.
func (m *MetricsService) SetScanQueueDepth(pending int) {
	if m == nil {
		return
	}
	m.scanQueueDepth.Set(float64(pending))
	atomic.StoreInt64(&m.scanQueued, int64(pending))
}

// Snapshot returns aggregated metrics suitable for the health endpoint.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	totalLookups := hits + misses
	if totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DetectionsTotal:          atomic.LoadUint64(&m.detectionCount),
		ConflictsTotal:           atomic.LoadUint64(&m.conflictCount),
		ResolutionsApplied:       atomic.LoadUint64(&m.appliedCount),
		ScanQueueDepth:           atomic.LoadInt64(&m.scanQueued),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
