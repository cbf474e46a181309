package models

import "time"

// SystemMetrics is a point-in-time snapshot of console instrumentation.
type SystemMetrics struct {
	CacheHitRatio                  float64   `json:"cache_hit_ratio"`
	CacheHits                      uint64    `json:"cache_hits"`
	CacheMisses                    uint64    `json:"cache_misses"`
	RequestsTotal                  uint64    `json:"requests_total"`
	AverageRequestDurationMs       float64   `json:"average_request_duration_ms"`
	UpstreamRequestCount           uint64    `json:"upstream_request_count"`
	AverageUpstreamRequestDuration float64   `json:"average_upstream_request_duration_ms"`
	Goroutines                     int       `json:"goroutines"`
	GeneratedAt                    time.Time `json:"generated_at"`
}
