// ABOUTME: Prometheus metrics for the page cache
// ABOUTME: Registered on the default registry and served by the site's /metrics handler

package pagecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_pagecache_hits_total",
		Help: "Page cache lookups served from cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_pagecache_misses_total",
		Help: "Page cache lookups that required a render",
	})

	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_pagecache_evictions_total",
		Help: "Entries evicted because the cache was full",
	})

	cacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_pagecache_invalidations_total",
		Help: "Invalidation calls by kind (page, layout, tag)",
	}, []string{"kind"})

	cacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folio_pagecache_entries",
		Help: "Entries currently held",
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "folio_pagecache_render_seconds",
		Help:    "Time spent rendering on cache misses",
		Buckets: prometheus.DefBuckets,
	})
)
