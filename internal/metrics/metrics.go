// Package metrics exposes grid layout activity as Prometheus metrics.
//
// Collectors are registered on a caller-supplied registerer, never on the
// global default one, so several grids (or tests) can coexist. A nil
// *Collector is valid and records nothing.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vgrid"

// Collector records the layout activity of one grid.
type Collector struct {
	recomputes       prometheus.Counter
	passes           prometheus.Histogram
	chunkChanges     *prometheus.CounterVec
	pinRefusals      prometheus.Counter
	forcedUnpins     prometheus.Counter
	materializedRows prometheus.Gauge
	cacheHitRatio    prometheus.Gauge
}

// New creates the collectors of the grid named grid and registers them on
// reg. A nil reg returns a nil (disabled) collector.
//
// Registering the same grid name twice on one registerer reuses the
// collectors already registered.
func New(reg prometheus.Registerer, grid string) (*Collector, error) {
	if reg == nil {
		return nil, nil
	}
	labels := prometheus.Labels{"grid": grid}

	c := &Collector{
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "recomputes_total",
			Help:        "Number of sizing recomputes",
			ConstLabels: labels,
		}),
		passes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "recompute_passes",
			Help:        "Width/height passes needed per recompute",
			ConstLabels: labels,
			Buckets:     []float64{1, 2, 3, 4, 5},
		}),
		chunkChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "chunk_changes_total",
			Help:        "Number of materialized chunk changes",
			ConstLabels: labels,
		}, []string{"axis"}),
		pinRefusals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "pin_refusals_total",
			Help:        "Pin requests refused because of the pinned area cap",
			ConstLabels: labels,
		}),
		forcedUnpins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "forced_unpins_total",
			Help:        "Declared pinned columns unpinned because they did not fit",
			ConstLabels: labels,
		}),
		materializedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "materialized_rows",
			Help:        "Rows currently materialized by the vertical window",
			ConstLabels: labels,
		}),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "cache_hit_ratio",
			Help:        "Metric cache hits over lookups",
			ConstLabels: labels,
		}),
	}

	var err error
	c.recomputes = register(reg, c.recomputes, &err)
	c.passes = register(reg, c.passes, &err)
	c.chunkChanges = register(reg, c.chunkChanges, &err)
	c.pinRefusals = register(reg, c.pinRefusals, &err)
	c.forcedUnpins = register(reg, c.forcedUnpins, &err)
	c.materializedRows = register(reg, c.materializedRows, &err)
	c.cacheHitRatio = register(reg, c.cacheHitRatio, &err)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, col T, errp *error) T {
	if *errp != nil {
		return col
	}
	if err := reg.Register(col); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		*errp = err
	}
	return col
}

// Recompute records one sizing recompute that took passes passes.
func (c *Collector) Recompute(passes int) {
	if c == nil {
		return
	}
	c.recomputes.Inc()
	c.passes.Observe(float64(passes))
}

// ChunkChanged records a chunk change on axis ("vertical" or "horizontal").
func (c *Collector) ChunkChanged(axis string) {
	if c == nil {
		return
	}
	c.chunkChanges.WithLabelValues(axis).Inc()
}

// PinRefused records a refused pin request.
func (c *Collector) PinRefused() {
	if c != nil {
		c.pinRefusals.Inc()
	}
}

// ForcedUnpin records a declared pinned column that had to be unpinned.
func (c *Collector) ForcedUnpin() {
	if c != nil {
		c.forcedUnpins.Inc()
	}
}

// SetMaterializedRows sets the number of materialized rows.
func (c *Collector) SetMaterializedRows(n int) {
	if c != nil {
		c.materializedRows.Set(float64(n))
	}
}

// SetCacheHitRatio sets the metric cache hit ratio.
func (c *Collector) SetCacheHitRatio(ratio float64) {
	if c != nil {
		c.cacheHitRatio.Set(ratio)
	}
}
