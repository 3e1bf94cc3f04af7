package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/javiermolinar/congrid/internal/save"
	"github.com/javiermolinar/congrid/internal/schedule"
)

var (
	renderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent building the schedule SVG.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		},
	)

	renderItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_items_total",
			Help:      "Items considered by the renderer, by outcome.",
		},
		[]string{"outcome"},
	)

	savesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "save_items_total",
			Help:      "Item assignments persisted, by result.",
		},
		[]string{"result"},
	)
)

// Render records renderer statistics. It satisfies render.Observer.
type Render struct{}

// ObserveRender records one render.
func (Render) ObserveRender(elapsed time.Duration, drawn, skipped int) {
	renderDuration.Observe(elapsed.Seconds())
	renderItems.WithLabelValues("drawn").Add(float64(drawn))
	renderItems.WithLabelValues("skipped").Add(float64(skipped))
}

// CountSaves wraps a persister and counts each assignment write by result.
func CountSaves(p save.Persister) save.Persister {
	return save.PersisterFunc(func(ctx context.Context, a schedule.Assignment) error {
		if err := p.SaveAssignment(ctx, a); err != nil {
			savesTotal.WithLabelValues("error").Inc()
			return err
		}
		savesTotal.WithLabelValues("ok").Inc()
		return nil
	})
}
