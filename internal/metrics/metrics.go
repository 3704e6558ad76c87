package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Recorder は Prometheus のカウンタ群。usecase.Metrics を満たす。
type Recorder struct {
	cartMutations     *prometheus.CounterVec
	checkouts         *prometheus.CounterVec
	clipboardFailures prometheus.Counter
	catalogLoads      *prometheus.CounterVec
	sessions          prometheus.Gauge
}

func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		cartMutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		checkouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_handoffs_total",
			Help:      "Orders handed off to the messaging endpoint.",
		}, []string{"fallback"}),
		clipboardFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clipboard_failures_total",
			Help:      "Best-effort clipboard writes that failed.",
		}),
		catalogLoads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog load attempts by result.",
		}, []string{"result"}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently held in memory.",
		}),
	}
}

func (r *Recorder) CartMutated(op string) {
	r.cartMutations.WithLabelValues(op).Inc()
}

func (r *Recorder) CheckoutHandedOff(fallback bool) {
	r.checkouts.WithLabelValues(strconv.FormatBool(fallback)).Inc()
}

func (r *Recorder) ClipboardFailed() {
	r.clipboardFailures.Inc()
}

func (r *Recorder) CatalogLoaded(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.catalogLoads.WithLabelValues(result).Inc()
}

func (r *Recorder) SessionsActive(n int) {
	r.sessions.Set(float64(n))
}
