package landing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	droppedReferenceIDs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront_cms",
		Subsystem: "landing",
		Name:      "dropped_reference_ids_total",
		Help:      "Malformed category or product ids removed from landing sections.",
	}, []string{"kind"})

	submitResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront_cms",
		Subsystem: "landing",
		Name:      "submissions_total",
		Help:      "Landing page submissions by outcome.",
	}, []string{"result"})

	pendingUploads = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storefront_cms",
		Subsystem: "landing",
		Name:      "pending_upload_batch_size",
		Help:      "Number of banner images uploaded together at submit time.",
		Buckets:   []float64{0, 1, 2, 3, 5},
	})
)
