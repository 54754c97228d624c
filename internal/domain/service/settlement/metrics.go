package settlement

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	dealsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_deals_closed_total",
		Help: "Closed deals by interest kind.",
	}, []string{"kind"})

	dealConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_deal_conflicts_total",
		Help: "Deal closures lost to a concurrent settlement of the same interest.",
	})
)
