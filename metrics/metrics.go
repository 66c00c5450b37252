package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CheckIns      prometheus.Counter
	Orders        *prometheus.CounterVec
	Checkouts     prometheus.Counter
	BillsPaid     *prometheus.CounterVec
	OccupiedRooms prometheus.Gauge
}

// New registers the front desk collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CheckIns: f.NewCounter(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "checkins_total",
			Help:      "Guests checked in.",
		}),
		Orders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "orders_total",
			Help:      "Restaurant orders recorded, by kind.",
		}, []string{"kind"}),
		Checkouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "checkouts_total",
			Help:      "Completed checkouts (bills issued).",
		}),
		BillsPaid: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "bills_paid_total",
			Help:      "Bills marked paid, by payment mode.",
		}, []string{"mode"}),
		OccupiedRooms: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "frontdesk",
			Name:      "rooms_occupied",
			Help:      "Rooms with an active stay.",
		}),
	}
}
