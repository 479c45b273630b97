package production

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "automedia_turnstile_admissions_total",
			Help: "Videos admitted into production by the turnstile.",
		},
	)

	promotionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "automedia_distribution_promotions_total",
			Help: "Videos promoted from add_to_production to pending_distribution.",
		},
	)
)
