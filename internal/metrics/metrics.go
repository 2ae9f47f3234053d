package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PastesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastebin_pastes_created_total",
		Help: "Number of pastes created.",
	})
	PastesRetrieved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastebin_pastes_retrieved_total",
		Help: "Number of paste retrievals that returned content.",
	})
	PastesExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastebin_pastes_expired_total",
		Help: "Number of pastes deleted by the lazy expiry check.",
	})
	PastesBurned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastebin_pastes_burned_total",
		Help: "Number of burn-after-reading pastes deleted at the view threshold.",
	})
	PastesSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastebin_pastes_swept_total",
		Help: "Number of expired pastes deleted by the background sweep.",
	})
	SweepCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastebin_sweep_cycles_total",
		Help: "Number of background sweep invocations.",
	})
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pastebin_rate_limit_rejections_total",
			Help: "Number of requests rejected by the rate limiter.",
		},
		[]string{"action"},
	)
	RateLimitFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastebin_rate_limit_fallbacks_total",
		Help: "Number of admission checks served by the in-memory fallback because Redis was unreachable.",
	})
)
