package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scheduler metrics
	MarketsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "betting_markets_closed_total",
			Help: "Total number of markets auto-closed by the scheduler",
		},
	)

	MarketCloseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "betting_market_close_failures_total",
			Help: "Total number of failed market close attempts",
		},
	)

	MatchesClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "betting_matches_closed_total",
			Help: "Total number of matches auto-closed by the scheduler",
		},
	)

	MatchCloseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "betting_match_close_failures_total",
			Help: "Total number of failed match close attempts",
		},
	)

	SchedulerTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betting_scheduler_ticks_total",
			Help: "Total number of scheduler ticks",
		},
		[]string{"status"}, // success, error
	)

	SchedulerTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "betting_scheduler_tick_duration_seconds",
			Help:    "Duration of scheduler ticks",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// Settlement metrics
	WagersSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betting_wagers_settled_total",
			Help: "Total number of wagers settled",
		},
		[]string{"result"}, // win, loss
	)

	WagersCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "betting_wagers_cancelled_total",
			Help: "Total number of wagers cancelled by admins",
		},
	)
)

// RecordTick records one scheduler tick and its outcome.
func RecordTick(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SchedulerTicks.WithLabelValues(status).Inc()
	SchedulerTickDuration.Observe(duration.Seconds())
}

// RecordMarketClose records a single market close attempt.
func RecordMarketClose(err error) {
	if err != nil {
		MarketCloseFailures.Inc()
		return
	}
	MarketsClosed.Inc()
}

// RecordMatchClose records a single match close attempt.
func RecordMatchClose(err error) {
	if err != nil {
		MatchCloseFailures.Inc()
		return
	}
	MatchesClosed.Inc()
}

// RecordSettlement records a settled wager by result.
func RecordSettlement(won bool) {
	result := "loss"
	if won {
		result = "win"
	}
	WagersSettled.WithLabelValues(result).Inc()
}
