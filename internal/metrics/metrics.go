package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "awards_updates_total",
	Help: "The total number of handled Telegram updates by event kind",
}, []string{"event"})

var UpdateErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "awards_update_errors_total",
	Help: "The total number of updates whose handling failed",
}, []string{"event"})

var UpdateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "awards_update_duration_seconds",
	Help: "Duration of update handling",
	Buckets: []float64{
		0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
	},
}, []string{"event"})

var VotesCastTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "awards_votes_cast_total",
	Help: "Number of successfully stored votes, including overwrites",
})

var GateChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "awards_gate_checks_total",
	Help: "Channel membership checks by result",
}, []string{"result"})

var StorageQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "awards_storage_query_duration_seconds",
	Help: "Duration of storage queries in seconds",
}, []string{"query"})
