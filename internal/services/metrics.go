package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contentMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snacks_content_mutations_total",
		Help: "Content store mutations by operation and result",
	}, []string{"operation", "result"})

	votesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snacks_votes_total",
		Help: "Vote toggles by direction and outcome",
	}, []string{"direction", "outcome"})

	tagChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snacks_tag_changes_total",
		Help: "Committed tag diff entries by intent",
	}, []string{"intent"})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "snacks_search_duration_seconds",
		Help:    "Time spent running full-text search queries",
		Buckets: prometheus.DefBuckets,
	})

	searchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "snacks_search_results",
		Help:    "Number of rows returned per search",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	})
)

const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

// recordMutation counts a content mutation by how it ended.
func recordMutation(operation string, err error) {
	result := resultOK
	if err != nil {
		if _, ok := AsValidationErrors(err); ok {
			result = resultRejected
		} else {
			result = resultFailed
		}
	}
	contentMutations.WithLabelValues(operation, result).Inc()
}
