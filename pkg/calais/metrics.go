package calais

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess   = "success"
	outcomeInvalid   = "invalid_input"
	outcomeTransport = "transport_error"
	outcomeMalformed = "malformed_response"
	outcomeOther     = "error"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calais_requests_total",
			Help: "Analysis calls by outcome",
		},
		[]string{"outcome"},
	)

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "calais_request_duration_seconds",
		Help:    "Time spent in analysis calls, including normalization",
		Buckets: prometheus.DefBuckets,
	})

	objectsNormalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calais_objects_normalized_total",
			Help: "Analysis objects produced by normalization",
		},
		[]string{"group"},
	)
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, ErrInvalidInput):
		return outcomeInvalid
	case errors.Is(err, ErrTransport):
		return outcomeTransport
	case errors.Is(err, ErrMalformedResponse):
		return outcomeMalformed
	default:
		return outcomeOther
	}
}

func observeResult(r *Result) {
	for _, name := range r.GroupNames() {
		label := name
		if !IsKnownGroup(name) {
			label = "other"
		}
		objectsNormalized.WithLabelValues(label).Add(float64(len(r.groups[name])))
	}
}
