package retrieval

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/civitaslabs/planqd/internal/retrieval"

// retrievalMetrics counts candidates and access denials per backend.
type retrievalMetrics struct {
	candidates metric.Int64Counter
	denials    metric.Int64Counter
	timeouts   metric.Int64Counter
}

// newRetrievalMetrics creates the counters. A failed instrument stays nil
// and is skipped at record time.
func newRetrievalMetrics() *retrievalMetrics {
	meter := otel.Meter(instrumentationName)
	m := &retrievalMetrics{}

	m.candidates, _ = meter.Int64Counter(
		"planqd.retrieval.candidates_total",
		metric.WithDescription("Candidates produced per retrieval backend, before fusion."),
		metric.WithUnit("{candidate}"),
	)
	m.denials, _ = meter.Int64Counter(
		"planqd.retrieval.access_denials_total",
		metric.WithDescription("Restricted documents replaced by access-denied stubs during retrieval."),
		metric.WithUnit("{document}"),
	)
	m.timeouts, _ = meter.Int64Counter(
		"planqd.retrieval.backend_timeouts_total",
		metric.WithDescription("Backend fan-outs cut short by the retrieval timeout."),
		metric.WithUnit("{timeout}"),
	)
	return m
}

func (m *retrievalMetrics) recordCandidates(ctx context.Context, backend string, candidates []Candidate) {
	if m.candidates != nil {
		m.candidates.Add(ctx, int64(len(candidates)),
			metric.WithAttributes(attribute.String("backend", backend)))
	}
	if m.denials != nil {
		denied := int64(0)
		for _, c := range candidates {
			if c.Method == MethodAccessDenied {
				denied++
			}
		}
		if denied > 0 {
			m.denials.Add(ctx, denied,
				metric.WithAttributes(attribute.String("backend", backend)))
		}
	}
}

func (m *retrievalMetrics) recordTimeout(ctx context.Context, backend string) {
	if m.timeouts != nil {
		m.timeouts.Add(ctx, 1,
			metric.WithAttributes(attribute.String("backend", backend)))
	}
}
