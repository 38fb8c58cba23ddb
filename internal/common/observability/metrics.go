// internal/common/observability/metrics.go
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// registry is private: this is a one-shot CLI, so instead of serving
// /metrics the runner gathers the counters at the end of a run and emits
// them through the logger.
var registry = prometheus.NewRegistry()

var (
	ProductsProcessed = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogforge_products_processed_total",
			Help: "Total number of products processed, by outcome status",
		},
		[]string{"status"},
	)

	ResearchDuration = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "blogforge_research_duration_seconds",
			Help: "Duration of a full research run for one product",
		},
		[]string{"approved"},
	)

	LLMCalls = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogforge_llm_calls_total",
			Help: "Total number of LLM completion calls, by outcome",
		},
		[]string{"outcome"},
	)

	SearchQueries = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogforge_search_queries_total",
			Help: "Total number of web-search queries, by outcome",
		},
		[]string{"outcome"},
	)

	ScrapeFailures = promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "blogforge_scrape_failures_total",
			Help: "Total number of failed page fetches",
		},
	)
)

// RecordProduct records one product outcome in the run summary sense:
// completed, approved, rejected or errored.
func RecordProduct(status string) {
	ProductsProcessed.WithLabelValues(status).Inc()
}

// RecordResearch records the duration of one research run.
func RecordResearch(d time.Duration, approved bool) {
	label := "false"
	if approved {
		label = "true"
	}
	ResearchDuration.WithLabelValues(label).Observe(d.Seconds())
}

// RecordLLMCall records one LLM completion attempt outcome: ok, timeout or
// error.
func RecordLLMCall(outcome string) {
	LLMCalls.WithLabelValues(outcome).Inc()
}

// RecordSearch records one search query outcome: ok, empty or error.
func RecordSearch(outcome string) {
	SearchQueries.WithLabelValues(outcome).Inc()
}

// RecordScrapeFailure records one failed page fetch.
func RecordScrapeFailure() {
	ScrapeFailures.Inc()
}

// Snapshot gathers the registry and flattens it to <name>[_<label value>]
// keys, histograms contributing _count and _sum.
func Snapshot() map[string]float64 {
	families, err := registry.Gather()
	if err != nil {
		return nil
	}

	out := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName()
			for _, label := range metric.GetLabel() {
				key += "_" + label.GetValue()
			}

			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				out[key+"_count"] = float64(metric.GetHistogram().GetSampleCount())
				out[key+"_sum"] = metric.GetHistogram().GetSampleSum()
			}
		}
	}
	return out
}
