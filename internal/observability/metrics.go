// Package observability exposes Prometheus counters for ride file handling.
//
// The CLI is a batch tool, so instead of serving /metrics it can write the
// default gatherer to a node-exporter textfile after each run.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ridesOpenedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ridefile",
		Subsystem: "registry",
		Name:      "rides_opened_total",
		Help:      "Number of ride files decoded successfully, by format suffix.",
	}, []string{"suffix"})

	openFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ridefile",
		Subsystem: "registry",
		Name:      "open_failures_total",
		Help:      "Number of ride file open failures, by error kind.",
	}, []string{"kind"})

	documentsWrittenCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ridefile",
		Subsystem: "gcxml",
		Name:      "documents_written_total",
		Help:      "Number of canonical ride documents serialized.",
	})

	samplesWrittenCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ridefile",
		Subsystem: "gcxml",
		Name:      "samples_written_total",
		Help:      "Number of samples written across all canonical documents.",
	})

	catalogUpsertCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ridefile",
		Subsystem: "catalog",
		Name:      "upserts_total",
		Help:      "Number of catalog upserts, by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		ridesOpenedCounter,
		openFailureCounter,
		documentsWrittenCounter,
		samplesWrittenCounter,
		catalogUpsertCounter,
	)
}

// RecordOpened counts a successfully decoded ride file.
func RecordOpened(suffix string) {
	ridesOpenedCounter.WithLabelValues(suffix).Inc()
}

// RecordOpenFailure counts a failed open by error kind.
func RecordOpenFailure(kind string) {
	if kind == "" {
		kind = "other"
	}
	openFailureCounter.WithLabelValues(kind).Inc()
}

// RecordDocumentWritten counts one serialized document and its samples.
func RecordDocumentWritten(samples int) {
	documentsWrittenCounter.Inc()
	if samples > 0 {
		samplesWrittenCounter.Add(float64(samples))
	}
}

// RecordCatalogUpsert counts a catalog write; outcome is "inserted",
// "updated", or "failed".
func RecordCatalogUpsert(outcome string) {
	catalogUpsertCounter.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes every registered metric to path in the Prometheus text
// format, replacing the file atomically.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
