// Package metrics provides Prometheus metrics for the Fern service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IngestMessagesTotal tracks ingestion messages by type and outcome
	IngestMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "ingest",
			Name:      "messages_total",
			Help:      "Total number of ingestion messages by type and outcome",
		},
		[]string{"message_type", "status"},
	)

	// IngestRecordsTotal tracks records applied to the graph by type
	IngestRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "ingest",
			Name:      "records_total",
			Help:      "Total number of records applied to the graph by type",
		},
		[]string{"record_type"},
	)

	// IngestSkippedRecordsTotal tracks edge records skipped because a
	// referenced node does not exist
	IngestSkippedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "ingest",
			Name:      "skipped_records_total",
			Help:      "Total number of edge records skipped due to missing referenced nodes",
		},
		[]string{"record_type"},
	)

	// IngestEditNoopsTotal tracks employment edits that matched no edge
	IngestEditNoopsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "ingest",
			Name:      "edit_noops_total",
			Help:      "Total number of employment edits that matched no edge",
		},
	)

	// IngestUnknownTypesTotal tracks messages dropped for an unrecognized type
	IngestUnknownTypesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "ingest",
			Name:      "unknown_types_total",
			Help:      "Total number of messages dropped for an unrecognized type",
		},
	)

	// GraphQueriesTotal tracks read API graph queries by operation
	GraphQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "graph",
			Name:      "queries_total",
			Help:      "Total number of read API graph queries by operation",
		},
		[]string{"operation"},
	)
)
