package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChunksProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spotmap_chunks_processed_total",
		Help: "Total import chunks processed, by final chunk status",
	}, []string{"status"})
	ChunkDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "spotmap_chunk_duration_seconds",
		Help:    "Import chunk processing duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
	SpotsImportedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spotmap_spots_imported_total",
		Help: "Total spots written by import chunks",
	})
	RecordsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spotmap_records_skipped_total",
		Help: "Total raw records skipped for missing or invalid coordinates",
	})
	ImportsCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spotmap_imports_completed_total",
		Help: "Total import jobs that reached COMPLETED",
	})
	EditsAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spotmap_edits_applied_total",
		Help: "Total edits reconciled, by edit type and outcome",
	}, []string{"type", "outcome"})
	MediaDeletionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spotmap_media_deletions_total",
		Help: "Orphaned media deletions attempted, by result",
	}, []string{"result"})
	LeaderboardFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spotmap_leaderboard_failures_total",
		Help: "Contribution ledger failures swallowed, by stage",
	}, []string{"stage"})
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		ChunksProcessedTotal,
		ChunkDurationSeconds,
		SpotsImportedTotal,
		RecordsSkippedTotal,
		ImportsCompletedTotal,
		EditsAppliedTotal,
		MediaDeletionsTotal,
		LeaderboardFailuresTotal,
	)
}

// Handler Prometheus エクスポジション用ハンドラー
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
