package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas de negócio
	PrecisionFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canaswarm_precision_fetches_total",
		Help: "Total de consultas à API do Precision Platform",
	}, []string{"status"})

	PrecisionFetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "canaswarm_precision_fetch_latency_seconds",
		Help:    "Latência das consultas ao Precision Platform",
		Buckets: prometheus.DefBuckets,
	})

	ReportsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canaswarm_reports_ingested_total",
		Help: "Total de relatórios de talhão ingeridos",
	})

	CriticalZones = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "canaswarm_critical_zones",
		Help: "Zonas críticas no último relatório de cada talhão",
	}, []string{"field_id"})

	AlertsDispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canaswarm_alerts_dispatched_total",
		Help: "Total de alertas encaminhados por canal",
	}, []string{"channel"})

	DecisionsGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canaswarm_decisions_generated_total",
		Help: "Total de decisões geradas por nível de prioridade",
	}, []string{"level"})

	// Métricas de infraestrutura
	HistoryWriteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "canaswarm_history_write_latency_seconds",
		Help:    "Latência de gravação no histórico",
		Buckets: prometheus.DefBuckets,
	})
)
