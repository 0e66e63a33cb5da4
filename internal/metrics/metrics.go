package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobpilot_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	StageDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobpilot_stage_duration_seconds",
			Help:       "Duration of each pipeline stage per job.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"stage"},
	)
	JobsIngestedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobpilot_jobs_ingested_total",
			Help: "Total number of unique jobs stored by the ingester.",
		},
	)
	JobsAnalyzedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobpilot_jobs_analyzed_total",
			Help: "Total number of jobs analyzed by the oracle.",
		},
	)
	OracleRejectionsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobpilot_oracle_rejections_total",
			Help: "Total number of oracle responses rejected by structural validation.",
		},
	)
	ValidatorRejectionsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobpilot_customizations_discarded_total",
			Help: "Total number of customized profiles discarded by the structural validator.",
		},
	)
)

func StartMetricsServer(addr string) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(JobsIngestedCounter)
	prometheus.MustRegister(JobsAnalyzedCounter)
	prometheus.MustRegister(OracleRejectionsCounter)
	prometheus.MustRegister(ValidatorRejectionsCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(addr, nil))
	}()
}
