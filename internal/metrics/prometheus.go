package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "congrats_runs_total",
		Help: "Total number of analysis runs, by final state",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "congrats_stage_duration_seconds",
		Help:    "Duration of each analysis stage",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
	}, []string{"stage"})

	RunsWithoutAudioTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "congrats_runs_without_audio_total",
		Help: "Runs whose video carried no usable audio track",
	})

	ModelLoadFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "congrats_model_load_failures_total",
		Help: "Failed model handle loads, by model kind",
	}, []string{"model"})

	PersonaIssuesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "congrats_persona_issues_total",
		Help: "Schema issues found in model answers",
	})

	ActiveRuns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "congrats_active_runs",
		Help: "Number of analysis runs currently in progress",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
