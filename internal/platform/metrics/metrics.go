package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	PathAI       = "ai"
	PathMock     = "mock"
	PathFallback = "fallback"
)

var (
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techmock_auth_attempts_total",
			Help: "Register and login attempts by outcome",
		},
		[]string{"action", "status"}, // action: register/login, status: success/not_found/invalid
	)

	TestsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "techmock_tests_submitted_total",
			Help: "Total number of scored test submissions",
		},
	)

	TestScorePercent = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "techmock_test_score_percent",
			Help:    "Distribution of test scores as a percentage",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	QuestionsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techmock_questions_generated_total",
			Help: "Generated questions by generation path",
		},
		[]string{"path"}, // ai, mock, fallback
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "techmock_generation_duration_seconds",
			Help:    "Time spent in the generation adapter",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}
