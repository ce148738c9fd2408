package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	SubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "practice_submissions_total",
			Help: "Total number of practice batch submissions",
		},
		[]string{"mode", "result"},
	)

	GradeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "practice_question_grades_total",
			Help: "Graded answers by question type and status",
		},
		[]string{"type", "status"},
	)

	SimilarityHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "practice_similarity_percent",
			Help:    "Similarity percentage of graded programming answers",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	MasteryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "practice_mastery_changes_total",
			Help: "Wrong-answer ledger transitions by change and resulting status",
		},
		[]string{"change", "status"},
	)

	SubmissionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "practice_submission_duration_seconds",
			Help:    "Time spent grading and persisting one submission",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SubmissionCounter)
	prometheus.MustRegister(GradeCounter)
	prometheus.MustRegister(SimilarityHistogram)
	prometheus.MustRegister(SubmissionDuration)
	prometheus.MustRegister(MasteryCounter)
}

func ObserveMastery(change, status string) {
	MasteryCounter.WithLabelValues(change, status).Inc()
}

// ObserveGrade records one graded answer. similarity is nil for
// non-programming questions.
func ObserveGrade(questionType, status string, similarity *int) {
	GradeCounter.WithLabelValues(questionType, status).Inc()
	if similarity != nil {
		SimilarityHistogram.Observe(float64(*similarity))
	}
}

// ObserveSubmission records the outcome of one submission. result is
// "ok" or "error".
func ObserveSubmission(mode, result string, elapsed time.Duration) {
	SubmissionCounter.WithLabelValues(mode, result).Inc()
	SubmissionDuration.Observe(elapsed.Seconds())
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
