package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	ExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_extractions_total",
			Help: "Total number of resume text extractions by format and status",
		},
		[]string{"format", "status"},
	)
	ExtractionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resume_extraction_duration_seconds",
			Help:    "Resume text extraction duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_analyses_total",
			Help: "Total number of skill analyses by input mode",
		},
		[]string{"mode"},
	)
	SkillsExtracted = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skills_extracted_per_analysis",
			Help:    "Distribution of skills detected per analysis",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 40, 80},
		},
	)

	ReadinessComputationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "readiness_computations_total",
			Help: "Total number of readiness evaluations",
		},
	)
	ReadinessScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "readiness_score",
			Help:    "Distribution of readiness scores ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	ImportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_imports_total",
			Help: "Total number of profile imports by source and status",
		},
		[]string{"source", "status"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ExtractionsTotal)
	prometheus.MustRegister(ExtractionDuration)
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(SkillsExtracted)
	prometheus.MustRegister(ReadinessComputationsTotal)
	prometheus.MustRegister(ReadinessScoreHistogram)
	prometheus.MustRegister(ImportsTotal)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			// fallback when route pattern is unavailable
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveExtraction records one extraction attempt.
func ObserveExtraction(format, status string, dur time.Duration) {
	ExtractionsTotal.WithLabelValues(format, status).Inc()
	ExtractionDuration.Observe(dur.Seconds())
}

// ObserveAnalysis records one completed analysis and its detected skill count.
func ObserveAnalysis(mode string, skillCount int) {
	AnalysesTotal.WithLabelValues(mode).Inc()
	SkillsExtracted.Observe(float64(skillCount))
}

// ObserveReadiness records one readiness evaluation result.
func ObserveReadiness(score float64) {
	ReadinessComputationsTotal.Inc()
	if score >= 0 && score <= 100 {
		ReadinessScoreHistogram.Observe(score)
	}
}

// ObserveImport records one profile import attempt.
func ObserveImport(source, status string) {
	ImportsTotal.WithLabelValues(source, status).Inc()
}
