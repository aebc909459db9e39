package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harvester", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "harvester", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	FetchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harvester", Name: "fetch_requests_total", Help: "Outbound fetches."},
		[]string{"source", "outcome"}, // outcome: ok|retry|error
	)
	FetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "harvester", Name: "fetch_duration_seconds",
			Help:    "Outbound fetch duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
	FetchRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harvester", Name: "fetch_retries_total", Help: "Retried fetch attempts."},
		[]string{"source"},
	)
	PagesScraped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harvester", Name: "pages_scraped_total", Help: "Pages walked per source."},
		[]string{"source"},
	)
	ReviewsCollected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harvester", Name: "reviews_collected_total", Help: "Reviews kept after dedup."},
		[]string{"source"},
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, FetchRequests, FetchLatency, FetchRetries, PagesScraped, ReviewsCollected)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveFetch(source, outcome string, dur time.Duration) {
	FetchRequests.WithLabelValues(source, outcome).Inc()
	FetchLatency.WithLabelValues(source).Observe(dur.Seconds())
}

func ObserveRetry(source string) {
	FetchRetries.WithLabelValues(source).Inc()
}

func ObservePage(source string) {
	PagesScraped.WithLabelValues(source).Inc()
}

func ObserveCollected(source string, n int) {
	ReviewsCollected.WithLabelValues(source).Add(float64(n))
}
