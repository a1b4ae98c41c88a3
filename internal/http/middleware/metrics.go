package middleware

import (
	"errors"
	"strconv"
	"time"

	"crebito/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	txApplied = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_transactions_applied_total",
		Help: "Transactions committed by the balance mutation engine",
	})
	txLimitExceeded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_limit_exceeded_total",
		Help: "Debits rejected by the credit limit check",
	})
	txInvalidInput = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_invalid_input_total",
		Help: "Transactions rejected by input validation",
	})
	storageFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_storage_unavailable_total",
		Help: "Operations that failed because the store was unreachable",
	})

	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequests, httpDuration,
		txApplied, txLimitExceeded, txInvalidInput, storageFailures,
		RLRequests, RLBlocked,
	)
}

// Metrics records a counter and latency observation per request.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// CountApplyOutcome classifies the result of one engine apply call. Limit
// rejections and invalid input are expected outcomes, counted rather than
// logged.
func CountApplyOutcome(err error) {
	switch {
	case err == nil:
		txApplied.Inc()
	case errors.Is(err, domain.ErrLimitExceeded):
		txLimitExceeded.Inc()
	case errors.Is(err, domain.ErrInvalidTransaction):
		txInvalidInput.Inc()
	case errors.Is(err, domain.ErrStorageUnavailable):
		storageFailures.Inc()
	}
}
