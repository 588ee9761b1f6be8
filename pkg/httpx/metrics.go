package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRequestsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "tenancy",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "The latency of the HTTP requests.",
	Buckets:   prometheus.DefBuckets,
}, []string{"api", "method", "code"})

// Instrument records request latency labelled by api name, method and
// response code.
func Instrument(api string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			code := sw.status
			if code == 0 {
				code = http.StatusOK
			}
			httpRequestsDuration.With(prometheus.Labels{
				"api":    api,
				"method": r.Method,
				"code":   strconv.Itoa(code),
			}).Observe(time.Since(start).Seconds())
		})
	}
}
