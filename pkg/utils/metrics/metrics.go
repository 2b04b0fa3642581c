// Package metrics exposes service counters in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's collectors. A nil *Registry is valid and
// records nothing.
type Registry struct {
	reg *prometheus.Registry

	DevicesSubmitted *prometheus.CounterVec
	WeightDiverted   prometheus.Counter
	CO2Saved         prometheus.Counter
	LoginChallenges  prometheus.Counter
	VerifyFailures   prometheus.Counter
	HTTPDuration     *prometheus.HistogramVec
}

// NewRegistry creates a registry with all collectors registered
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	devices := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoloop_devices_submitted_total",
		Help: "Donated devices by category.",
	}, []string{"category"})
	weight := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecoloop_weight_diverted_pounds_total",
		Help: "Total device weight diverted from landfill.",
	})
	co2 := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecoloop_co2_saved_pounds_total",
		Help: "Estimated CO2 emissions saved by donations.",
	})
	challenges := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecoloop_login_challenges_total",
		Help: "Verification codes issued.",
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecoloop_verify_failures_total",
		Help: "Rejected verification codes.",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecoloop_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	r.MustRegister(devices, weight, co2, challenges, failures, duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{
		reg:              r,
		DevicesSubmitted: devices,
		WeightDiverted:   weight,
		CO2Saved:         co2,
		LoginChallenges:  challenges,
		VerifyFailures:   failures,
		HTTPDuration:     duration,
	}
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveDonation records a persisted batch of devices
func (r *Registry) ObserveDonation(devices []*model.Device) {
	if r == nil {
		return
	}
	for _, d := range devices {
		if d == nil {
			continue
		}
		r.DevicesSubmitted.WithLabelValues(d.Category.String()).Inc()
		// Counters panic on negative values
		if w := impact.Finite(d.Weight); w > 0 {
			r.WeightDiverted.Add(w)
		}
		if c := impact.Finite(d.CO2Emissions); c > 0 {
			r.CO2Saved.Add(c)
		}
	}
}

// ObserveChallenge records an issued verification code
func (r *Registry) ObserveChallenge() {
	if r == nil {
		return
	}
	r.LoginChallenges.Inc()
}

// ObserveVerifyFailure records a rejected verification code
func (r *Registry) ObserveVerifyFailure() {
	if r == nil {
		return
	}
	r.VerifyFailures.Inc()
}

// ObserveRequest records the latency of one HTTP request
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
