package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset of Collector used by middleware and handlers
type Recorder interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordUserCreated()
	RecordTaskCreated()
}

// Collector holds the service's Prometheus metrics
type Collector struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	usersCreated prometheus.Counter
	tasksCreated prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usertask_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "usertask_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "usertask_users_created_total",
			Help: "Users registered through find-or-create",
		}),
		tasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "usertask_tasks_created_total",
			Help: "Tasks created",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.duration,
		c.usersCreated,
		c.tasksCreated,
	)

	return c
}

// RecordRequest records one served HTTP request
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUserCreated counts a newly registered user
func (c *Collector) RecordUserCreated() {
	c.usersCreated.Inc()
}

// RecordTaskCreated counts a newly created task
func (c *Collector) RecordTaskCreated() {
	c.tasksCreated.Inc()
}

// Handler returns the scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every measurement
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordUserCreated()                               {}
func (Nop) RecordTaskCreated()                               {}
