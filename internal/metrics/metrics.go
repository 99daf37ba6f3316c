// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package metrics collects prometheus metrics about an upgrade run.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "superset_upgrade"

// Collector is a prometheus.Collector that collects metrics about the
// steps of an upgrade run and the requests it makes.
type Collector struct {
	stepDuration *prometheus.HistogramVec
	stepFailures *prometheus.CounterVec
	waitPolls    prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpDuration prometheus.Histogram
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "step_duration_seconds",
				Help:      "The time taken by each step of the run.",
				Buckets:   []float64{1, 10, 30, 60, 300, 600, 1200, 2000},
			}, []string{"step"},
		),
		stepFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "step_failures_total",
				Help:      "The number of failed steps.",
			}, []string{"step"},
		),
		waitPolls: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "wait_polls_total",
				Help:      "The number of model status polls made while waiting.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "The number of requests made to the Superset API.",
			}, []string{"method", "code"},
		),
		httpDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "The round trip time of requests to the Superset API.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// ObserveStep records the outcome of a step that ran for elapsed.
func (c *Collector) ObserveStep(step string, elapsed time.Duration, err error) {
	c.stepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
	if err != nil {
		c.stepFailures.WithLabelValues(step).Inc()
	}
}

// WaitPolls returns the counter incremented by every status poll.
func (c *Collector) WaitPolls() prometheus.Counter {
	return c.waitPolls
}

// Record is part of the http.RequestRecorder interface.
func (c *Collector) Record(method string, _ *url.URL, res *http.Response, rtt time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(res.StatusCode)).Inc()
	c.httpDuration.Observe(rtt.Seconds())
}

// RecordError is part of the http.RequestRecorder interface.
func (c *Collector) RecordError(method string, _ *url.URL, _ error) {
	c.httpRequests.WithLabelValues(method, "error").Inc()
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.stepDuration.Describe(ch)
	c.stepFailures.Describe(ch)
	c.waitPolls.Describe(ch)
	c.httpRequests.Describe(ch)
	c.httpDuration.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.stepDuration.Collect(ch)
	c.stepFailures.Collect(ch)
	c.waitPolls.Collect(ch)
	c.httpRequests.Collect(ch)
	c.httpDuration.Collect(ch)
}

// WriteFile writes the collected metrics to path in the text exposition
// format, for the node exporter textfile collector.
func (c *Collector) WriteFile(path string) error {
	registry := prometheus.NewPedanticRegistry()
	if err := registry.Register(c); err != nil {
		return errors.Trace(err)
	}
	return errors.Annotatef(prometheus.WriteToTextfile(path, registry), "writing metrics to %q", path)
}
