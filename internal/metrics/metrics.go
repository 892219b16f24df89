package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "seesync"

// Registration outcomes.
const (
	OutcomeRegistered  = "registered"
	OutcomeSkipped     = "skipped"
	OutcomeOverwritten = "overwritten"
	OutcomeFailed      = "failed"
)

// Recorder owns a private registry. A nil *Recorder records nothing, so
// components accept one unconditionally.
type Recorder struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	registrations *prometheus.CounterVec
	links         *prometheus.CounterVec
}

// New returns a Recorder with its collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "SEEweb requests by endpoint and HTTP status code.",
		}, []string{"endpoint", "code"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "RO registrations by RO type and outcome.",
		}, []string{"type", "outcome"}),
		links: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_total",
			Help:      "Links created by link type.",
		}, []string{"link_type"}),
	}
	r.registry.MustRegister(r.requests, r.registrations, r.links)
	return r
}

// ObserveRequest counts one HTTP exchange. A code of 0 means the request
// never got a response.
func (r *Recorder) ObserveRequest(endpoint string, code int) {
	if r == nil {
		return
	}
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	r.requests.WithLabelValues(endpoint, label).Inc()
}

// ObserveRegistration counts one registration attempt.
func (r *Recorder) ObserveRegistration(roType, outcome string) {
	if r == nil {
		return
	}
	r.registrations.WithLabelValues(roType, outcome).Inc()
}

// ObserveLink counts one created link.
func (r *Recorder) ObserveLink(linkType string) {
	if r == nil {
		return
	}
	r.links.WithLabelValues(linkType).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// WriteTextfile writes every collected metric to path.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
