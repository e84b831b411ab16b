package metrics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusName formats an identifier as a Prometheus counter name,
// e.g. "job-acquired-success" becomes "<namespace>_job_acquired_success_total".
func PrometheusName(namespace string, n Name) string {
	base := strings.ReplaceAll(string(n), "-", "_") + "_total"
	if namespace == "" {
		return base
	}
	return namespace + "_" + base
}

// Counters exposes one Prometheus counter per catalogue entry.
type Counters struct {
	catalogue *Catalogue
	counters  map[Name]prometheus.Counter
}

// NewCounters registers a counter for every entry of cat with reg.
func NewCounters(cat *Catalogue, reg prometheus.Registerer, namespace string) (*Counters, error) {
	if cat == nil {
		return nil, errors.New("catalogue is required")
	}
	if reg == nil {
		return nil, errors.New("registerer is required")
	}

	c := &Counters{
		catalogue: cat,
		counters:  make(map[Name]prometheus.Counter, cat.Len()),
	}
	for _, e := range cat.entries {
		counter := prometheus.NewCounter(prometheus.CounterOpts{
			Name:        PrometheusName(namespace, e.Name),
			Help:        e.Description,
			ConstLabels: prometheus.Labels{"metric": string(e.Name)},
		})
		if err := reg.Register(counter); err != nil {
			return nil, fmt.Errorf("register %s: %w", e.Name, err)
		}
		c.counters[e.Name] = counter
	}
	return c, nil
}

// Inc adds one to the counter for n.
func (c *Counters) Inc(n Name) error {
	return c.Add(n, 1)
}

// Add adds delta to the counter for n. Negative deltas are rejected.
func (c *Counters) Add(n Name, delta float64) error {
	if c == nil {
		return errors.New("nil counters")
	}
	if delta < 0 {
		return fmt.Errorf("counter %s cannot decrease", n)
	}
	counter, ok := c.counters[n]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownName, n)
	}
	counter.Add(delta)
	return nil
}

// Catalogue returns the catalogue the counters were built from.
func (c *Counters) Catalogue() *Catalogue {
	if c == nil {
		return nil
	}
	return c.catalogue
}
