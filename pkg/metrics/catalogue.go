// Package metrics holds the vocabulary of counters reported by job acquisition. The
// identifiers are a stable external contract: renaming one breaks every consumer that stores
// or aggregates by name.
package metrics

import (
	"errors"
	"fmt"
	"strings"
)

// Name is the wire identifier of a counter.
type Name string

const (
	ActivityInstanceStart Name = "activity-instance-start"

	// JobAcquisitionAttempt counts job acquisition cycles.
	JobAcquisitionAttempt Name = "job-acquisition-attempt"
	// JobAcquiredSuccess counts jobs selected and locked.
	JobAcquiredSuccess Name = "job-acquired-success"
	// JobAcquiredFailure counts jobs selected whose lock failed.
	JobAcquiredFailure Name = "job-acquired-failure"

	JobSuccessful Name = "job-successful"
	JobFailed     Name = "job-failed"

	// JobLockedExclusive counts exclusive jobs created during job execution that are locked
	// and executed immediately.
	JobLockedExclusive Name = "job-locked-exclusive"
)

// ErrUnknownName reports an identifier that is not part of a catalogue.
var ErrUnknownName = errors.New("unknown metric name")

// Entry describes one counter.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Name        Name   `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Catalogue is an immutable set of counter entries. It is safe for concurrent use.
type Catalogue struct {
	entries []Entry
	byName  map[Name]int
}

var defaultCatalogue = mustCatalogue(
	Entry{Key: "ActivityInstanceStart", Name: ActivityInstanceStart, Description: "Activity instances started."},
	Entry{Key: "JobAcquisitionAttempt", Name: JobAcquisitionAttempt, Description: "Job acquisition cycles performed."},
	Entry{Key: "JobAcquiredSuccess", Name: JobAcquiredSuccess, Description: "Jobs selected and locked."},
	Entry{Key: "JobAcquiredFailure", Name: JobAcquiredFailure, Description: "Jobs selected whose lock failed."},
	Entry{Key: "JobSuccessful", Name: JobSuccessful, Description: "Jobs executed successfully."},
	Entry{Key: "JobFailed", Name: JobFailed, Description: "Jobs whose execution failed."},
	Entry{Key: "JobLockedExclusive", Name: JobLockedExclusive, Description: "Exclusive jobs locked and executed immediately."},
)

// Default returns the process-wide job acquisition catalogue.
func Default() *Catalogue {
	return defaultCatalogue
}

// NewCatalogue validates entries and returns a catalogue preserving their order.
// Identifiers must be non-empty, lower-case kebab-case and unique.
func NewCatalogue(entries ...Entry) (*Catalogue, error) {
	if len(entries) == 0 {
		return nil, errors.New("catalogue requires at least one entry")
	}

	c := &Catalogue{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[Name]int, len(entries)),
	}
	for _, e := range entries {
		if err := validateName(e.Name); err != nil {
			return nil, err
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("duplicate metric name %q", e.Name)
		}
		if e.Key == "" {
			e.Key = string(e.Name)
		}
		c.byName[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

func mustCatalogue(entries ...Entry) *Catalogue {
	c, err := NewCatalogue(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

func validateName(n Name) error {
	s := string(n)
	if s == "" {
		return errors.New("metric name is required")
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") || strings.Contains(s, "--") {
		return fmt.Errorf("metric name %q must be kebab-case", s)
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return fmt.Errorf("metric name %q must be kebab-case", s)
		}
	}
	return nil
}

// Entries returns a copy of the catalogue entries in declaration order.
func (c *Catalogue) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Names returns the identifiers in declaration order.
func (c *Catalogue) Names() []Name {
	if c == nil {
		return nil
	}
	out := make([]Name, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Name)
	}
	return out
}

// Lookup parses an identifier into its entry.
func (c *Catalogue) Lookup(id string) (Entry, error) {
	if c == nil {
		return Entry{}, errors.New("nil catalogue")
	}
	i, ok := c.byName[Name(strings.TrimSpace(id))]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownName, id)
	}
	return c.entries[i], nil
}

// Contains reports whether n belongs to the catalogue. Surrounding whitespace is ignored,
// as in Lookup.
func (c *Catalogue) Contains(n Name) bool {
	if c == nil {
		return false
	}
	_, ok := c.byName[Name(strings.TrimSpace(string(n)))]
	return ok
}

// Len is the number of entries.
func (c *Catalogue) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
