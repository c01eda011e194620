// Package metrics provides the Recorder interface, a noop implementation and
// an in-memory counter.
package metrics

import (
	"sync/atomic"
	"time"
)

// Recorder is the interface for recording converter activity.
type Recorder interface {
	// RecordScope counts a scoped serializer built for one collection call.
	RecordScope(converter string)
	// RecordElement counts one element encoded or decoded.
	RecordElement(converter, op string)
	RecordLatency(converter, op string, d time.Duration)
	RecordError(converter, op string)
}

// Noop is a Recorder that discards all data.
type Noop struct{}

func (Noop) RecordScope(converter string)                        {}
func (Noop) RecordElement(converter, op string)                  {}
func (Noop) RecordLatency(converter, op string, d time.Duration) {}
func (Noop) RecordError(converter, op string)                    {}

// Counter is a Recorder that keeps running totals. Safe for concurrent use.
type Counter struct {
	scopes   atomic.Int64
	elements atomic.Int64
	errors   atomic.Int64
	latency  atomic.Int64
}

func (c *Counter) RecordScope(string)           { c.scopes.Add(1) }
func (c *Counter) RecordElement(string, string) { c.elements.Add(1) }
func (c *Counter) RecordError(string, string)   { c.errors.Add(1) }

func (c *Counter) RecordLatency(_, _ string, d time.Duration) {
	c.latency.Add(int64(d))
}

// Snapshot is a point-in-time copy of a Counter.
type Snapshot struct {
	Scopes   int64
	Elements int64
	Errors   int64
	Latency  time.Duration
}

// Snapshot returns the current totals.
func (c *Counter) Snapshot() Snapshot {
	return Snapshot{
		Scopes:   c.scopes.Load(),
		Elements: c.elements.Load(),
		Errors:   c.errors.Load(),
		Latency:  time.Duration(c.latency.Load()),
	}
}
