// Package health aggregates dependency probes for the HTTP and gRPC health endpoints.
package health

import (
	"context"
	"fmt"
	"sort"
	"time"
)

type Probe func(ctx context.Context) error

type Checker struct {
	probes  map[string]Probe
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Checker{probes: make(map[string]Probe), timeout: timeout}
}

// Add registers a probe under name. Not safe for use after serving starts.
func (c *Checker) Add(name string, p Probe) *Checker {
	c.probes[name] = p
	return c
}

// Check runs every probe and returns the first failure in name order.
func (c *Checker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	names := make([]string, 0, len(c.probes))
	for n := range c.probes {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if err := c.probes[n](ctx); err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
	}
	return nil
}
