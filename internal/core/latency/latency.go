// Package latency simulates the network round-trip of the mock backend services.
package latency

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Simulator waits a random duration within [min, max] before a mock call resolves.
// The zero value never waits.
type Simulator struct {
	min, max time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Simulator drawing delays uniformly from [min, max].
func New(min, max time.Duration) *Simulator {
	if max < min {
		max = min
	}
	return &Simulator{
		min: min,
		max: max,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Fixed returns a Simulator that always waits d.
func Fixed(d time.Duration) *Simulator {
	return New(d, d)
}

// None returns a Simulator that resolves immediately.
func None() *Simulator {
	return &Simulator{}
}

// Next returns the delay the next Wait would use.
func (s *Simulator) Next() time.Duration {
	if s == nil || s.max <= 0 {
		return 0
	}
	if s.max == s.min {
		return s.min
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.min + time.Duration(s.rnd.Int63n(int64(s.max-s.min)+1))
}

// Wait blocks for the simulated delay or until ctx is done.
func (s *Simulator) Wait(ctx context.Context) error {
	d := s.Next()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
