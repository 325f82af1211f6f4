// Copyright (c) 2026 Gavella. All rights reserved.

/*
Package clock provides the injectable time capability used by every component
that needs "now".

Architecture:

  - Clock: The minimal contract — a monotonic current-time query.
  - SystemClock: Wall-clock time expressed in a site's fixed UTC offset.
  - FakeClock: Deterministic clock for tests; advance it instead of sleeping.

All expiration logic in Gavella (session expiry, auction deadlines) is a lazy
comparison of stored timestamps against Clock.Now at the moment of use. Nothing
ever blocks waiting for time to pass, so a test harness can fast-forward a
FakeClock to simulate hours in microseconds.
*/
package clock

import (
	"fmt"
	"sync"
	"time"
)

// Clock supplies the current time. It is always passed in as a dependency,
// never reached for as a process-global.
type Clock interface {
	Now() time.Time
}

// # System Clock

// SystemClock reads the operating system clock and reports it in a fixed
// UTC-offset zone, matching the owning site's timezone configuration.
type SystemClock struct {
	location *time.Location
}

// NewSystemClock creates a SystemClock for the given UTC offset in hours.
func NewSystemClock(utcOffsetHours int) *SystemClock {
	name := fmt.Sprintf("UTC%+d", utcOffsetHours)
	return &SystemClock{
		location: time.FixedZone(name, utcOffsetHours*3600),
	}
}

// Now returns the current wall-clock time in the clock's zone.
func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.location)
}

// # Fake Clock

// FakeClock is deterministic and test-friendly. It only moves when told to.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFakeClock creates a FakeClock frozen at the given start instant.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

// Now returns the frozen instant.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to an absolute instant.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
