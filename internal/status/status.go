// Package status tracks what the controller has done since startup and
// renders it as JSON for the console and heartbeat logs.
// It is single-goroutine: the run loop owns the Tracker.
package status

import (
	"time"

	"github.com/sweeney/office-controller/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs       int64
	HeartbeatMs  int64
	Chip         string
	ClockSource  string
	Pins         logic.Pins
	ServoPin     int
	LuxThreshold float64
	BlindsWindow string // e.g. "08:00-20:00"
}

// Snapshot is a point-in-time view of daemon state.
type Snapshot struct {
	State     logic.State
	Counts    logic.EventCounts
	Errors    int
	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker accumulates controller state between heartbeats.
type Tracker struct {
	snap          Snapshot
	lastHeartbeat time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		lastHeartbeat: startTime,
	}
}

// Update records the controller state and tallies its transitions.
// It returns the transitions from the previously recorded state.
func (t *Tracker) Update(s logic.State, now time.Time) []logic.Event {
	events := logic.Changes(t.snap.State, s, now)
	t.snap.State = s
	t.snap.Counts.Add(events)
	return events
}

// RecordError counts a failed rule invocation.
func (t *Tracker) RecordError() {
	t.snap.Errors++
}

// SetConfig replaces the displayed config.
func (t *Tracker) SetConfig(cfg Config) {
	t.snap.Config = cfg
}

// Snapshot returns a copy of the tracked state as of now.
func (t *Tracker) Snapshot(now time.Time) Snapshot {
	s := t.snap
	s.Now = now
	return s
}

// CheckHeartbeat reports whether interval has elapsed since the last
// heartbeat (or startup). An interval <= 0 disables heartbeats.
func (t *Tracker) CheckHeartbeat(now time.Time, interval time.Duration) bool {
	if interval <= 0 {
		return false
	}
	if now.Sub(t.lastHeartbeat) < interval {
		return false
	}
	t.lastHeartbeat = now
	return true
}
