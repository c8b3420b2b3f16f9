package engine

import (
	"fmt"
	"log/slog"
	"time"
)

// Loop drives the simulation forward in real time. One step is one
// simulated day. All simulation mutation happens on the loop's goroutine;
// external readers consume published snapshots only.
type Loop struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval (default 1 second)
	Running  bool

	// OnDay runs after each simulated day completes.
	OnDay func(tick uint64)
}

// NewLoop creates a loop with default settings.
func NewLoop() *Loop {
	return &Loop{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run starts the loop. Blocks until Stop is called.
func (l *Loop) Run() {
	l.Running = true
	slog.Info("simulation loop started", "tick", l.Tick, "speed", l.Speed)

	for l.Running {
		if l.Speed <= 0 {
			// Paused. Sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		l.Tick++
		if l.OnDay != nil {
			l.OnDay(l.Tick)
		}

		// Sleep for the remainder of the interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(l.Interval) / l.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation loop stopped", "tick", l.Tick)
}

// Stop halts the loop after the current step.
func (l *Loop) Stop() {
	l.Running = false
}

// SimDate renders a tick as a human-readable city date. Days group into
// 30-day months and 12-month years starting at year 1.
func SimDate(tick uint64) string {
	days := tick
	day := days%30 + 1
	months := days / 30
	month := months%12 + 1
	year := months/12 + 1
	return fmt.Sprintf("Year %d, Month %d, Day %d", year, month, day)
}
