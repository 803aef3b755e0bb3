// Package uptime tracks how long the current process has been running.
package uptime

import (
	"fmt"
	"math"
	"time"
)

// Default is captured once when the package is initialized and is shared by
// every handler of the process.
var Default = New()

type Tracker struct {
	start time.Time
	now   func() time.Time
}

func New() *Tracker {
	return &Tracker{start: time.Now(), now: time.Now}
}

// NewWithClock builds a tracker with a fixed start and an injectable clock.
func NewWithClock(start time.Time, now func() time.Time) *Tracker {
	return &Tracker{start: start, now: now}
}

func (t *Tracker) Started() time.Time {
	return t.start
}

// Elapsed is computed against the monotonic reading of the start instant,
// so wall clock adjustments never make it go backwards.
func (t *Tracker) Elapsed() time.Duration {
	d := t.now().Sub(t.start)
	if d < 0 {
		return 0
	}
	return d
}

// Seconds returns the elapsed time in seconds, rounded to two decimals.
func (t *Tracker) Seconds() float64 {
	return Round(t.Elapsed())
}

func (t *Tracker) HumanReadable() string {
	return HumanReadable(t.Elapsed())
}

func Round(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

// HumanReadable renders d as "<H>h <M>m <S>s". Hours are not folded into days.
func HumanReadable(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
}
