// Package tasbih is a dhikr tap counter with cycling targets.
package tasbih

import (
	"errors"
	"fmt"
)

// Targets are the selectable round sizes.
var Targets = []int{33, 99, 100, 500, 1000}

// DefaultTarget is the first target.
const DefaultTarget = 33

// ErrInvalidTarget is returned by SetTarget for a non-positive target.
var ErrInvalidTarget = errors.New("invalid tasbih target")

// Feedback is what a tap should feel like.
type Feedback int

const (
	// Tap is the light feedback of an ordinary count.
	Tap Feedback = iota
	// TargetReached marks a completed round.
	TargetReached
)

func (f Feedback) String() string {
	if f == TargetReached {
		return "target-reached"
	}
	return "tap"
}

// MarshalText lets Feedback appear as its name in JSON.
func (f Feedback) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Dhikr is a phrase with its customary count.
type Dhikr struct {
	Name      string `json:"name"`
	LocalName string `json:"local_name"`
	Count     int    `json:"count"`
}

// Dhikrs are the phrases offered alongside the counter.
var Dhikrs = []Dhikr{
	{Name: "Subhan Allah", LocalName: "সুবহান আল্লাহ", Count: 33},
	{Name: "Alhamdulillah", LocalName: "আলহামদুলিল্লাহ", Count: 33},
	{Name: "Allahu Akbar", LocalName: "আল্লাহু আকবর", Count: 33},
	{Name: "La ilaha illallah", LocalName: "লা ইলাহা ইল্লাল্লাহ", Count: 100},
	{Name: "Astaghfirullah", LocalName: "আস্তাগফিরুল্লাহ", Count: 100},
}

// Counter is a running total and the round size it is measured against.
// The zero value counts towards DefaultTarget.
type Counter struct {
	Count  int `json:"count"`
	Target int `json:"target"`
}

// New returns a counter restored from saved values. An invalid target falls
// back to DefaultTarget.
func New(count, target int) Counter {
	if count < 0 {
		count = 0
	}
	if target <= 0 {
		target = DefaultTarget
	}
	return Counter{Count: count, Target: target}
}

func (c *Counter) target() int {
	if c.Target <= 0 {
		return DefaultTarget
	}
	return c.Target
}

// Increment adds one and reports whether a round was completed.
func (c *Counter) Increment() Feedback {
	c.Count++
	if c.Count%c.target() == 0 {
		return TargetReached
	}
	return Tap
}

// Reset zeroes the count and keeps the target.
func (c *Counter) Reset() {
	c.Count = 0
}

// SetTarget changes the round size. The count is kept.
func (c *Counter) SetTarget(target int) error {
	if target <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTarget, target)
	}
	c.Target = target
	return nil
}

// NextTarget cycles to the following entry of Targets. A custom target moves
// to the first entry.
func (c *Counter) NextTarget() int {
	next := Targets[0]
	for i, t := range Targets {
		if t == c.target() {
			next = Targets[(i+1)%len(Targets)]
			break
		}
	}
	c.Target = next
	return next
}

// Current is the position within the current round.
func (c Counter) Current() int {
	return c.Count % c.target()
}

// CompletedSets is the number of full rounds.
func (c Counter) CompletedSets() int {
	return c.Count / c.target()
}

// Progress is the fraction of the current round done, in [0, 1).
func (c Counter) Progress() float64 {
	return float64(c.Current()) / float64(c.target())
}
