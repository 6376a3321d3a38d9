// Package sensor turns device heading readings into a stream of samples for
// the Qibla compass.
package sensor

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/smokyabdulrahman/salat/internal/geomath"
)

// DefaultInterval is the magnetometer update interval of the mobile app.
const DefaultInterval = 100 * time.Millisecond

// ErrUnavailable is returned when no heading source can be used.
var ErrUnavailable = errors.New("heading sensor unavailable")

// Sample is one heading reading in degrees clockwise from north.
type Sample struct {
	Heading float64   `json:"heading"`
	At      time.Time `json:"at"`
}

// HeadingFromMagnetometer converts a raw magnetometer x/y pair to a heading
// in [0, 360).
func HeadingFromMagnetometer(x, y float64) float64 {
	return geomath.Normalize360(geomath.Degrees(math.Atan2(y, x)))
}

// Source produces heading samples until ctx is cancelled or the underlying
// device stops. The returned channel is closed when the stream ends,
// including after cancellation while no reading is pending.
type Source interface {
	Samples(ctx context.Context) (<-chan Sample, error)
}

// Capability is either a usable Source or the reason there is none.
type Capability struct {
	Source Source
	Reason string
}

// Available wraps a working source.
func Available(src Source) Capability {
	return Capability{Source: src}
}

// Unavailable records why no source could be found.
func Unavailable(reason string) Capability {
	return Capability{Reason: reason}
}

// Ok reports whether a source is present.
func (c Capability) Ok() bool {
	return c.Source != nil
}

// Err returns ErrUnavailable wrapped with the reason, or nil.
func (c Capability) Err() error {
	if c.Ok() {
		return nil
	}
	if c.Reason == "" {
		return ErrUnavailable
	}
	return errors.Join(ErrUnavailable, errors.New(c.Reason))
}

// Latest conflates in so that at most one sample per interval is delivered,
// always the newest one seen. A pending sample is flushed when in closes.
func Latest(ctx context.Context, in <-chan Sample, interval time.Duration) <-chan Sample {
	if interval <= 0 {
		interval = DefaultInterval
	}
	out := make(chan Sample)

	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var pending *Sample
		emit := func() bool {
			if pending == nil {
				return true
			}
			select {
			case out <- *pending:
				pending = nil
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-in:
				if !ok {
					emit()
					return
				}
				pending = &s
			case <-ticker.C:
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}
