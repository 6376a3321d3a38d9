package sensor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/salat/internal/geomath"
)

// ReaderSource reads one reading per line: either a heading in degrees or a
// magnetometer "x y" pair. Blank lines and lines starting with # are skipped.
// If R is an io.Closer it is closed when the context passed to Samples is
// cancelled, which unblocks a pending read.
type ReaderSource struct {
	R   io.Reader
	Now func() time.Time
}

// NewReaderSource returns a source reading from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{R: r, Now: time.Now}
}

// ParseLine parses a single reading.
func ParseLine(line string) (float64, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	switch len(fields) {
	case 1:
		h, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, fmt.Errorf("parsing heading %q: %w", fields[0], err)
		}
		return geomath.Normalize360(h), nil
	case 2:
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, fmt.Errorf("parsing x %q: %w", fields[0], err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0, fmt.Errorf("parsing y %q: %w", fields[1], err)
		}
		return HeadingFromMagnetometer(x, y), nil
	default:
		return 0, fmt.Errorf("expected \"heading\" or \"x y\", got %q", line)
	}
}

// Samples starts reading in the background.
func (s *ReaderSource) Samples(ctx context.Context) (<-chan Sample, error) {
	if s.R == nil {
		return nil, ErrUnavailable
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}

	out := make(chan Sample)
	done := make(chan struct{})
	if c, ok := s.R.(io.Closer); ok {
		go func() {
			select {
			case <-ctx.Done():
				if err := c.Close(); err != nil {
					log.Debug().Err(err).Msg("closing heading stream")
				}
			case <-done:
			}
		}()
	}
	go func() {
		defer close(out)
		defer close(done)
		scanner := bufio.NewScanner(s.R)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			h, err := ParseLine(line)
			if err != nil {
				log.Warn().Err(err).Msg("skipping heading line")
				continue
			}
			select {
			case out <- Sample{Heading: h, At: now()}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("reading heading stream")
		}
	}()
	return out, nil
}
