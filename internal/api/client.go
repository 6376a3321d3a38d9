// Package api is a client for the Al Adhan prayer times API, used as a
// reference to check locally computed schedules against.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/salat/internal/geomath"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// Client talks to the Al Adhan API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Exported for testing with httptest.
	BaseURL string
}

// NewClient returns a client for the public API with a 10 second timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    defaultBaseURL,
	}
}

// Tune renders offsets as the API's tune parameter:
// imsak, fajr, sunrise, dhuhr, asr, maghrib, sunset, isha, midnight.
func Tune(o prayer.Offsets) string {
	return fmt.Sprintf("0,%d,0,%d,%d,%d,0,%d,0", o.Fajr, o.Dhuhr, o.Asr, o.Maghrib, o.Isha)
}

// Query builds the request parameters matching params at a coordinate.
// The madhab maps onto the API's school: 0 standard, 1 Hanafi.
func Query(at geomath.Coordinate, params prayer.CalculationParameters) url.Values {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(at.Latitude, 'f', 6, 64))
	q.Set("longitude", strconv.FormatFloat(at.Longitude, 'f', 6, 64))
	q.Set("method", strconv.Itoa(params.Method))
	q.Set("school", strconv.Itoa(int(params.Madhab)))
	if params.Offsets != (prayer.Offsets{}) {
		q.Set("tune", Tune(params.Offsets))
	}
	return q
}

// Fetch returns the reference timings for the calendar date of date.
func (c *Client) Fetch(ctx context.Context, date time.Time, at geomath.Coordinate, params prayer.CalculationParameters) (*Response, error) {
	reqURL := fmt.Sprintf("%s/timings/%s?%s", c.BaseURL, date.Format("02-01-2006"), Query(at, params).Encode())
	log.Debug().Str("url", reqURL).Msg("al adhan request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	if out.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", out.Code, out.Status)
	}
	return &out, nil
}
