package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/salat/internal/geomath"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

var london = geomath.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

// sampleResponse returns a valid Al Adhan API response for London.
func sampleResponse() Response {
	return Response{
		Code:   200,
		Status: "OK",
		Data: Data{
			Timings: Timings{
				Fajr:       "05:17",
				Sunrise:    "06:48",
				Dhuhr:      "12:13",
				Asr:        "15:02",
				Sunset:     "17:39",
				Maghrib:    "17:39",
				Isha:       "19:10",
				Imsak:      "05:07",
				Midnight:   "00:14",
				Firstthird: "22:02",
				Lastthird:  "02:25",
			},
			Date: DateInfo{
				Hijri: HijriDate{Date: "11-09-1447", Day: "11", Month: HijriMonth{Number: 9, En: "Ramaḍān"}, Year: "1447"},
			},
			Meta: Meta{
				Latitude:  london.Latitude,
				Longitude: london.Longitude,
				Timezone:  "Europe/London",
				Method:    MethodInfo{ID: 2, Name: "ISNA"},
				School:    "STANDARD",
			},
		},
	}
}

// serve starts a fake API and points a client at it.
func serve(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient()
	c.BaseURL = srv.URL
	return c
}

func isna() prayer.CalculationParameters {
	m, _ := prayer.MethodByID(2)
	return m.Params()
}

func TestNewClient(t *testing.T) {
	if c := NewClient(); c.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL, defaultBaseURL)
	}
}

func TestQuery(t *testing.T) {
	params := prayer.DefaultParameters()
	q := Query(london, params)

	want := map[string]string{
		"latitude":  "51.507400",
		"longitude": "-0.127800",
		"method":    "1",
		"school":    "1",
		"tune":      "",
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}

	params.Offsets = prayer.Offsets{Fajr: 1, Dhuhr: 2, Asr: -3, Maghrib: 4, Isha: 5}
	if got := Query(london, params).Get("tune"); got != "0,1,0,2,-3,4,0,5,0" {
		t.Errorf("tune = %q", got)
	}
}

func TestFetch(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/timings/28-02-2026" {
			t.Errorf("path = %s, want /timings/28-02-2026", r.URL.Path)
		}
		if got := r.URL.Query().Get("method"); got != "2" {
			t.Errorf("method = %q, want 2", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleResponse())
	})

	date := time.Date(2026, 2, 28, 22, 30, 0, 0, time.UTC)
	got, err := c.Fetch(context.Background(), date, london, isna())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Data.Timings.Fajr != "05:17" {
		t.Errorf("Fajr = %q, want 05:17", got.Data.Timings.Fajr)
	}
	if got.Data.Meta.Timezone != "Europe/London" {
		t.Errorf("Timezone = %q, want Europe/London", got.Data.Meta.Timezone)
	}
}

func TestFetch_UsesCalendarDateOfLocation(t *testing.T) {
	var path string
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewEncoder(w).Encode(sampleResponse())
	})

	// 20:00 UTC on the 5th is already the 6th in Dhaka.
	date := time.Date(2026, 3, 5, 20, 0, 0, 0, time.UTC).In(time.FixedZone("BDT", 6*3600))
	if _, err := c.Fetch(context.Background(), date, london, isna()); err != nil {
		t.Fatal(err)
	}
	if path != "/timings/06-03-2026" {
		t.Errorf("path = %s, want the DD-MM-YYYY date of the given zone", path)
	}
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			"http status",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			},
			"503",
		},
		{
			"invalid json",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("not json")) },
			"decode",
		},
		{
			"api error code",
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(Response{Code: 400, Status: "Bad Request"})
			},
			"400",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := serve(t, tt.handler)
			_, err := c.Fetch(context.Background(), time.Now(), london, isna())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	c := NewClient()
	c.BaseURL = "http://127.0.0.1:1" // nothing listening

	if _, err := c.Fetch(context.Background(), time.Now(), london, isna()); err == nil {
		t.Fatal("expected error for connection refused")
	}
}

func TestFetch_Cancelled(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sampleResponse())
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Fetch(ctx, time.Now(), london, isna()); err == nil {
		t.Fatal("expected error for a cancelled context")
	}
}
