package geo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smokyabdulrahman/salat/internal/geomath"
)

// fakeIPAPI points geoAPIURL at h for the duration of the test.
func fakeIPAPI(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	orig := geoAPIURL
	geoAPIURL = srv.URL
	t.Cleanup(func() { geoAPIURL = orig })
}

func reply(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

func TestDetectLocation(t *testing.T) {
	fakeIPAPI(t, reply(ipAPIResponse{
		Status:   "success",
		Lat:      21.4225,
		Lon:      39.8262,
		City:     "Mecca",
		Country:  "Saudi Arabia",
		Timezone: "Asia/Riyadh",
	}))

	loc, err := DetectLocation()
	if err != nil {
		t.Fatalf("DetectLocation: %v", err)
	}
	want := Location{Latitude: 21.4225, Longitude: 39.8262, City: "Mecca", Country: "Saudi Arabia", Timezone: "Asia/Riyadh"}
	if *loc != want {
		t.Errorf("DetectLocation = %+v, want %+v", *loc, want)
	}
}

func TestDetectLocation_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{"failed status", reply(ipAPIResponse{Status: "fail", Message: "reserved range"}), "reserved range"},
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}, "500"},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("{broken")) }, "decode"},
		{"out of range coordinate", reply(ipAPIResponse{Status: "success", Lat: 123, Lon: 10}), "latitude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeIPAPI(t, tt.handler)
			_, err := DetectLocation()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDetectLocation_Unreachable(t *testing.T) {
	orig := geoAPIURL
	geoAPIURL = "http://127.0.0.1:1"
	t.Cleanup(func() { geoAPIURL = orig })

	if _, err := DetectLocation(); err == nil {
		t.Fatal("expected error when the service is unreachable")
	}
}

func TestLocation_Name(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{City: "Dhaka", Country: "Bangladesh"}, "Dhaka, Bangladesh"},
		{Location{City: "Dhaka"}, "Dhaka"},
		{Location{Country: "Bangladesh"}, "Bangladesh"},
		{Location{}, ""},
	}
	for _, tt := range tests {
		if got := tt.loc.Name(); got != tt.want {
			t.Errorf("%+v.Name() = %q, want %q", tt.loc, got, tt.want)
		}
	}
}

func TestFallback(t *testing.T) {
	want := geomath.Coordinate{Latitude: 23.8103, Longitude: 90.4125}
	if got := Fallback.Coordinate(); got != want {
		t.Errorf("Fallback.Coordinate() = %+v, want %+v", got, want)
	}
	if Fallback.Timezone != "Asia/Dhaka" {
		t.Errorf("Fallback.Timezone = %q", Fallback.Timezone)
	}
}
