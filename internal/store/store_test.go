package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/smokyabdulrahman/salat/internal/model"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "salat.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// tick makes s.now advance by one second per call from a fixed start.
func tick(s *DB) {
	at := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		at = at.Add(time.Second)
		return at
	}
}

func ptr[T any](v T) *T { return &v }

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn        string
		wantDriver string
		wantSource string
		wantErr    bool
	}{
		{"postgres://u:p@localhost/salat?sslmode=disable", "postgres", "postgres://u:p@localhost/salat?sslmode=disable", false},
		{"postgresql://localhost/salat", "postgres", "postgresql://localhost/salat", false},
		{"sqlite:///var/lib/salat.db", "sqlite", "/var/lib/salat.db", false},
		{"salat.db", "sqlite", "salat.db", false},
		{":memory:", "sqlite", ":memory:", false},
		{"mysql://localhost/salat", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			driver, source, err := ParseDSN(tt.dsn)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDSN(%q) expected error", tt.dsn)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDSN(%q) unexpected error: %v", tt.dsn, err)
			}
			if driver != tt.wantDriver || source != tt.wantSource {
				t.Errorf("ParseDSN(%q) = %q, %q, want %q, %q", tt.dsn, driver, source, tt.wantDriver, tt.wantSource)
			}
		})
	}
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salat.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		if s.Driver() != "sqlite" {
			t.Errorf("Driver() = %q, want sqlite", s.Driver())
		}
		s.Close()
	}
}

func TestPreferences(t *testing.T) {
	s := openTest(t)
	tick(s)
	ctx := context.Background()

	if _, err := s.GetPreferences(ctx, "device-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPreferences on empty store: err = %v, want ErrNotFound", err)
	}

	p := &model.Preferences{UserID: "device-1", Latitude: ptr(23.8103), Longitude: ptr(90.4125), LocationName: ptr("Dhaka")}
	if err := s.SavePreferences(ctx, p); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got, err := s.GetPreferences(ctx, "device-1")
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	c, ok := got.Coordinate()
	if !ok || c.Latitude != 23.8103 || c.Longitude != 90.4125 {
		t.Errorf("Coordinate() = %v, %v", c, ok)
	}
	if got.LocationName == nil || *got.LocationName != "Dhaka" {
		t.Errorf("LocationName = %v, want Dhaka", got.LocationName)
	}
	if !got.UpdatedAt.Equal(p.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, p.UpdatedAt)
	}

	// Upsert replaces the row, including clearing the location.
	if err := s.SavePreferences(ctx, &model.Preferences{UserID: "device-1"}); err != nil {
		t.Fatalf("SavePreferences (update): %v", err)
	}
	got, err = s.GetPreferences(ctx, "device-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.Coordinate(); ok {
		t.Errorf("expected location cleared, got %v/%v", got.Latitude, got.Longitude)
	}
}

func TestMosques(t *testing.T) {
	s := openTest(t)
	tick(s)
	ctx := context.Background()

	first := &model.Mosque{UserID: "device-1", Name: "Baitul Mukarram", Address: "Topkhana Rd", Latitude: 23.7292, Longitude: 90.4125}
	second := &model.Mosque{UserID: "device-1", Name: "Star Mosque", Latitude: 23.7158, Longitude: 90.4010}
	other := &model.Mosque{UserID: "device-2", Name: "East London Mosque", Latitude: 51.5175, Longitude: -0.0652}
	for _, m := range []*model.Mosque{first, second, other} {
		if err := s.AddMosque(ctx, m); err != nil {
			t.Fatalf("AddMosque(%s): %v", m.Name, err)
		}
		if m.ID == "" {
			t.Errorf("AddMosque(%s) did not assign an ID", m.Name)
		}
	}

	list, err := s.ListMosques(ctx, "device-1")
	if err != nil {
		t.Fatalf("ListMosques: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListMosques returned %d rows, want 2", len(list))
	}
	if list[0].Name != "Star Mosque" || list[1].Name != "Baitul Mukarram" {
		t.Errorf("ListMosques order = %s, %s; want newest first", list[0].Name, list[1].Name)
	}
	if list[1].Address != "Topkhana Rd" {
		t.Errorf("Address = %q", list[1].Address)
	}

	if err := s.DeleteMosque(ctx, "device-2", first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting another device's mosque: err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteMosque(ctx, "device-1", first.ID); err != nil {
		t.Fatalf("DeleteMosque: %v", err)
	}
	if err := s.DeleteMosque(ctx, "device-1", first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}

	list, err = s.ListMosques(ctx, "device-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != second.ID {
		t.Errorf("after delete: %+v", list)
	}
}

func TestListMosques_EmptyIsNotNil(t *testing.T) {
	s := openTest(t)
	list, err := s.ListMosques(context.Background(), "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("ListMosques = %#v, want empty slice", list)
	}
}

func TestTasbih(t *testing.T) {
	s := openTest(t)
	tick(s)
	ctx := context.Background()

	if _, err := s.GetTasbih(ctx, "device-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetTasbih on empty store: err = %v, want ErrNotFound", err)
	}

	if err := s.SaveTasbih(ctx, &model.TasbihCount{UserID: "device-1", Count: 12, Target: 33}); err != nil {
		t.Fatalf("SaveTasbih: %v", err)
	}
	if err := s.SaveTasbih(ctx, &model.TasbihCount{UserID: "device-1", Count: 40, Target: 99}); err != nil {
		t.Fatalf("SaveTasbih (update): %v", err)
	}

	got, err := s.GetTasbih(ctx, "device-1")
	if err != nil {
		t.Fatalf("GetTasbih: %v", err)
	}
	if got.Count != 40 || got.Target != 99 {
		t.Errorf("GetTasbih = %+v, want count 40 target 99", got)
	}
}
