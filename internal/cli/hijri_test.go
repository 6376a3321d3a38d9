package cli

import (
	"strings"
	"testing"
)

func TestHijri(t *testing.T) {
	setup(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"today", []string{"hijri"}, []string{"11 Ramadan 1447 AH", "রমজান", "Month of Ramadan"}},
		{"eid", []string{"hijri", "2026-03-20"}, []string{"1 Shawwal 1447 AH", "Eid al-Fitr"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustRun(t, with(dhaka, tt.args...)...)
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestHijri_JSON(t *testing.T) {
	setup(t)
	var got hijriJSON
	decodeJSON(t, mustRun(t, with(dhaka, "hijri", "2026-03-20", "--json")...), &got)

	if got.Hijri.Day != 1 || got.Hijri.Month != 10 || got.Hijri.Year != 1447 {
		t.Errorf("hijri = %+v, want 1/10/1447", got.Hijri)
	}
	if got.Gregorian != "2026-03-20" || got.LocalMonth != "শাওয়াল" {
		t.Errorf("got %+v", got)
	}
	if len(got.Observances) != 1 || got.Observances[0] != "Eid al-Fitr" {
		t.Errorf("observances = %v, want [Eid al-Fitr]", got.Observances)
	}
}

func TestHijri_InvalidDate(t *testing.T) {
	setup(t)
	if _, err := run(t, nil, "hijri", "20-03-2026"); err == nil {
		t.Error("expected error for DD-MM-YYYY date")
	}
}

func TestToGregorian(t *testing.T) {
	setup(t)

	if got := mustRun(t, "hijri", "to-gregorian", "1447", "10", "1"); got != "Fri 20 Mar 2026\n" {
		t.Errorf("to-gregorian = %q, want %q", got, "Fri 20 Mar 2026\n")
	}

	for _, args := range [][]string{
		{"1447", "13", "1"},
		{"1447", "2", "30"},
		{"0", "1", "1"},
		{"1447", "x", "1"},
	} {
		if _, err := run(t, nil, append([]string{"hijri", "to-gregorian"}, args...)...); err == nil {
			t.Errorf("to-gregorian %v: expected error", args)
		}
	}
}

func TestCalendar(t *testing.T) {
	setup(t)
	var got []occurrenceJSON
	decodeJSON(t, mustRun(t, with(dhaka, "calendar", "-n", "2", "--json")...), &got)

	want := []occurrenceJSON{
		{Name: "Laylat al-Qadr", LocalName: "শবে কদর", Hijri: "27 Ramadan 1447 AH", Gregorian: "2026-03-16", DaysLeft: 16},
		{Name: "Eid al-Fitr", LocalName: "ঈদুল ফিতর", Hijri: "1 Shawwal 1447 AH", Gregorian: "2026-03-20", DaysLeft: 20},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d observances, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("calendar[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	out := mustRun(t, with(dhaka, "calendar")...)
	if !strings.Contains(out, "Mon 16 Mar 2026") || !strings.Contains(out, "16d") {
		t.Errorf("calendar output:\n%s", out)
	}

	if _, err := run(t, nil, with(dhaka, "calendar", "--count", "0")...); err == nil {
		t.Error("calendar --count 0: expected error")
	}
}
