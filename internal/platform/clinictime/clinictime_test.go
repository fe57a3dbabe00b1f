package clinictime

import (
	"errors"
	"testing"
	"time"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestNormalize_RoundTrip(t *testing.T) {
	loc := mustLoc(t, "Asia/Kolkata") // UTC+5:30, ahead of UTC

	n, err := Normalize(loc, "2024-06-10", "09:00:00", "10:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	date, clock := Localize(loc, n.Start)
	if date != "2024-06-10" || clock != "09:00:00" {
		t.Errorf("start round-trip = %s %s, want 2024-06-10 09:00:00", date, clock)
	}
	date, clock = Localize(loc, n.End)
	if date != "2024-06-10" || clock != "10:00:00" {
		t.Errorf("end round-trip = %s %s, want 2024-06-10 10:00:00", date, clock)
	}
}

func TestNormalize_ShiftsUTCDayBackward(t *testing.T) {
	loc := mustLoc(t, "Asia/Kolkata")

	// 02:00 local on the 10th is 20:30 UTC on the 9th.
	n, err := Normalize(loc, "2024-06-10", "02:00:00", "03:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := n.Date.Format(DateLayout); got != "2024-06-09" {
		t.Errorf("UTC day bucket = %s, want 2024-06-09", got)
	}
	if got := n.Start.Format("15:04"); got != "20:30" {
		t.Errorf("UTC start = %s, want 20:30", got)
	}
	// And back.
	date, clock := Localize(loc, n.Start)
	if date != "2024-06-10" || clock != "02:00:00" {
		t.Errorf("round-trip = %s %s, want 2024-06-10 02:00:00", date, clock)
	}
}

func TestNormalize_ShiftsUTCDayForward(t *testing.T) {
	loc := mustLoc(t, "America/New_York") // behind UTC

	// 22:00 local on the 10th is 02:00 UTC on the 11th (EDT, June).
	n, err := Normalize(loc, "2024-06-10", "22:00:00", "23:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := n.Date.Format(DateLayout); got != "2024-06-11" {
		t.Errorf("UTC day bucket = %s, want 2024-06-11", got)
	}
}

func TestNormalize_ShortClockLayout(t *testing.T) {
	loc := mustLoc(t, "Asia/Kolkata")
	n, err := Normalize(loc, "2024-06-10", "09:00", "09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.End.Sub(n.Start) != 30*time.Minute {
		t.Errorf("interval = %v, want 30m", n.End.Sub(n.Start))
	}
}

func TestNormalize_Invalid(t *testing.T) {
	loc := mustLoc(t, "Asia/Kolkata")
	cases := []struct {
		name              string
		date, start, end string
	}{
		{"missing date", "", "09:00:00", "10:00:00"},
		{"missing start", "2024-06-10", "", "10:00:00"},
		{"missing end", "2024-06-10", "09:00:00", ""},
		{"garbage date", "June 10th", "09:00:00", "10:00:00"},
		{"garbage time", "2024-06-10", "9am", "10:00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(loc, tc.date, tc.start, tc.end)
			if !errors.Is(err, ErrInvalidTimeInput) {
				t.Errorf("err = %v, want ErrInvalidTimeInput", err)
			}
		})
	}
}

func TestWeekday(t *testing.T) {
	wd, err := Weekday("2024-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wd != time.Monday {
		t.Errorf("weekday = %v, want Monday", wd)
	}
	if _, err := Weekday("not-a-date"); !errors.Is(err, ErrInvalidTimeInput) {
		t.Errorf("err = %v, want ErrInvalidTimeInput", err)
	}
}

func TestClockMinute(t *testing.T) {
	m, err := ClockMinute("09:30:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != 570 {
		t.Errorf("minute = %d, want 570", m)
	}
	m, err = ClockMinute("17:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != 1020 {
		t.Errorf("minute = %d, want 1020", m)
	}
	if _, err := ClockMinute("25:99"); !errors.Is(err, ErrInvalidTimeInput) {
		t.Errorf("err = %v, want ErrInvalidTimeInput", err)
	}
}

func TestFormatClockMinute(t *testing.T) {
	if got := FormatClockMinute(570); got != "09:30:00" {
		t.Errorf("got %s, want 09:30:00", got)
	}
	if got := FormatClockMinute(0); got != "00:00:00" {
		t.Errorf("got %s, want 00:00:00", got)
	}
}

func TestMinuteOf(t *testing.T) {
	loc := mustLoc(t, "Asia/Kolkata")
	n, err := Normalize(loc, "2024-06-10", "10:15:00", "10:45:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := MinuteOf(loc, n.Start); got != 615 {
		t.Errorf("minute = %d, want 615", got)
	}
}
