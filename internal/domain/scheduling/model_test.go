package scheduling

import (
	"testing"
	"time"
)

func interval(startHour, endHour int) *Appointment {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return &Appointment{
		StartTime: day.Add(time.Duration(startHour) * time.Hour),
		EndTime:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

	a := interval(9, 11)

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical", at(9), at(11), true},
		{"contained", at(9), at(10), true},
		{"containing", at(8), at(12), true},
		{"partial left", at(8), at(10), true},
		{"partial right", at(10), at(12), true},
		{"abuts before", at(7), at(9), false},
		{"abuts after", at(11), at(13), false},
		{"disjoint", at(13), at(14), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.start, tt.end); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestStatusBlocks(t *testing.T) {
	blocking := map[Status]bool{
		StatusScheduled: true,
		StatusConfirmed: true,
		StatusCompleted: true,
		StatusCancelled: false,
		StatusNoShow:    false,
	}
	for status, want := range blocking {
		if got := status.Blocks(); got != want {
			t.Errorf("%s.Blocks() = %v, want %v", status, got, want)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow} {
		if !s.valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if Status("rescheduled").valid() {
		t.Error("expected unknown status to be invalid")
	}
}
