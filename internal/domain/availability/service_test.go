package availability

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic/internal/platform/clinictime"
)

// -- Mock Repository --

type mockRepo struct {
	windows map[uuid.UUID]*Window
}

func newMockRepo() *mockRepo {
	return &mockRepo{windows: make(map[uuid.UUID]*Window)}
}

func (m *mockRepo) Create(_ context.Context, w *Window) error {
	w.ID = uuid.New()
	w.CreatedAt = time.Now()
	w.UpdatedAt = time.Now()
	m.windows[w.ID] = w
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Window, error) {
	w, ok := m.windows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

func (m *mockRepo) ListByDentist(_ context.Context, dentistID uuid.UUID) ([]*Window, error) {
	var result []*Window
	for _, w := range m.windows {
		if w.DentistID == dentistID {
			result = append(result, w)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Weekday != result[j].Weekday {
			return result[i].Weekday < result[j].Weekday
		}
		return result[i].StartMinute < result[j].StartMinute
	})
	return result, nil
}

func (m *mockRepo) ListByDentistWeekday(_ context.Context, dentistID uuid.UUID, weekday time.Weekday) ([]*Window, error) {
	var result []*Window
	for _, w := range m.windows {
		if w.DentistID == dentistID && w.Weekday == weekday {
			result = append(result, w)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartMinute < result[j].StartMinute })
	return result, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.windows[id]; !ok {
		return ErrNotFound
	}
	delete(m.windows, id)
	return nil
}

// -- Tests --

func TestCreateWindow(t *testing.T) {
	svc := NewService(newMockRepo())

	w := &Window{DentistID: uuid.New(), Weekday: time.Monday, StartMinute: 9 * 60, EndMinute: 13 * 60}
	if err := svc.Create(context.Background(), w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
	if w.StartClock() != "09:00:00" || w.EndClock() != "13:00:00" {
		t.Errorf("unexpected clock strings %s-%s", w.StartClock(), w.EndClock())
	}
}

func TestCreateWindow_Validation(t *testing.T) {
	dentistID := uuid.New()
	svc := NewService(newMockRepo())

	tests := []struct {
		name string
		win  *Window
	}{
		{"missing dentist", &Window{Weekday: time.Monday, StartMinute: 540, EndMinute: 780}},
		{"weekday too high", &Window{DentistID: dentistID, Weekday: 7, StartMinute: 540, EndMinute: 780}},
		{"negative weekday", &Window{DentistID: dentistID, Weekday: -1, StartMinute: 540, EndMinute: 780}},
		{"start after end", &Window{DentistID: dentistID, Weekday: time.Monday, StartMinute: 780, EndMinute: 540}},
		{"zero length", &Window{DentistID: dentistID, Weekday: time.Monday, StartMinute: 540, EndMinute: 540}},
		{"end past midnight", &Window{DentistID: dentistID, Weekday: time.Monday, StartMinute: 540, EndMinute: 1441}},
		{"negative start", &Window{DentistID: dentistID, Weekday: time.Monday, StartMinute: -10, EndMinute: 540}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(context.Background(), tt.win)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreateWindow_OverlapRejected(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	dentistID := uuid.New()

	first := &Window{DentistID: dentistID, Weekday: time.Tuesday, StartMinute: 540, EndMinute: 780}
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}

	overlap := &Window{DentistID: dentistID, Weekday: time.Tuesday, StartMinute: 720, EndMinute: 900}
	if err := svc.Create(ctx, overlap); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for overlap, got %v", err)
	}

	// Abutting windows share a boundary minute and do not overlap.
	abut := &Window{DentistID: dentistID, Weekday: time.Tuesday, StartMinute: 780, EndMinute: 1020}
	if err := svc.Create(ctx, abut); err != nil {
		t.Errorf("expected abutting window to be accepted, got %v", err)
	}

	// Same minutes on another weekday are fine.
	otherDay := &Window{DentistID: dentistID, Weekday: time.Wednesday, StartMinute: 540, EndMinute: 780}
	if err := svc.Create(ctx, otherDay); err != nil {
		t.Errorf("expected other-weekday window to be accepted, got %v", err)
	}
}

func TestWindowsOn(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	dentistID := uuid.New()

	// 2026-03-02 is a Monday.
	for _, w := range []*Window{
		{DentistID: dentistID, Weekday: time.Monday, StartMinute: 840, EndMinute: 1080},
		{DentistID: dentistID, Weekday: time.Monday, StartMinute: 540, EndMinute: 780},
		{DentistID: dentistID, Weekday: time.Friday, StartMinute: 540, EndMinute: 780},
	} {
		if err := svc.Create(ctx, w); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	windows, err := svc.WindowsOn(ctx, dentistID, "2026-03-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 Monday windows, got %d", len(windows))
	}
	if windows[0].StartMinute != 540 || windows[1].StartMinute != 840 {
		t.Errorf("expected windows ordered by start, got %d then %d", windows[0].StartMinute, windows[1].StartMinute)
	}
}

func TestWindowsOn_EmptyDay(t *testing.T) {
	svc := NewService(newMockRepo())

	windows, err := svc.WindowsOn(context.Background(), uuid.New(), "2026-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if windows == nil || len(windows) != 0 {
		t.Errorf("expected empty slice, got %v", windows)
	}
}

func TestWindowsOn_BadDate(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.WindowsOn(context.Background(), uuid.New(), "03/02/2026"); !errors.Is(err, clinictime.ErrInvalidTimeInput) {
		t.Errorf("expected ErrInvalidTimeInput, got %v", err)
	}
}

func TestDeleteWindow(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	w := &Window{DentistID: uuid.New(), Weekday: time.Thursday, StartMinute: 540, EndMinute: 780}
	if err := svc.Create(ctx, w); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, w.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, w.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
