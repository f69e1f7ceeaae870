package mcp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/slotboard/pkg/app"
	"tableflip.dev/slotboard/pkg/schedule"
	"tableflip.dev/slotboard/pkg/store"
	"tableflip.dev/slotboard/pkg/timeline"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryStore) Watch(ctx context.Context, key string) (<-chan store.Event, error) {
	return nil, errors.New("not supported")
}

func newTestService(t *testing.T) (*Service, *memoryStore) {
	t.Helper()
	st := newMemoryStore()
	a := app.New(schedule.NewBoard(timeline.Default()), st, "schedule", time.Hour)
	t.Cleanup(a.Close)
	return NewService(a), st
}

func TestServiceCreateEventSaves(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	res, err := svc.CreateEvent(ctx, 0, 4, 9, "  Standup ", false)
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if res.Event == nil || res.Event.Title != "Standup" || res.Event.Span != "10:00-11:30" {
		t.Fatalf("unexpected event %+v", res.Event)
	}
	if _, ok, _ := st.Get("schedule"); !ok {
		t.Fatalf("expected the schedule to be saved")
	}
}

func TestServiceCreateEventOverlap(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.CreateEvent(ctx, 0, 20, 25, "wall", false); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if _, err := svc.CreateEvent(ctx, 0, 18, 22, "clash", false); !errors.Is(err, schedule.ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
	res, err := svc.CreateEvent(ctx, 0, 18, 22, "snapped", true)
	if err != nil {
		t.Fatalf("snapped CreateEvent failed: %v", err)
	}
	if res.Event.Start != 18 || res.Event.End != 19 {
		t.Fatalf("expected [18,19], got %+v", res.Event)
	}
}

func TestServiceMoveEvent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	svc.CreateEvent(ctx, 1, 10, 15, "resize", false)
	svc.CreateEvent(ctx, 1, 20, 25, "wall", false)

	res, err := svc.MoveEvent(ctx, 1, 0, 10, 22)
	if err != nil {
		t.Fatalf("MoveEvent failed: %v", err)
	}
	if res.Event.End != 19 {
		t.Fatalf("expected end 19, got %+v", res.Event)
	}
}

func TestServiceClearNeedsConfirm(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	svc.CreateEvent(ctx, 2, 0, 1, "a", false)

	if _, err := svc.Clear(ctx, 2, false); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if _, err := svc.Clear(ctx, -1, true); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	dto, _ := svc.Schedule(ctx)
	if dto.Count != 0 || len(dto.Rows) != 5 || dto.TotalSlots != 44 {
		t.Fatalf("unexpected schedule %+v", dto)
	}
}

func TestServiceDeleteEvent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	svc.CreateEvent(ctx, 0, 0, 1, "gone", false)

	res, err := svc.DeleteEvent(ctx, 0, 0)
	if err != nil || !strings.Contains(res.Status, "gone") {
		t.Fatalf("DeleteEvent: %+v %v", res, err)
	}
	if _, err := svc.DeleteEvent(ctx, 0, 0); !errors.Is(err, schedule.ErrNoSuchEvent) {
		t.Fatalf("expected ErrNoSuchEvent, got %v", err)
	}
}

func TestServiceValidate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.Validate(ctx, `{"version":1,"savedAt":"2026-10-15T12:30:00.000Z","rows":[[{"start":0,"end":5,"title":"a"},{"start":5,"end":8,"title":"b"}],[],[],[],[]]}`)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if res.Valid {
		t.Fatalf("shared slot must be rejected")
	}

	res, _ = svc.Validate(ctx, `{"version":1,"savedAt":"2026-10-15T12:30:00.000Z","rows":[[{"start":0,"end":4,"title":"a"},{"start":5,"end":8,"title":"b"}],[],[],[],[]]}`)
	if !res.Valid || res.Count != 2 {
		t.Fatalf("expected valid payload with 2 events, got %+v", res)
	}
}

func TestServiceSeesOtherWriters(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	if _, err := svc.Schedule(ctx); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	// Another process, such as the TUI, saves to the same store.
	other := app.New(schedule.NewBoard(timeline.Default()), st, "schedule", time.Hour)
	defer other.Close()
	if _, err := other.Create(1, 4, 8, "from tui"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := other.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	dto, err := svc.Schedule(ctx)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if dto.Count != 1 {
		t.Fatalf("expected the other writer's event, got count %d", dto.Count)
	}

	if _, err := svc.CreateEvent(ctx, 0, 0, 3, "from mcp", false); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if _, err := other.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	row, _ := other.Board.Row(1)
	if len(row) != 1 || row[0].Title != "from tui" {
		t.Fatalf("expected row 1 to survive the MCP save, got %v", row)
	}
	if other.Board.Count() != 2 {
		t.Fatalf("expected 2 events, got %d", other.Board.Count())
	}

	// The other writer removes the blob entirely.
	st.Delete("schedule")
	if dto, _ := svc.Schedule(ctx); dto.Count != 0 {
		t.Fatalf("expected an empty schedule after the blob was removed, got %d", dto.Count)
	}
}

func TestServiceClearAllReplacesInvalidBlob(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	st.Set("schedule", []byte(`{"version":2}`))

	if _, err := svc.Schedule(ctx); !errors.Is(err, schedule.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := svc.Clear(ctx, 0, true); !errors.Is(err, schedule.ErrInvalid) {
		t.Fatalf("expected a row clear to refuse, got %v", err)
	}
	if _, err := svc.Clear(ctx, -1, true); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if dto, err := svc.Schedule(ctx); err != nil || dto.Count != 0 {
		t.Fatalf("expected a valid empty schedule, got %+v %v", dto, err)
	}
}

func TestRowArgument(t *testing.T) {
	if r, err := rowArgument("3"); err != nil || r != 3 {
		t.Fatalf("got %d %v", r, err)
	}
	if r, err := rowArgument([]string{"1"}); err != nil || r != 1 {
		t.Fatalf("got %d %v", r, err)
	}
	if _, err := rowArgument(nil); err == nil {
		t.Fatalf("expected error")
	}
}
