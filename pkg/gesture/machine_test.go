package gesture

import (
	"testing"

	"tableflip.dev/slotboard/pkg/schedule"
	"tableflip.dev/slotboard/pkg/timeline"
)

type fakePrompter struct {
	title    string
	ok       bool
	messages []string
}

func (f *fakePrompter) PromptText(message, _ string) (string, bool) {
	f.messages = append(f.messages, message)
	return f.title, f.ok
}

func setup(t *testing.T, seed ...schedule.Event) (*schedule.Board, *Machine) {
	t.Helper()
	b := schedule.NewBoard(timeline.Default())
	for _, e := range seed {
		if _, err := b.Create(0, e.Start, e.End, e.Title); err != nil {
			t.Fatalf("seed %v: %v", e, err)
		}
	}
	return b, New(b, nil)
}

func mustEvent(t *testing.T, b *schedule.Board, row, idx int) schedule.Event {
	t.Helper()
	e, err := b.Event(row, idx)
	if err != nil {
		t.Fatalf("event %d/%d: %v", row, idx, err)
	}
	return e
}

func TestCreateScenario(t *testing.T) {
	b, m := setup(t)

	if mode := m.PointerDown(0, 4); mode != ModeSelecting {
		t.Fatalf("expected selecting, got %s", mode)
	}
	if err := m.PointerEnter(0, 9); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if d, ok := m.Selection(); !ok || d.Start != 4 || d.End != 9 {
		t.Fatalf("unexpected selection %+v %v", d, ok)
	}
	if b.Count() != 0 {
		t.Fatalf("selection must not be committed before pointer-up")
	}

	p := &fakePrompter{title: "  Standup  ", ok: true}
	created, err := m.Finish(p)
	if err != nil || !created {
		t.Fatalf("finish: %v %v", created, err)
	}
	want := schedule.Event{Start: 4, End: 9, Title: "Standup"}
	if got := mustEvent(t, b, 0, 0); got != want || b.Count() != 1 {
		t.Fatalf("expected %v, got %v (count %d)", want, got, b.Count())
	}
	if m.Mode() != ModeIdle {
		t.Fatalf("expected idle after pointer-up, got %s", m.Mode())
	}
}

func TestSelectionBackwardsAndClickOnly(t *testing.T) {
	_, m := setup(t)

	m.PointerDown(0, 12)
	_ = m.PointerEnter(0, 7)
	if d, _ := m.Selection(); d.Start != 7 || d.End != 12 {
		t.Fatalf("expected [7,12], got %+v", d)
	}
	m.Reset()

	b, m := setup(t)
	m.PointerDown(0, 30)
	p := &fakePrompter{title: "ping", ok: true}
	if created, err := m.Finish(p); !created || err != nil {
		t.Fatalf("pure click should still prompt and create: %v %v", created, err)
	}
	if len(p.messages) != 1 {
		t.Fatalf("expected one prompt, got %d", len(p.messages))
	}
	if got := mustEvent(t, b, 0, 0); got.Start != 30 || got.End != 30 {
		t.Fatalf("expected point event at 30, got %v", got)
	}
}

func TestNoTitleCreatesNothing(t *testing.T) {
	for _, p := range []*fakePrompter{{ok: false}, {title: "   ", ok: true}} {
		b, m := setup(t)
		m.PointerDown(0, 3)
		_ = m.PointerEnter(0, 5)
		if created, err := m.Finish(p); created || err != nil {
			t.Fatalf("expected nothing created, got %v %v", created, err)
		}
		if b.Count() != 0 {
			t.Fatalf("expected empty board, got %d", b.Count())
		}
	}
}

func TestSelectionIgnoresOtherRows(t *testing.T) {
	_, m := setup(t)
	m.PointerDown(1, 5)
	_ = m.PointerEnter(2, 20)
	if d, _ := m.Selection(); d.Row != 1 || d.Start != 5 || d.End != 5 {
		t.Fatalf("drag across rows must be ignored, got %+v", d)
	}
}

func TestSelectionStopsAtNeighbors(t *testing.T) {
	b, m := setup(t, schedule.Event{Start: 10, End: 15, Title: "busy"})
	m.PointerDown(0, 17)
	_ = m.PointerEnter(0, 5)
	if d, _ := m.Selection(); d.Start != 16 || d.End != 17 {
		t.Fatalf("expected [16,17], got %+v", d)
	}
	_ = m.PointerEnter(0, 50)
	if d, _ := m.Selection(); d.Start != 17 || d.End != 43 {
		t.Fatalf("expected [17,43], got %+v", d)
	}
	if created, err := m.Finish(&fakePrompter{title: "after", ok: true}); !created || err != nil {
		t.Fatalf("finish: %v %v", created, err)
	}
	if got := mustEvent(t, b, 0, 1); got.Start != 17 || got.End != 43 {
		t.Fatalf("expected [17,43], got %v", got)
	}
}

func TestClassification(t *testing.T) {
	_, m := setup(t,
		schedule.Event{Start: 10, End: 15, Title: "span"},
		schedule.Event{Start: 20, End: 20, Title: "point"},
	)
	cases := []struct {
		slot int
		want Mode
	}{
		{10, ModeResizingLeft},
		{15, ModeResizingRight},
		{12, ModeMoving},
		{20, ModeMoving},
		{17, ModeSelecting},
	}
	for _, tc := range cases {
		if got := m.PointerDown(0, tc.slot); got != tc.want {
			t.Fatalf("slot %d: expected %s, got %s", tc.slot, tc.want, got)
		}
		m.Reset()
	}
}

func TestMoveShiftsToFit(t *testing.T) {
	b, m := setup(t, schedule.Event{Start: 2, End: 6, Title: "block"})

	if mode := m.PointerDown(0, 4); mode != ModeMoving {
		t.Fatalf("expected moving, got %s", mode)
	}
	_ = m.PointerEnter(0, 40)
	if got := mustEvent(t, b, 0, 0); got.Start != 38 || got.End != 42 {
		t.Fatalf("expected [38,42], got %v", got)
	}
	_ = m.PointerEnter(0, 43)
	if got := mustEvent(t, b, 0, 0); got.Start != 39 || got.End != 43 {
		t.Fatalf("expected shift to [39,43], got %v", got)
	}
	_ = m.PointerEnter(0, 41) // back inside, same place
	if got := mustEvent(t, b, 0, 0); got.Start != 39 || got.End != 43 || got.Title != "block" {
		t.Fatalf("expected [39,43] block, got %v", got)
	}
	_ = m.PointerEnter(0, -10)
	if got := mustEvent(t, b, 0, 0); got.Start != 0 || got.End != 4 {
		t.Fatalf("expected shift to [0,4], got %v", got)
	}
	if d := m.PointerUp(); d != nil {
		t.Fatalf("move must not produce a draft")
	}
}

func TestMoveWithoutMovementIsNoop(t *testing.T) {
	b, m := setup(t, schedule.Event{Start: 2, End: 6, Title: "block"})
	changes := 0
	b.OnChange(func() { changes++ })

	m.PointerDown(0, 4)
	_ = m.PointerEnter(0, 4)
	m.PointerUp()
	if changes != 0 {
		t.Fatalf("expected no commits, got %d", changes)
	}
}

func TestMoveSnapsAgainstNeighbor(t *testing.T) {
	b, m := setup(t,
		schedule.Event{Start: 2, End: 6, Title: "a"},
		schedule.Event{Start: 20, End: 25, Title: "b"},
	)
	m.PointerDown(0, 4)
	_ = m.PointerEnter(0, 18) // [16,20] runs into b
	if got := mustEvent(t, b, 0, 0); got.Start != 16 || got.End != 19 {
		t.Fatalf("expected [16,19], got %v", got)
	}
	m.PointerUp()
}

func TestDragIntoWiderNeighborIsSkipped(t *testing.T) {
	b, m := setup(t,
		schedule.Event{Start: 2, End: 2, Title: "p"},
		schedule.Event{Start: 10, End: 20, Title: "wide"},
	)

	m.PointerDown(0, 2)
	if err := m.PointerEnter(0, 15); err != nil {
		t.Fatalf("enter inside neighbor: %v", err)
	}
	if got := mustEvent(t, b, 0, 0); got.Start != 2 || got.End != 2 {
		t.Fatalf("expected [2,2] to stay put, got %v", got)
	}
	if err := m.PointerEnter(0, 5); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if got := mustEvent(t, b, 0, 0); got.Start != 5 || got.End != 5 {
		t.Fatalf("expected [5,5], got %v", got)
	}
	m.PointerUp()
}

func TestResizeRightSnaps(t *testing.T) {
	b, m := setup(t,
		schedule.Event{Start: 10, End: 15, Title: "a"},
		schedule.Event{Start: 20, End: 25, Title: "b"},
	)
	if mode := m.PointerDown(0, 15); mode != ModeResizingRight {
		t.Fatalf("expected resizing-right, got %s", mode)
	}
	_ = m.PointerEnter(0, 22)
	if got := mustEvent(t, b, 0, 0); got.Start != 10 || got.End != 19 {
		t.Fatalf("expected [10,19], got %v", got)
	}
	_ = m.PointerEnter(0, 3) // cannot cross the fixed left edge
	if got := mustEvent(t, b, 0, 0); got.Start != 10 || got.End != 10 {
		t.Fatalf("expected [10,10], got %v", got)
	}
	m.PointerUp()
}

func TestResizeLeft(t *testing.T) {
	b, m := setup(t,
		schedule.Event{Start: 2, End: 4, Title: "a"},
		schedule.Event{Start: 10, End: 15, Title: "b"},
	)
	if mode := m.PointerDown(0, 10); mode != ModeResizingLeft {
		t.Fatalf("expected resizing-left, got %s", mode)
	}
	_ = m.PointerEnter(0, 1)
	if got := mustEvent(t, b, 0, 1); got.Start != 5 || got.End != 15 {
		t.Fatalf("expected [5,15], got %v", got)
	}
	_ = m.PointerEnter(0, 30)
	if got := mustEvent(t, b, 0, 1); got.Start != 15 || got.End != 15 {
		t.Fatalf("expected [15,15], got %v", got)
	}
	m.PointerUp()
}

func TestCaptureReleasedAfterGesture(t *testing.T) {
	b := schedule.NewBoard(timeline.Default())
	c := &Capture{}
	m := New(b, c)

	if _, ok := c.PointerUp(); ok {
		t.Fatalf("nothing should hold the capture while idle")
	}
	m.PointerDown(0, 8)
	if !c.Held() {
		t.Fatalf("expected gesture to hold the capture")
	}
	d, ok := c.PointerUp()
	if !ok || d == nil || d.Start != 8 || d.End != 8 {
		t.Fatalf("expected draft at 8 from global pointer-up, got %+v %v", d, ok)
	}
	if c.Held() || m.Mode() != ModeIdle {
		t.Fatalf("capture leaked after pointer-up")
	}
}

func TestStaleReleaseKeepsNewHolder(t *testing.T) {
	c := &Capture{}
	release := c.Acquire(func() *Draft { return nil })
	c.Acquire(func() *Draft { return &Draft{Row: 1} })
	release()
	if !c.Held() {
		t.Fatalf("stale release evicted the newer holder")
	}
	if d, _ := c.PointerUp(); d == nil || d.Row != 1 {
		t.Fatalf("expected newer holder to receive pointer-up")
	}
}

func TestPointerDownIgnoredWhileActive(t *testing.T) {
	_, m := setup(t)
	m.PointerDown(0, 3)
	if mode := m.PointerDown(0, 20); mode != ModeSelecting {
		t.Fatalf("expected selecting to continue, got %s", mode)
	}
	if d, _ := m.Selection(); d.Start != 3 {
		t.Fatalf("second pointer-down replaced the gesture")
	}
}

func TestInvariantsHoldUnderRandomDrags(t *testing.T) {
	b, m := setup(t,
		schedule.Event{Start: 0, End: 3, Title: "a"},
		schedule.Event{Start: 8, End: 12, Title: "b"},
		schedule.Event{Start: 20, End: 20, Title: "c"},
		schedule.Event{Start: 30, End: 35, Title: "d"},
	)
	tl := b.Timeline()
	downs := []int{1, 0, 3, 8, 10, 12, 20, 30, 33, 35}
	for i, down := range downs {
		m.PointerDown(0, down)
		for step := 0; step < 12; step++ {
			_ = m.PointerEnter(0, (down+step*(i+5))%50-3)
			row, _ := b.Row(0)
			if !schedule.Validate(tl, [][]schedule.Event{row, {}, {}, {}, {}}) {
				t.Fatalf("invariant broken after drag from %d step %d: %v", down, step, row)
			}
		}
		m.PointerUp()
	}
}
