// Package gesture turns a stream of pointer events into validated mutations
// of a schedule.Board.
package gesture

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/slotboard/pkg/schedule"
	"tableflip.dev/slotboard/pkg/timeline"
)

// Prompter asks the user for text. ok is false when the user declined.
type Prompter interface {
	PromptText(message, def string) (string, bool)
}

// Draft is the range a creation drag ended on, waiting for a title.
type Draft struct {
	Row   int
	Start int
	End   int
}

// Create commits d to b with title. A blank title creates nothing.
func (d Draft) Create(b *schedule.Board, title string) (bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return false, nil
	}
	if _, err := b.Create(d.Row, d.Start, d.End, title); err != nil {
		return false, err
	}
	return true, nil
}

// Machine is the gesture state machine. It is driven from a single goroutine.
type Machine struct {
	board   *schedule.Board
	tl      timeline.Config
	capture *Capture

	state   state
	release func()
}

// New builds an idle machine over board. capture may be nil, in which case
// the machine keeps a private one.
func New(board *schedule.Board, capture *Capture) *Machine {
	if capture == nil {
		capture = &Capture{}
	}
	return &Machine{
		board:   board,
		tl:      board.Timeline(),
		capture: capture,
		state:   idle{},
	}
}

// Mode returns the active state name.
func (m *Machine) Mode() Mode {
	return m.state.mode()
}

// Active reports whether a gesture is in progress.
func (m *Machine) Active() bool {
	return m.Mode() != ModeIdle
}

// Selection returns the live candidate of a creation drag for highlighting.
func (m *Machine) Selection() (Draft, bool) {
	s, ok := m.state.(selecting)
	if !ok {
		return Draft{}, false
	}
	return Draft{Row: s.row, Start: s.start, End: s.end}, true
}

// Target returns the row and index of the event being moved or resized.
func (m *Machine) Target() (row, index int, ok bool) {
	switch s := m.state.(type) {
	case moving:
		return s.row, s.index, true
	case resizingLeft:
		return s.row, s.index, true
	case resizingRight:
		return s.row, s.index, true
	}
	return 0, 0, false
}

// PointerDown starts a gesture at slot of row. It is ignored while another
// gesture is active or when row does not exist.
func (m *Machine) PointerDown(row, slot int) Mode {
	if m.Active() || row < 0 || row >= m.tl.Rows {
		return m.Mode()
	}
	slot = m.tl.Clamp(slot)

	idx := m.board.At(row, slot)
	if idx < 0 {
		m.state = selecting{row: row, anchor: slot, start: slot, end: slot}
	} else {
		e, err := m.board.Event(row, idx)
		if err != nil {
			return m.Mode()
		}
		switch {
		case e.Point() || (slot != e.Start && slot != e.End):
			m.state = moving{row: row, index: idx, anchor: slot, snapshot: e}
		case slot == e.Start:
			m.state = resizingLeft{row: row, index: idx, snapshot: e}
		default:
			m.state = resizingRight{row: row, index: idx, snapshot: e}
		}
	}
	m.release = m.capture.Acquire(m.PointerUp)
	return m.Mode()
}

// PointerEnter feeds the slot under the pointer. Moves and resizes are
// committed to the board immediately; a creation drag only updates the
// candidate, which stops at the neighbors around its anchor. Entering
// another row does nothing. A step that still overlaps a neighbor after
// snapping is skipped; the event stays where the last accepted step put it.
func (m *Machine) PointerEnter(row, slot int) error {
	slot = m.tl.Clamp(slot)
	switch s := m.state.(type) {
	case selecting:
		if row != s.row {
			return nil
		}
		r, err := m.board.Row(s.row)
		if err != nil {
			return err
		}
		lo, hi, ok := schedule.Gap(m.tl, r, -1, s.anchor)
		if !ok {
			return nil
		}
		slot = timeline.Clamp(slot, lo, hi)
		s.start, s.end = min(s.anchor, slot), max(s.anchor, slot)
		m.state = s
	case moving:
		if row != s.row {
			return nil
		}
		start, end := m.translate(s.snapshot, slot-s.anchor)
		return m.apply(s.row, s.index, start, end)
	case resizingLeft:
		if row != s.row {
			return nil
		}
		return m.apply(s.row, s.index, min(slot, s.snapshot.End), s.snapshot.End)
	case resizingRight:
		if row != s.row {
			return nil
		}
		return m.apply(s.row, s.index, s.snapshot.Start, max(slot, s.snapshot.Start))
	}
	return nil
}

// PointerUp ends the active gesture wherever the pointer was released and
// returns the candidate range when it was a creation drag. The machine is
// idle afterwards and the capture is given back.
func (m *Machine) PointerUp() *Draft {
	var d *Draft
	if s, ok := m.state.(selecting); ok {
		d = &Draft{Row: s.row, Start: s.start, End: s.end}
		if r, err := m.board.Row(s.row); err == nil {
			d.Start, d.End = schedule.Resolve(m.tl, r, -1, s.start, s.end)
		}
	}
	m.Reset()
	return d
}

// Finish ends the gesture and, for a creation drag, asks p for a title and
// creates the event.
func (m *Machine) Finish(p Prompter) (bool, error) {
	d := m.PointerUp()
	if d == nil || p == nil {
		return false, nil
	}
	title, ok := p.PromptText(fmt.Sprintf("Title for %s", m.tl.Span(d.Start, d.End)), "")
	if !ok {
		return false, nil
	}
	return d.Create(m.board, title)
}

// Reset drops any gesture state without committing a creation.
func (m *Machine) Reset() {
	m.state = idle{}
	if m.release != nil {
		m.release()
		m.release = nil
	}
}

// translate shifts e by offset, then slides it back inside the timeline
// without changing its length. An event longer than the timeline is cut down
// to fit from slot 0.
func (m *Machine) translate(e schedule.Event, offset int) (int, int) {
	length := e.Len()
	if length > m.tl.TotalSlots() {
		return 0, m.tl.Last()
	}
	start := e.Start + offset
	if start < 0 {
		start = 0
	}
	if start+length-1 > m.tl.Last() {
		start = m.tl.Last() - length + 1
	}
	return start, start + length - 1
}

func (m *Machine) apply(row, index, start, end int) error {
	r, err := m.board.Row(row)
	if err != nil {
		return err
	}
	start, end = schedule.Resolve(m.tl, r, index, start, end)
	err = m.board.Update(row, index, start, end)
	if errors.Is(err, schedule.ErrOverlap) {
		return nil
	}
	return err
}
