package schedule

import (
	"fmt"
	"strings"
	"sync"

	"tableflip.dev/slotboard/pkg/timeline"
)

// Board is the set of committed rows. Every mutation funnels through commit,
// which re-checks the event and non-overlap invariants, so a Board can never
// hold an illegal row.
type Board struct {
	tl timeline.Config

	mu   sync.RWMutex
	rows [][]Event

	onChange []func()
}

// NewBoard returns an empty board shaped by tl.
func NewBoard(tl timeline.Config) *Board {
	rows := make([][]Event, tl.Rows)
	for i := range rows {
		rows[i] = []Event{}
	}
	return &Board{tl: tl, rows: rows}
}

// Timeline returns the slot space the board was built for.
func (b *Board) Timeline() timeline.Config {
	return b.tl
}

// OnChange registers fn to run after every committed mutation. Callbacks run
// outside the board lock.
func (b *Board) OnChange(fn func()) {
	b.mu.Lock()
	b.onChange = append(b.onChange, fn)
	b.mu.Unlock()
}

func (b *Board) changed() {
	b.mu.RLock()
	fns := append([]func(){}, b.onChange...)
	b.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// Rows returns a deep copy of every row.
func (b *Board) Rows() [][]Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneRows(b.rows)
}

// Row returns a copy of row r.
func (b *Board) Row(r int) ([]Event, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkRow(r); err != nil {
		return nil, err
	}
	return cloneRow(b.rows[r]), nil
}

// Event returns event i of row r.
func (b *Board) Event(r, i int) (Event, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkIndex(r, i); err != nil {
		return Event{}, err
	}
	return b.rows[r][i], nil
}

// At returns the index of the event covering slot in row r, or -1.
func (b *Board) At(r, slot int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if r < 0 || r >= len(b.rows) {
		return -1
	}
	for i, e := range b.rows[r] {
		if e.Covers(slot) {
			return i
		}
	}
	return -1
}

// Count is the total number of events on the board.
func (b *Board) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, row := range b.rows {
		n += len(row)
	}
	return n
}

// Create appends a new event to row r. The title is trimmed.
func (b *Board) Create(r, start, end int, title string) (int, error) {
	e := Event{Start: start, End: end, Title: strings.TrimSpace(title)}
	b.mu.Lock()
	if err := b.checkRow(r); err != nil {
		b.mu.Unlock()
		return -1, err
	}
	if err := b.commit(r, -1, e); err != nil {
		b.mu.Unlock()
		return -1, err
	}
	idx := len(b.rows[r]) - 1
	b.mu.Unlock()
	b.changed()
	return idx, nil
}

// Update moves event i of row r to [start, end], keeping its title. Writing
// the range the event already has is a no-op and fires no change.
func (b *Board) Update(r, i, start, end int) error {
	b.mu.Lock()
	if err := b.checkIndex(r, i); err != nil {
		b.mu.Unlock()
		return err
	}
	cur := b.rows[r][i]
	if cur.Start == start && cur.End == end {
		b.mu.Unlock()
		return nil
	}
	next := cur
	next.Start, next.End = start, end
	if err := b.commit(r, i, next); err != nil {
		b.mu.Unlock()
		return err
	}
	b.mu.Unlock()
	b.changed()
	return nil
}

// Delete removes event i from row r.
func (b *Board) Delete(r, i int) (Event, error) {
	b.mu.Lock()
	if err := b.checkIndex(r, i); err != nil {
		b.mu.Unlock()
		return Event{}, err
	}
	removed := b.rows[r][i]
	row := b.rows[r]
	b.rows[r] = append(row[:i:i], row[i+1:]...)
	b.mu.Unlock()
	b.changed()
	return removed, nil
}

// ClearRow removes every event from row r.
func (b *Board) ClearRow(r int) error {
	b.mu.Lock()
	if err := b.checkRow(r); err != nil {
		b.mu.Unlock()
		return err
	}
	b.rows[r] = []Event{}
	b.mu.Unlock()
	b.changed()
	return nil
}

// ClearAll empties the board.
func (b *Board) ClearAll() {
	b.mu.Lock()
	for i := range b.rows {
		b.rows[i] = []Event{}
	}
	b.mu.Unlock()
	b.changed()
}

// Replace swaps in rows wholesale. Either every row is accepted or the board
// is left untouched.
func (b *Board) Replace(rows [][]Event) error {
	if len(rows) != b.tl.Rows {
		return fmt.Errorf("%w: want %d, got %d", ErrRowCount, b.tl.Rows, len(rows))
	}
	next := make([][]Event, len(rows))
	for r, row := range rows {
		next[r] = make([]Event, 0, len(row))
		for _, e := range row {
			e.Title = strings.TrimSpace(e.Title)
			if err := admit(b.tl, next[r], -1, e); err != nil {
				return fmt.Errorf("row %d: %w", r, err)
			}
			next[r] = append(next[r], e)
		}
	}
	b.mu.Lock()
	b.rows = next
	b.mu.Unlock()
	b.changed()
	return nil
}

// commit is the only writer of b.rows[r] entries. i < 0 appends.
// Callers hold b.mu.
func (b *Board) commit(r, i int, e Event) error {
	if err := admit(b.tl, b.rows[r], i, e); err != nil {
		return err
	}
	if i < 0 {
		b.rows[r] = append(b.rows[r], e)
		return nil
	}
	b.rows[r][i] = e
	return nil
}

// admit checks e against the event invariants and every event of row other
// than index skip.
func admit(tl timeline.Config, row []Event, skip int, e Event) error {
	if err := e.Check(tl); err != nil {
		return err
	}
	for j, o := range row {
		if j == skip {
			continue
		}
		if Overlaps(e, o) {
			return fmt.Errorf("%w: %s with %s", ErrOverlap, e, o)
		}
	}
	return nil
}

func (b *Board) checkRow(r int) error {
	if r < 0 || r >= len(b.rows) {
		return fmt.Errorf("%w: %d", ErrNoSuchRow, r)
	}
	return nil
}

func (b *Board) checkIndex(r, i int) error {
	if err := b.checkRow(r); err != nil {
		return err
	}
	if i < 0 || i >= len(b.rows[r]) {
		return fmt.Errorf("%w: row %d index %d", ErrNoSuchEvent, r, i)
	}
	return nil
}
