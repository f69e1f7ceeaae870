// Package schedule holds the committed rows of events, the collision resolver
// that constrains drags, and the versioned payload used for persistence and
// exchange.
package schedule

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/slotboard/pkg/timeline"
)

var (
	// ErrOutOfRange is returned when an event does not fit the timeline.
	ErrOutOfRange = errors.New("schedule: event out of range")
	// ErrEmptyTitle is returned when an event title is blank.
	ErrEmptyTitle = errors.New("schedule: event title required")
	// ErrOverlap is returned when a mutation would overlap another event in the row.
	ErrOverlap = errors.New("schedule: event overlaps")
	// ErrNoSuchRow is returned for row indices outside the board.
	ErrNoSuchRow = errors.New("schedule: no such row")
	// ErrNoSuchEvent is returned for event indices outside a row.
	ErrNoSuchEvent = errors.New("schedule: no such event")
	// ErrRowCount is returned when a replacement has the wrong number of rows.
	ErrRowCount = errors.New("schedule: wrong row count")
)

// Event is a closed, inclusive range of slots in one row.
type Event struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Title string `json:"title"`
}

// Len is the number of slots the event occupies.
func (e Event) Len() int {
	return e.End - e.Start + 1
}

// Point reports whether the event occupies a single slot.
func (e Event) Point() bool {
	return e.Start == e.End
}

// Covers reports whether slot falls inside the event.
func (e Event) Covers(slot int) bool {
	return slot >= e.Start && slot <= e.End
}

func (e Event) String() string {
	return fmt.Sprintf("[%d,%d] %q", e.Start, e.End, e.Title)
}

// Check verifies the event invariants against tl.
func (e Event) Check(tl timeline.Config) error {
	if e.Start < 0 || e.Start > e.End || e.End >= tl.TotalSlots() {
		return fmt.Errorf("%w: %s", ErrOutOfRange, e)
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Overlaps is the single overlap rule: two inclusive ranges share a slot.
// Back-to-back events (a.End == b.Start-1) do not overlap.
func Overlaps(a, b Event) bool {
	return a.Start <= b.End && b.Start <= a.End
}

func cloneRow(row []Event) []Event {
	if row == nil {
		return []Event{}
	}
	out := make([]Event, len(row))
	copy(out, row)
	return out
}

func cloneRows(rows [][]Event) [][]Event {
	out := make([][]Event, len(rows))
	for i, row := range rows {
		out[i] = cloneRow(row)
	}
	return out
}
