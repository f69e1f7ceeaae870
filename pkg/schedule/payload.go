package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"tableflip.dev/slotboard/pkg/timeline"
)

// Version is the only payload format version understood.
const Version = 1

// SavedAtLayout is the ISO-8601 form savedAt is written in.
const SavedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrInvalid marks malformed persisted or imported data. Nothing from an
// invalid payload is ever applied.
var ErrInvalid = errors.New("schedule: invalid payload")

// Payload is the unit of persistence and exchange.
type Payload struct {
	Version int
	SavedAt time.Time
	Rows    [][]Event
}

type wireEvent struct {
	Start *int    `json:"start"`
	End   *int    `json:"end"`
	Title *string `json:"title"`
}

type wirePayload struct {
	Version *int            `json:"version"`
	SavedAt string          `json:"savedAt"`
	Rows    []*[]*wireEvent `json:"rows"`
}

// Serialize wraps rows with the format version and the save time.
func Serialize(rows [][]Event, now time.Time) Payload {
	return Payload{
		Version: Version,
		SavedAt: now.UTC(),
		Rows:    cloneRows(rows),
	}
}

// MarshalJSON renders the exchange format.
func (p Payload) MarshalJSON() ([]byte, error) {
	out := struct {
		Version int       `json:"version"`
		SavedAt string    `json:"savedAt"`
		Rows    [][]Event `json:"rows"`
	}{
		Version: p.Version,
		SavedAt: p.SavedAt.UTC().Format(SavedAtLayout),
		Rows:    cloneRows(p.Rows),
	}
	return json.Marshal(out)
}

// Marshal renders p as indented JSON.
func (p Payload) Marshal() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Deserialize parses raw and accepts it only if the version is exactly 1 and
// the rows pass Validate. Every failure wraps ErrInvalid.
func Deserialize(tl timeline.Config, raw []byte) (Payload, error) {
	var w wirePayload
	if err := json.Unmarshal(raw, &w); err != nil {
		return Payload{}, invalid("parse: %v", err)
	}
	if w.Version == nil {
		return Payload{}, invalid("missing version")
	}
	if *w.Version != Version {
		return Payload{}, invalid("unsupported version %d", *w.Version)
	}
	if w.Rows == nil {
		return Payload{}, invalid("missing rows")
	}
	rows := make([][]Event, len(w.Rows))
	for r, row := range w.Rows {
		if row == nil {
			return Payload{}, invalid("row %d is not a list", r)
		}
		rows[r] = make([]Event, 0, len(*row))
		for i, we := range *row {
			if we == nil || we.Start == nil || we.End == nil || we.Title == nil {
				return Payload{}, invalid("row %d event %d is incomplete", r, i)
			}
			rows[r] = append(rows[r], Event{Start: *we.Start, End: *we.End, Title: *we.Title})
		}
	}
	if !Validate(tl, rows) {
		return Payload{}, invalid("rows do not satisfy the schedule invariants")
	}
	p := Payload{Version: Version, Rows: rows}
	if t, err := time.Parse(time.RFC3339Nano, w.SavedAt); err == nil {
		p.SavedAt = t
	}
	return p, nil
}

// Validate reports whether rows is a legal schedule for tl: the right number
// of rows, every event in range with a title, and no two events of a row
// sharing a slot.
func Validate(tl timeline.Config, rows [][]Event) bool {
	if len(rows) != tl.Rows {
		return false
	}
	for _, row := range rows {
		sorted := cloneRow(row)
		for _, e := range sorted {
			if e.Check(tl) != nil {
				return false
			}
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Start < sorted[j].Start
		})
		for i := 1; i < len(sorted); i++ {
			if sorted[i-1].End >= sorted[i].Start {
				return false
			}
		}
	}
	return true
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
