package gesture

import "tableflip.dev/slotboard/pkg/schedule"

// Mode names the active state of a Machine.
type Mode string

const (
	ModeIdle          Mode = "idle"
	ModeSelecting     Mode = "selecting"
	ModeMoving        Mode = "moving"
	ModeResizingLeft  Mode = "resizing-left"
	ModeResizingRight Mode = "resizing-right"
)

// state is one variant per mode; each carries only the fields its mode uses.
type state interface {
	mode() Mode
}

type idle struct{}

// selecting is an uncommitted creation drag.
type selecting struct {
	row        int
	anchor     int
	start, end int
}

// moving translates an existing event by the pointer offset from anchor.
type moving struct {
	row      int
	index    int
	anchor   int
	snapshot schedule.Event
}

// resizingLeft drags the first slot of an event; the last slot stays put.
type resizingLeft struct {
	row      int
	index    int
	snapshot schedule.Event
}

// resizingRight drags the last slot of an event; the first slot stays put.
type resizingRight struct {
	row      int
	index    int
	snapshot schedule.Event
}

func (idle) mode() Mode          { return ModeIdle }
func (selecting) mode() Mode     { return ModeSelecting }
func (moving) mode() Mode        { return ModeMoving }
func (resizingLeft) mode() Mode  { return ModeResizingLeft }
func (resizingRight) mode() Mode { return ModeResizingRight }
