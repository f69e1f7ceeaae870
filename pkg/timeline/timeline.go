// Package timeline defines the discrete slot space a schedule lives in.
package timeline

import (
	"errors"
	"fmt"
)

const (
	// DefaultStartHour is the wall-clock hour of slot 0.
	DefaultStartHour = 9
	// DefaultEndHour is the wall-clock hour just past the last slot.
	DefaultEndHour = 20
	// DefaultSlotsPerHour splits each hour into 15 minute slots.
	DefaultSlotsPerHour = 4
	// DefaultRows is the number of independent lanes in a schedule.
	DefaultRows = 5
)

// Config describes the slot space. Slot indices are the only unit of time the
// rest of the module uses; hours exist for labels.
type Config struct {
	StartHour    int `json:"startHour" mapstructure:"start_hour"`
	EndHour      int `json:"endHour" mapstructure:"end_hour"`
	SlotsPerHour int `json:"slotsPerHour" mapstructure:"slots_per_hour"`
	Rows         int `json:"rows" mapstructure:"rows"`
}

// Default returns a 09:00-20:00 day in 15 minute slots with five rows.
func Default() Config {
	return Config{
		StartHour:    DefaultStartHour,
		EndHour:      DefaultEndHour,
		SlotsPerHour: DefaultSlotsPerHour,
		Rows:         DefaultRows,
	}
}

// TotalSlots is the number of addressable slots per row.
func (c Config) TotalSlots() int {
	return (c.EndHour - c.StartHour) * c.SlotsPerHour
}

// Last is the highest valid slot index.
func (c Config) Last() int {
	return c.TotalSlots() - 1
}

// Clamp pins v into [0, TotalSlots-1].
func (c Config) Clamp(v int) int {
	return Clamp(v, 0, c.Last())
}

// Contains reports whether slot is a valid index.
func (c Config) Contains(slot int) bool {
	return slot >= 0 && slot < c.TotalSlots()
}

// Validate rejects configurations that cannot describe a slot space.
func (c Config) Validate() error {
	switch {
	case c.StartHour < 0 || c.StartHour > 23:
		return fmt.Errorf("timeline: start hour %d out of range", c.StartHour)
	case c.EndHour < 1 || c.EndHour > 24:
		return fmt.Errorf("timeline: end hour %d out of range", c.EndHour)
	case c.EndHour <= c.StartHour:
		return errors.New("timeline: end hour must be after start hour")
	case c.SlotsPerHour < 1 || 60%c.SlotsPerHour != 0:
		return fmt.Errorf("timeline: %d slots per hour does not divide an hour", c.SlotsPerHour)
	case c.Rows < 1:
		return fmt.Errorf("timeline: rows must be positive, got %d", c.Rows)
	}
	return nil
}

// Clamp pins v into [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
