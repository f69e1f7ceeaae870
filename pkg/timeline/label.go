package timeline

import "fmt"

// minutes returns the minutes past midnight at which slot begins.
func (c Config) minutes(slot int) int {
	return c.StartHour*60 + slot*(60/c.SlotsPerHour)
}

// Label renders the wall-clock start of slot as HH:MM.
func (c Config) Label(slot int) string {
	m := c.minutes(slot)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Span renders the wall-clock range covered by the inclusive slots start..end.
func (c Config) Span(start, end int) string {
	return fmt.Sprintf("%s-%s", c.Label(start), c.Label(end+1))
}
