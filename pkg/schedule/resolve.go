package schedule

import "tableflip.dev/slotboard/pkg/timeline"

// Resolve narrows the proposed range [start, end] so it does not overlap any
// event of row other than index exclude (exclude < 0 excludes nothing).
//
// The proposal is clamped into the timeline and put in order first. For each
// obstruction, the edge that intrudes is snapped against it: an end reaching
// into it from the left is pulled back to the slot before it, a start reaching
// into it from the right is pushed to the slot after it. A proposal covering
// an obstruction entirely keeps the side that holds most of the range. If the
// range inverts it collapses onto its end slot. Resolve never fails and
// returns its input unchanged when nothing is in the way.
//
// Only one obstruction per side is handled precisely; rows are non-overlapping
// before a drag starts, which is all a single drag can run into.
func Resolve(tl timeline.Config, row []Event, exclude, start, end int) (int, int) {
	start, end = tl.Clamp(start), tl.Clamp(end)
	if start > end {
		start, end = end, start
	}
	for i, o := range row {
		if i == exclude || start > o.End || o.Start > end {
			continue
		}
		switch {
		case start < o.Start && end <= o.End:
			end = o.Start - 1
		case start >= o.Start && end > o.End:
			start = o.End + 1
		case start < o.Start:
			if start+end < o.Start+o.End {
				end = o.Start - 1
			} else {
				start = o.End + 1
			}
		default:
			start = o.End + 1
		}
	}
	start, end = tl.Clamp(start), tl.Clamp(end)
	if start > end {
		start = end
	}
	return start, end
}

// Gap returns the widest free range of row containing slot, ignoring index
// exclude. ok is false when slot itself is taken.
func Gap(tl timeline.Config, row []Event, exclude, slot int) (lo, hi int, ok bool) {
	slot = tl.Clamp(slot)
	lo, hi = 0, tl.Last()
	for i, o := range row {
		if i == exclude {
			continue
		}
		switch {
		case o.Covers(slot):
			return 0, 0, false
		case o.End < slot && o.End+1 > lo:
			lo = o.End + 1
		case o.Start > slot && o.Start-1 < hi:
			hi = o.Start - 1
		}
	}
	return lo, hi, true
}
