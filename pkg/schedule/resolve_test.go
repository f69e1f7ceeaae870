package schedule

import (
	"testing"

	"tableflip.dev/slotboard/pkg/timeline"
)

func TestResolve(t *testing.T) {
	tl := timeline.Default()
	row := []Event{
		{Start: 10, End: 15, Title: "a"},
		{Start: 20, End: 25, Title: "b"},
	}

	tests := []struct {
		name       string
		exclude    int
		start, end int
		wantStart  int
		wantEnd    int
	}{
		{name: "free range unchanged", exclude: -1, start: 0, end: 5, wantStart: 0, wantEnd: 5},
		{name: "reversed input is ordered", exclude: -1, start: 5, end: 1, wantStart: 1, wantEnd: 5},
		{name: "clamped into bounds", exclude: -1, start: -4, end: 3, wantStart: 0, wantEnd: 3},
		{name: "clamped at the far end", exclude: -1, start: 40, end: 90, wantStart: 40, wantEnd: 43},
		{name: "end snaps before neighbor", exclude: 0, start: 10, end: 22, wantStart: 10, wantEnd: 19},
		{name: "start snaps after neighbor", exclude: 1, start: 13, end: 25, wantStart: 16, wantEnd: 25},
		{name: "back to back is kept", exclude: -1, start: 16, end: 19, wantStart: 16, wantEnd: 19},
		{name: "creation against left edge", exclude: -1, start: 5, end: 12, wantStart: 5, wantEnd: 9},
		{name: "gap slot between neighbors", exclude: -1, start: 17, end: 17, wantStart: 17, wantEnd: 17},
		{name: "swallowed range collapses", exclude: -1, start: 11, end: 12, wantStart: 12, wantEnd: 12},
		{name: "covering range keeps its longer left side", exclude: 1, start: 1, end: 19, wantStart: 1, wantEnd: 9},
		{name: "covering range keeps its longer right side", exclude: 1, start: 6, end: 30, wantStart: 16, wantEnd: 30},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, e := Resolve(tl, row, tc.exclude, tc.start, tc.end)
			if s != tc.wantStart || e != tc.wantEnd {
				t.Fatalf("Resolve(%d,%d) = [%d,%d], want [%d,%d]", tc.start, tc.end, s, e, tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	tl := timeline.Default()
	row := []Event{
		{Start: 10, End: 15, Title: "a"},
		{Start: 20, End: 25, Title: "b"},
	}
	for start := -3; start < 48; start++ {
		for end := start; end < 48; end += 3 {
			s1, e1 := Resolve(tl, row, 0, start, end)
			s2, e2 := Resolve(tl, row, 0, start, end)
			if s1 != s2 || e1 != e2 {
				t.Fatalf("Resolve(%d,%d) not stable: [%d,%d] vs [%d,%d]", start, end, s1, e1, s2, e2)
			}
			if s1 > e1 || s1 < 0 || e1 > tl.Last() {
				t.Fatalf("Resolve(%d,%d) = [%d,%d] out of bounds", start, end, s1, e1)
			}
			// Feeding the answer back in must not move it when it is free.
			if s3, e3 := Resolve(tl, row, 0, s1, e1); !Overlaps(Event{Start: s1, End: e1}, row[1]) && (s3 != s1 || e3 != e1) {
				t.Fatalf("Resolve drifted: [%d,%d] -> [%d,%d]", s1, e1, s3, e3)
			}
		}
	}
}

func TestGap(t *testing.T) {
	tl := timeline.Default()
	row := []Event{
		{Start: 10, End: 15, Title: "a"},
		{Start: 20, End: 25, Title: "b"},
	}
	cases := []struct {
		slot    int
		exclude int
		lo, hi  int
		ok      bool
	}{
		{slot: 17, exclude: -1, lo: 16, hi: 19, ok: true},
		{slot: 3, exclude: -1, lo: 0, hi: 9, ok: true},
		{slot: 40, exclude: -1, lo: 26, hi: 43, ok: true},
		{slot: 12, exclude: -1, ok: false},
		{slot: 12, exclude: 0, lo: 0, hi: 19, ok: true},
	}
	for _, tc := range cases {
		lo, hi, ok := Gap(tl, row, tc.exclude, tc.slot)
		if ok != tc.ok || (ok && (lo != tc.lo || hi != tc.hi)) {
			t.Fatalf("Gap(%d) = %d,%d,%v want %d,%d,%v", tc.slot, lo, hi, ok, tc.lo, tc.hi, tc.ok)
		}
	}
}
