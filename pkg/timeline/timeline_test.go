package timeline

import "testing"

func TestDefaultTotalSlots(t *testing.T) {
	c := Default()
	if got := c.TotalSlots(); got != 44 {
		t.Fatalf("expected 44 slots, got %d", got)
	}
	if got := c.Last(); got != 43 {
		t.Fatalf("expected last slot 43, got %d", got)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestClamp(t *testing.T) {
	c := Default()
	cases := map[int]int{-5: 0, 0: 0, 17: 17, 43: 43, 44: 43, 1000: 43}
	for in, want := range cases {
		if got := c.Clamp(in); got != want {
			t.Fatalf("Clamp(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestContains(t *testing.T) {
	c := Default()
	if c.Contains(-1) || c.Contains(44) {
		t.Fatalf("expected out of range slots to be rejected")
	}
	if !c.Contains(0) || !c.Contains(43) {
		t.Fatalf("expected edge slots to be accepted")
	}
}

func TestValidateRejects(t *testing.T) {
	bad := []Config{
		{StartHour: 10, EndHour: 9, SlotsPerHour: 4, Rows: 1},
		{StartHour: 9, EndHour: 25, SlotsPerHour: 4, Rows: 1},
		{StartHour: 9, EndHour: 17, SlotsPerHour: 7, Rows: 1},
		{StartHour: 9, EndHour: 17, SlotsPerHour: 4, Rows: 0},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected error for %+v", i, c)
		}
	}
}

func TestLabels(t *testing.T) {
	c := Default()
	if got := c.Label(0); got != "09:00" {
		t.Fatalf("expected 09:00, got %s", got)
	}
	if got := c.Label(5); got != "10:15" {
		t.Fatalf("expected 10:15, got %s", got)
	}
	if got := c.Span(4, 9); got != "10:00-11:30" {
		t.Fatalf("unexpected span %s", got)
	}
	if got := c.Span(43, 43); got != "19:45-20:00" {
		t.Fatalf("unexpected span %s", got)
	}
}
