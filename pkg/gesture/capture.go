package gesture

import "sync"

// Capture routes the process-wide pointer-up to whichever gesture holds it.
// A gesture acquires the capture on pointer-down and gives it back when it
// ends, so no release handler outlives its gesture.
type Capture struct {
	mu     sync.Mutex
	holder func() *Draft
	seq    uint64
}

// Acquire installs fn as the pointer-up handler, replacing any holder, and
// returns the func that gives the capture back. Release is idempotent and a
// stale release never evicts a newer holder.
func (c *Capture) Acquire(fn func() *Draft) (release func()) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.holder = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		if c.seq == seq {
			c.holder = nil
		}
		c.mu.Unlock()
	}
}

// Held reports whether a gesture currently holds the capture.
func (c *Capture) Held() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holder != nil
}

// PointerUp delivers a pointer-up from anywhere. ok is false when no gesture
// held the capture.
func (c *Capture) PointerUp() (d *Draft, ok bool) {
	c.mu.Lock()
	fn := c.holder
	c.mu.Unlock()
	if fn == nil {
		return nil, false
	}
	return fn(), true
}
