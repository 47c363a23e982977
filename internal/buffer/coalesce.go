package buffer

// Coalescer holds the latest shaped value until the next frame commits it.
// At most one frame is outstanding at a time.
type Coalescer struct {
	latest    string
	scheduled bool
}

// Propose stores v as the value for the next frame. It reports true when the
// caller must request a frame, which happens only for the first proposal
// after a flush.
func (c *Coalescer) Propose(v string) bool {
	c.latest = v
	if c.scheduled {
		return false
	}
	c.scheduled = true
	return true
}

// Pending returns the value waiting for the next frame, if any.
func (c *Coalescer) Pending() (string, bool) {
	return c.latest, c.scheduled
}

// Flush ends the outstanding frame. It returns the value to write and whether
// it differs from current; an unchanged value must not be written.
func (c *Coalescer) Flush(current string) (string, bool) {
	if !c.scheduled {
		return current, false
	}
	c.scheduled = false
	return c.latest, c.latest != current
}

// Reset drops any pending value.
func (c *Coalescer) Reset() {
	c.latest = ""
	c.scheduled = false
}
