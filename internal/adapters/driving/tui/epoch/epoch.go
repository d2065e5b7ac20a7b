// Package epoch provides request sequence counters for TUI views.
//
// A view calls Next before issuing a request and stores the returned
// value in the command's completion message. When the message comes
// back, IsCurrent reports whether it answers the latest request; older
// answers are dropped so the last request always wins.
package epoch

// Counter is a monotonically increasing request sequence.
// It is only touched from the Bubbletea update goroutine.
type Counter struct {
	seq uint64
}

// Next advances the counter and returns the new sequence.
func (c *Counter) Next() uint64 {
	c.seq++
	return c.seq
}

// Current returns the latest issued sequence.
func (c *Counter) Current() uint64 {
	return c.seq
}

// IsCurrent reports whether seq is the latest issued sequence.
// Zero is never current.
func (c *Counter) IsCurrent(seq uint64) bool {
	return seq != 0 && seq == c.seq
}
