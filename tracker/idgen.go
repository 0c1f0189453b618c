package tracker

import "sync"

// IDGenerator hands out incremental track IDs starting from zero.  Each
// Tracker owns its own generator so IDs are reproducible from its inputs.
type IDGenerator struct {
	next int
	sync.Mutex
}

// NewIDGenerator returns a generator whose first ID is 0
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// GetNext returns the next incremental ID
func (g *IDGenerator) GetNext() int {
	g.Lock()
	defer g.Unlock()

	id := g.next
	g.next++

	return id
}

// Reset restarts the sequence from zero
func (g *IDGenerator) Reset() {
	g.Lock()
	defer g.Unlock()

	g.next = 0
}
