package testutil

import (
	"fmt"
	"sync"
)

// FixedRequestIDs returns the same request ID every time.
//
// This keeps log output and golden traces byte-identical between runs.
//
// Thread-safety: FixedRequestIDs is stateless and safe for concurrent use.
type FixedRequestIDs struct {
	id string
}

// NewFixedRequestIDs creates a fixed generator.
// If id is empty, Generate() returns "test-request".
func NewFixedRequestIDs(id string) *FixedRequestIDs {
	if id == "" {
		id = "test-request"
	}
	return &FixedRequestIDs{id: id}
}

// Generate returns the fixed request ID.
func (g *FixedRequestIDs) Generate() string {
	return g.id
}

// SequentialRequestIDs returns "req-1", "req-2", ... in call order.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SequentialRequestIDs struct {
	mu  sync.Mutex
	seq int64
}

// NewSequentialRequestIDs creates a generator whose first ID is "req-1".
func NewSequentialRequestIDs() *SequentialRequestIDs {
	return &SequentialRequestIDs{}
}

// Generate increments the counter and returns the next ID.
func (g *SequentialRequestIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("req-%d", g.seq)
}

// Reset restarts the sequence so the next call returns "req-1".
func (g *SequentialRequestIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
