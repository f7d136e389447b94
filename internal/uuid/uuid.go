// Package uuid hands out identifiers for finished characters behind an
// interface so tests can pin them.
package uuid

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator is an interface for generating UUIDs
type Generator interface {
	New() string
}

// RandomGenerator returns random version 4 UUIDs
type RandomGenerator struct{}

// NewRandomGenerator creates a RandomGenerator
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// New returns a fresh UUID string
func (g *RandomGenerator) New() string {
	return uuid.New().String()
}

// SequenceGenerator returns predictable, well-formed UUIDs: the first call
// yields 00000000-0000-0000-0000-000000000001, the next ...002 and so on.
type SequenceGenerator struct {
	mu   sync.Mutex
	next uint64
}

// NewSequenceGenerator creates a SequenceGenerator starting at 1
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{next: 1}
}

// New returns the next UUID in the sequence
func (g *SequenceGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012x", g.next))
	g.next++
	return id.String()
}
