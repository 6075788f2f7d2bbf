// Package idgen provides ID generation: prefixed unique IDs for monsters and
// damage entries, and short numeric codes for sessions.
package idgen

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// UUIDGenerator generates UUID-based IDs with an optional prefix
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a new UUID generator with optional prefix
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate() string {
	id := uuid.New().String()
	if g.prefix != "" {
		return fmt.Sprintf("%s_%s", g.prefix, id)
	}
	return id
}

// SequentialGenerator generates sequential IDs for testing
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s_%d", g.prefix, n)
	}
	return fmt.Sprintf("%d", n)
}

// CodeDigits is the width of generated session codes. Codes are zero-padded
// numeric strings so players can read them out across the table.
const CodeDigits = 6

// NumericCodeGenerator generates random zero-padded numeric session codes.
// Uniqueness is not guaranteed here; callers check against live sessions and
// retry.
type NumericCodeGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewNumericCode creates a code generator from the given seed source.
// Pass nil to seed from the global source.
func NewNumericCode(rng *rand.Rand) *NumericCodeGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &NumericCodeGenerator{rng: rng}
}

// Generate returns a random numeric code of CodeDigits digits
func (g *NumericCodeGenerator) Generate() string {
	g.mu.Lock()
	n := g.rng.Intn(1_000_000)
	g.mu.Unlock()
	return fmt.Sprintf("%0*d", CodeDigits, n)
}
