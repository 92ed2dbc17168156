package blocks

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator mints block ids. taken reports whether a candidate is already a
// key of the document being built (including ids minted earlier in the same
// pass); a generator must never return a taken id.
type IDGenerator interface {
	NewID(taken func(id string) bool) string
}

// ID strategies accepted by NewIDGenerator
const (
	IDStrategyCounter = "counter"
	IDStrategyUUID    = "uuid"
	IDStrategyShort   = "short"
)

// NewIDGenerator returns the generator for the given strategy name
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case IDStrategyCounter, "":
		return NewCounterGenerator("block"), nil
	case IDStrategyUUID:
		return UUIDGenerator{}, nil
	case IDStrategyShort:
		return ShortGenerator{}, nil
	default:
		return nil, fmt.Errorf("unsupported id strategy: %s", strategy)
	}
}

// CounterGenerator hands out <prefix>-<n> with a monotonic counter,
// skipping any value already present in the document.
type CounterGenerator struct {
	mu     sync.Mutex
	prefix string
	next   uint64
}

// NewCounterGenerator creates a counter generator with the given id prefix
func NewCounterGenerator(prefix string) *CounterGenerator {
	return &CounterGenerator{prefix: prefix}
}

func (g *CounterGenerator) NewID(taken func(id string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		g.next++
		id := fmt.Sprintf("%s-%d", g.prefix, g.next)
		if taken == nil || !taken(id) {
			return id
		}
	}
}

// UUIDGenerator mints random v4 UUIDs and re-draws on collision
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(taken func(id string) bool) string {
	for {
		id := uuid.NewString()
		if taken == nil || !taken(id) {
			return id
		}
	}
}

const shortAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ShortGenerator mints 7-character base36 ids and re-draws on collision
type ShortGenerator struct{}

func (ShortGenerator) NewID(taken func(id string) bool) string {
	for {
		buf := make([]byte, 7)
		for i := range buf {
			buf[i] = shortAlphabet[rand.Intn(len(shortAlphabet))]
		}
		id := string(buf)
		if taken == nil || !taken(id) {
			return id
		}
	}
}
