package testfixtures

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator issues UUIDs like the server does, but derived from a seed and a
// counter so runs are repeatable.
type IDGenerator struct {
	mu      sync.Mutex
	space   uuid.UUID
	counter uint64
	issued  []string
}

// NewIDGenerator returns a generator whose sequence is fixed by seed. An empty
// seed means "homework".
func NewIDGenerator(seed string) *IDGenerator {
	if seed == "" {
		seed = "homework"
	}
	return &IDGenerator{space: uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	id := uuid.NewSHA1(g.space, []byte(strconv.FormatUint(g.counter, 10))).String()
	g.issued = append(g.issued, id)
	return id
}

// NextFunc exposes Next for injection into services.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return uuid.NewString
	}
	return g.Next
}

// Issued returns every identifier handed out so far, oldest first.
func (g *IDGenerator) Issued() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.issued...)
}
