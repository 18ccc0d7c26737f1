package generator

import (
	"math/rand/v2"
	"sync"
	"time"

	"aristo/pkg/codes"
)

// Generator draws random codes. Uniqueness is not checked here; duplicates
// collapse when a batch is merged into the remote code set.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator seeded from the clock
func NewGenerator() *Generator {
	now := uint64(time.Now().UnixNano())
	return NewSeededGenerator(now, now>>32|now<<32)
}

// NewSeededGenerator creates a deterministic generator, mostly for tests
func NewSeededGenerator(seed1, seed2 uint64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// Next returns one code drawn uniformly from [codes.Min, codes.Max]
func (g *Generator) Next() codes.Code {
	g.mu.Lock()
	defer g.mu.Unlock()
	return codes.Min + codes.Code(g.rng.Uint64N(uint64(codes.Max-codes.Min)+1))
}

// Generate returns count independent codes
func (g *Generator) Generate(count int) []codes.Code {
	if count <= 0 {
		return []codes.Code{}
	}

	batch := make([]codes.Code, count)
	for i := range batch {
		batch[i] = g.Next()
	}
	return batch
}
