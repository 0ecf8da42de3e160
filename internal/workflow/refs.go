package workflow

import (
	"fmt"
	"math/rand"
	"sync"
)

// refGenerator mints the paired booking and tag identifiers from one
// five-digit random draw, so a tag is always traceable to its booking.
// Draws never repeat within a process lifetime; the five-digit space is
// small enough that collisions would otherwise show up in normal use.
type refGenerator struct {
	mu   sync.Mutex
	rand *rand.Rand
	used map[int]struct{}
}

func newRefGenerator(seed int64) *refGenerator {
	return &refGenerator{
		rand: rand.New(rand.NewSource(seed)),
		used: make(map[int]struct{}),
	}
}

// Next returns a fresh (bookingID, tagCode) pair, e.g. BB-41387, TAG-41387.
func (g *refGenerator) Next() (string, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		n := 10000 + g.rand.Intn(90000)
		if _, taken := g.used[n]; taken {
			continue
		}
		g.used[n] = struct{}{}
		return fmt.Sprintf("BB-%d", n), fmt.Sprintf("TAG-%d", n)
	}
}
