// Package bluff implements the four-player calling game: cards go down
// face down under a rank claim, and any other seat may force a reveal.
package bluff

import (
	"math/rand"

	"cardhall-service/internal/game/deck"
)

// Memory is an imperfect record of cards a computer seat has seen
// leave play. Each observed card is retained with the seat's accuracy,
// so weaker opponents remember less of what was revealed.
type Memory struct {
	accuracy float64
	rng      *rand.Rand
	seen     map[deck.Rank]int
}

func NewMemory(accuracy float64, rng *rand.Rand) *Memory {
	return &Memory{
		accuracy: accuracy,
		rng:      rng,
		seen:     make(map[deck.Rank]int),
	}
}

// Observe offers revealed or discarded cards to the memory. Jokers are
// never worth remembering, they match any claim.
func (m *Memory) Observe(cards []deck.Card) {
	for _, c := range cards {
		if c.IsJoker() {
			continue
		}
		if m.rng.Float64() < m.accuracy {
			m.seen[c.Rank]++
		}
	}
}

// Count reports how many cards of rank the seat remembers seeing.
func (m *Memory) Count(rank deck.Rank) int {
	return m.seen[rank]
}
