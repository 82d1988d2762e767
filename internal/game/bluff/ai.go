package bluff

import (
	"math/rand"

	"cardhall-service/internal/game/deck"
)

// Difficulty selects the computer seats' policy tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// MemoryAccuracy is the retention rate of each tier's card memory.
func (d Difficulty) MemoryAccuracy() float64 {
	switch d {
	case DifficultyHard:
		return 0.9
	case DifficultyMedium:
		return 0.7
	}
	return 0
}

// DecisionType is what a computer seat chose to do on its turn.
type DecisionType string

const (
	DecisionPlay      DecisionType = "play"
	DecisionChallenge DecisionType = "challenge"
	DecisionSkip      DecisionType = "skip"
)

// Decision is a computer seat's resolved move.
type Decision struct {
	Type        DecisionType
	Cards       []deck.Card
	ClaimedRank deck.Rank
}

// view is the table state a computer seat is allowed to see: its own
// hand plus public information.
type view struct {
	Hand         []deck.Card
	PileSize     int
	LatestCount  int
	ClaimedRank  deck.Rank
	LastHandSize int
	SelfWasLast  bool
	PileEmpty    bool
}

// decide runs the full policy for one turn: consider challenging the
// latest claim, consider skipping, otherwise play.
func decide(d Difficulty, v view, mem *Memory, rng *rand.Rand) Decision {
	if !v.PileEmpty && !v.SelfWasLast {
		if p := challengeProbability(d, v, mem); rng.Float64() < p {
			return Decision{Type: DecisionChallenge}
		}
		if p := skipProbability(v); rng.Float64() < p {
			return Decision{Type: DecisionSkip}
		}
		return followPlay(d, v, rng)
	}
	return firstPlay(v)
}

// challengeProbability estimates how likely the latest claim is a
// bluff. Claims that cannot possibly be true given the seat's own
// cards are always challenged.
func challengeProbability(d Difficulty, v view, mem *Memory) float64 {
	myNormal := 0
	myJoker := 0
	for _, c := range v.Hand {
		switch {
		case c.IsJoker():
			myJoker++
		case c.Rank == v.ClaimedRank:
			myNormal++
		}
	}
	maxTrueOutside := (4 - myNormal) + (2 - myJoker)
	if v.LatestCount > maxTrueOutside {
		return 1
	}

	if d == DifficultyEasy {
		return 0.08
	}

	var p float64
	switch {
	case v.LatestCount >= 3 && myNormal >= 2:
		p = 0.7
	case v.LatestCount == 2:
		p = 0.3
	case v.LatestCount == 1:
		p = 0.1
	}
	if v.LastHandSize <= 2 {
		p *= 0.5 // a near-empty hand tends to play honestly
	}

	if d == DifficultyHard {
		p += 0.15 * d.MemoryAccuracy() * float64(mem.Count(v.ClaimedRank))
		boost := 0.02 * float64(v.PileSize)
		if boost > 0.25 {
			boost = 0.25
		}
		p += boost
		if p > 0.95 {
			p = 0.95
		}
	}
	return p
}

// skipProbability weighs passing: attractive when the seat holds
// nothing true and the pile is already dangerous to inherit.
func skipProbability(v view) float64 {
	trueCards := 0
	for _, c := range v.Hand {
		if c.IsJoker() || c.Rank == v.ClaimedRank {
			trueCards++
		}
	}
	switch trueCards {
	case 0:
		switch {
		case v.PileSize >= 6:
			return 0.8
		case v.PileSize >= 3:
			return 0.6
		default:
			return 0.4
		}
	case 1:
		if v.PileSize >= 8 {
			return 0.6
		}
		if len(v.Hand) > 5 {
			return 0.3
		}
	}
	return 0
}

// firstPlay leads a fresh pile: claim the most-held rank and put down
// up to three of it, padding with jokers.
func firstPlay(v view) Decision {
	counts := make(map[deck.Rank]int)
	var best deck.Rank
	for _, c := range v.Hand {
		if c.IsJoker() {
			continue
		}
		counts[c.Rank]++
		if best == "" || counts[c.Rank] > counts[best] {
			best = c.Rank
		}
	}
	if best == "" {
		// Nothing but jokers left; claim an ace and play one.
		return Decision{
			Type:        DecisionPlay,
			Cards:       v.Hand[:1],
			ClaimedRank: deck.Ace,
		}
	}

	cards := make([]deck.Card, 0, 3)
	for _, c := range v.Hand {
		if c.Rank == best && len(cards) < 3 {
			cards = append(cards, c)
		}
	}
	for _, c := range v.Hand {
		if c.IsJoker() && len(cards) < 3 {
			cards = append(cards, c)
		}
	}
	return Decision{Type: DecisionPlay, Cards: cards, ClaimedRank: best}
}

// followPlay continues under the active claim: play the true cards if
// any are held, otherwise bluff a single card.
func followPlay(d Difficulty, v view, rng *rand.Rand) Decision {
	limit := 3
	if d == DifficultyHard {
		limit = 2 // holding one back keeps a later honest play available
	}
	cards := make([]deck.Card, 0, limit)
	for _, c := range v.Hand {
		if (c.Rank == v.ClaimedRank || c.IsJoker()) && len(cards) < limit {
			cards = append(cards, c)
		}
	}
	if len(cards) > 0 {
		return Decision{Type: DecisionPlay, Cards: cards, ClaimedRank: v.ClaimedRank}
	}

	// Bluff one card under the active claim.
	var bluffCard deck.Card
	if d == DifficultyEasy {
		bluffCard = v.Hand[rng.Intn(len(v.Hand))]
	} else {
		counts := make(map[deck.Rank]int)
		for _, c := range v.Hand {
			counts[c.Rank]++
		}
		bluffCard = v.Hand[0]
		for _, c := range v.Hand {
			if counts[c.Rank] > counts[bluffCard.Rank] {
				bluffCard = c
			}
		}
	}
	return Decision{
		Type:        DecisionPlay,
		Cards:       []deck.Card{bluffCard},
		ClaimedRank: v.ClaimedRank,
	}
}
