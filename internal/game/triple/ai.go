package triple

import (
	"math/rand"

	"cardhall-service/internal/game/deck"
)

// Grouping is one complete split of a hand: the three submitted slots
// plus whatever stays behind for the next sub-round.
type Grouping struct {
	Single     [1]deck.Card
	TwentyFour [2]deck.Card
	Three      [3]deck.Card
	Remaining  []deck.Card
}

// Score sums the slot encodings, weighting the three-card slot double
// to mirror its doubled round score.
func (g Grouping) Score() int64 {
	return ScoreSingle(g.Single[0]) + Score24(g.TwentyFour) + 2*ScorePoker(g.Three)
}

// Combinations yields every k-subset of cards as index-order slices.
func Combinations(cards []deck.Card, k int) [][]deck.Card {
	var out [][]deck.Card
	idx := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			pick := make([]deck.Card, k)
			for i, j := range idx {
				pick[i] = cards[j]
			}
			out = append(out, pick)
			return
		}
		for i := start; i <= len(cards)-(k-depth); i++ {
			idx[depth] = i
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}

// EnumerateSix tries every split of exactly six cards into the three
// slots and keeps the first highest-scoring one.
func EnumerateSix(cards []deck.Card) Grouping {
	if len(cards) != 6 {
		panic("triple: EnumerateSix needs exactly 6 cards")
	}
	var best Grouping
	bestScore := int64(-1)
	for i, single := range cards {
		rest5 := make([]deck.Card, 0, 5)
		rest5 = append(rest5, cards[:i]...)
		rest5 = append(rest5, cards[i+1:]...)
		for _, pair := range Combinations(rest5, 2) {
			three := deck.Remove(rest5, pair)
			g := Grouping{
				Single:     [1]deck.Card{single},
				TwentyFour: [2]deck.Card{pair[0], pair[1]},
				Three:      [3]deck.Card{three[0], three[1], three[2]},
			}
			if s := g.Score(); s > bestScore {
				bestScore = s
				best = g
			}
		}
	}
	return best
}

// EnumerateBest picks the best six of a twelve-card hand, trying every
// six-card subset and splitting each. The unpicked six become the
// grouping's Remaining cards.
func EnumerateBest(hand []deck.Card) Grouping {
	if len(hand) <= 6 {
		g := EnumerateSix(hand)
		g.Remaining = nil
		return g
	}
	var best Grouping
	bestScore := int64(-1)
	for _, six := range Combinations(hand, 6) {
		g := EnumerateSix(six)
		if s := g.Score(); s > bestScore {
			bestScore = s
			g.Remaining = deck.Remove(hand, six)
			best = g
		}
	}
	return best
}

// Strategy selects how a computer seat splits its hand. Enumerate is
// the exact search and the default; smart and random are the weaker
// tiers.
type Strategy string

const (
	StrategyEnumerate Strategy = "enumerate"
	StrategySmart     Strategy = "smart"
	StrategyRandom    Strategy = "random"
)

// Decide runs the configured strategy over hand. An unset strategy
// gets the exhaustive enumeration.
func Decide(strategy Strategy, hand []deck.Card, rng *rand.Rand) Grouping {
	switch strategy {
	case StrategySmart:
		return SmartStrategy(hand)
	case StrategyRandom:
		return RandomStrategy(hand, rng)
	default:
		return EnumerateBest(hand)
	}
}

// RandomStrategy shuffles the hand and fills the slots positionally.
func RandomStrategy(hand []deck.Card, rng *rand.Rand) Grouping {
	shuffled := make([]deck.Card, len(hand))
	copy(shuffled, hand)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	g := Grouping{
		Single:     [1]deck.Card{shuffled[0]},
		TwentyFour: [2]deck.Card{shuffled[1], shuffled[2]},
		Three:      [3]deck.Card{shuffled[3], shuffled[4], shuffled[5]},
	}
	if len(shuffled) > 6 {
		g.Remaining = shuffled[6:]
	}
	return g
}

// SmartStrategy greedily builds each slot: the strongest single card,
// then the pair with the highest valid 24-point encoding, then the
// best remaining three-card hand.
func SmartStrategy(hand []deck.Card) Grouping {
	pool := make([]deck.Card, len(hand))
	copy(pool, hand)

	single := maxCard(pool)
	pool = deck.Remove(pool, []deck.Card{single})

	var bestPair [2]deck.Card
	bestPairScore := int64(-1)
	for _, pair := range Combinations(pool, 2) {
		p := [2]deck.Card{pair[0], pair[1]}
		if s := Score24(p); s > bestPairScore {
			bestPairScore = s
			bestPair = p
		}
	}
	pool = deck.Remove(pool, bestPair[:])

	var bestThree [3]deck.Card
	bestThreeScore := int64(-1)
	for _, three := range Combinations(pool, 3) {
		t := [3]deck.Card{three[0], three[1], three[2]}
		if s := ScorePoker(t); s > bestThreeScore {
			bestThreeScore = s
			bestThree = t
		}
	}
	pool = deck.Remove(pool, bestThree[:])

	return Grouping{
		Single:     [1]deck.Card{single},
		TwentyFour: bestPair,
		Three:      bestThree,
		Remaining:  pool,
	}
}
