// Package triple implements the three-group card game: each round a
// player splits six cards into a single card, a 24-point pair and a
// three-card poker hand, then the groups are compared slot by slot.
package triple

import (
	"sort"

	"cardhall-service/internal/game/deck"
)

// GroupType identifies one of the three comparison slots.
type GroupType int

const (
	GroupSingle GroupType = iota
	GroupTwentyFour
	GroupThree
)

func (g GroupType) String() string {
	switch g {
	case GroupSingle:
		return "single"
	case GroupTwentyFour:
		return "twentyFourPoint"
	case GroupThree:
		return "threeCard"
	}
	return "unknown"
}

// HandType classifies a three-card poker hand, weakest first.
type HandType int

const (
	HighCard HandType = iota + 1
	Pair
	Straight
	Flush
	StraightFlush
	Triplet
)

func (h HandType) String() string {
	switch h {
	case HighCard:
		return "highCard"
	case Pair:
		return "pair"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case StraightFlush:
		return "straightFlush"
	case Triplet:
		return "triplet"
	}
	return "unknown"
}

// CompareSingle compares two single cards by rank then suit.
func CompareSingle(a, b deck.Card) int {
	return a.Compare(b)
}

// twentyFourSum is the point total of a pair, and whether it stays
// within the 24-point cap.
func twentyFourSum(cards [2]deck.Card) (int, bool) {
	sum := cards[0].PointValue() + cards[1].PointValue()
	return sum, sum <= 24
}

// maxByPoint picks the pair's card with the higher point value, suit
// breaking point ties.
func maxByPoint(cards [2]deck.Card) deck.Card {
	a, b := cards[0], cards[1]
	if a.PointValue() != b.PointValue() {
		if a.PointValue() > b.PointValue() {
			return a
		}
		return b
	}
	if a.SuitValue() >= b.SuitValue() {
		return a
	}
	return b
}

// Compare24Points compares two 24-point pairs. A pair whose sum stays
// at or under 24 is valid; valid beats invalid, two invalid pairs
// always tie. Between valid pairs the higher sum wins, then the
// stronger top card by rank and suit, then the lower card's point
// value.
func Compare24Points(a, b [2]deck.Card) int {
	sumA, okA := twentyFourSum(a)
	sumB, okB := twentyFourSum(b)
	if !okA && !okB {
		return 0
	}
	if okA != okB {
		if okA {
			return 1
		}
		return -1
	}
	if sumA != sumB {
		if sumA > sumB {
			return 1
		}
		return -1
	}
	ha := maxCard(a[:])
	hb := maxCard(b[:])
	if c := ha.Compare(hb); c != 0 {
		return c
	}
	// With equal sums and identical top cards, the lower cards carry
	// the same point value too; the step only matters for inputs that
	// share a physical card.
	la, lb := otherCard(a, ha), otherCard(b, hb)
	return sign(la.PointValue() - lb.PointValue())
}

func otherCard(cards [2]deck.Card, picked deck.Card) deck.Card {
	if picked.Equal(cards[0]) {
		return cards[1]
	}
	return cards[0]
}

func maxCard(cards []deck.Card) deck.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Compare(best) > 0 {
			best = c
		}
	}
	return best
}

// ThreeCardInfo is the classification of a three-card hand. Cards holds
// the hand sorted strongest first. For a pair, MainRank is the paired
// rank value and Kicker the odd card's rank value; both are zero
// otherwise.
type ThreeCardInfo struct {
	Type     HandType
	Cards    [3]deck.Card
	MainRank int
	Kicker   int
}

// ClassifyThree sorts the hand strongest first and names its type.
func ClassifyThree(cards [3]deck.Card) ThreeCardInfo {
	s := []deck.Card{cards[0], cards[1], cards[2]}
	deck.SortByRank(s)

	r0, r1, r2 := s[0].RankValue(), s[1].RankValue(), s[2].RankValue()
	sameSuit := s[0].Suit == s[1].Suit && s[1].Suit == s[2].Suit
	sequential := (r0 == r1+1 && r1 == r2+1) ||
		(r0 == 14 && r1 == 3 && r2 == 2) // A-3-2 wheel

	info := ThreeCardInfo{Cards: [3]deck.Card{s[0], s[1], s[2]}}
	switch {
	case r0 == r1 && r1 == r2:
		info.Type = Triplet
		info.MainRank = r0
	case sameSuit && sequential:
		info.Type = StraightFlush
	case sameSuit:
		info.Type = Flush
	case sequential:
		info.Type = Straight
	case r0 == r1:
		info.Type = Pair
		info.MainRank = r0
		info.Kicker = r2
	case r1 == r2:
		info.Type = Pair
		info.MainRank = r1
		info.Kicker = r0
	default:
		info.Type = HighCard
	}
	return info
}

// pairCards splits a classified pair hand into its paired cards and
// the kicker.
func pairCards(info ThreeCardInfo) (pair [2]deck.Card, kicker deck.Card) {
	s := info.Cards
	if s[0].RankValue() == s[1].RankValue() {
		return [2]deck.Card{s[0], s[1]}, s[2]
	}
	return [2]deck.Card{s[1], s[2]}, s[0]
}

// CompareThree compares two three-card hands. Type decides first; ties
// within a type break on ranks high to low, then on the strongest suit
// present, with pairs comparing main rank, kicker, pair suit, kicker
// suit in that order.
func CompareThree(a, b [3]deck.Card) int {
	ia := ClassifyThree(a)
	ib := ClassifyThree(b)
	if ia.Type != ib.Type {
		if ia.Type > ib.Type {
			return 1
		}
		return -1
	}

	switch ia.Type {
	case Triplet:
		if ia.MainRank != ib.MainRank {
			return sign(ia.MainRank - ib.MainRank)
		}
		return sign(maxCard(ia.Cards[:]).SuitValue() - maxCard(ib.Cards[:]).SuitValue())
	case Pair:
		if ia.MainRank != ib.MainRank {
			return sign(ia.MainRank - ib.MainRank)
		}
		if ia.Kicker != ib.Kicker {
			return sign(ia.Kicker - ib.Kicker)
		}
		pa, ka := pairCards(ia)
		pb, kb := pairCards(ib)
		sa := max(pa[0].SuitValue(), pa[1].SuitValue())
		sb := max(pb[0].SuitValue(), pb[1].SuitValue())
		if sa != sb {
			return sign(sa - sb)
		}
		return sign(ka.SuitValue() - kb.SuitValue())
	default:
		for i := 0; i < 3; i++ {
			if d := ia.Cards[i].RankValue() - ib.Cards[i].RankValue(); d != 0 {
				return sign(d)
			}
		}
		return sign(maxCard(ia.Cards[:]).SuitValue() - maxCard(ib.Cards[:]).SuitValue())
	}
}

func sign(d int) int {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	}
	return 0
}

// GroupEntry pairs a player with the comparator used to rank one slot
// across the table.
type GroupEntry struct {
	PlayerID int
	Compare  func(other GroupEntry) int
}

// RankGroups assigns dense competition ranks, 0 being best. An entry
// that ties the entry immediately before it in the sorted order shares
// that entry's rank.
func RankGroups(entries []GroupEntry) map[int]int {
	sorted := make([]GroupEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) > 0
	})

	ranks := make(map[int]int, len(sorted))
	for i, e := range sorted {
		if i > 0 && e.Compare(sorted[i-1]) == 0 {
			ranks[e.PlayerID] = ranks[sorted[i-1].PlayerID]
			continue
		}
		ranks[e.PlayerID] = i
	}
	return ranks
}

// Score converts a rank into points: rank 0 of n players earns n-1,
// the last rank earns 0, doubled for the three-card slot.
func Score(rank, playerCount int, double bool) int {
	s := playerCount - 1 - rank
	if double {
		s *= 2
	}
	return s
}

// ScoreSingle encodes a single card's strength as rank*10+suit.
func ScoreSingle(c deck.Card) int64 {
	return int64(c.RankValue()*10 + c.SuitValue())
}

// Score24 encodes a 24-point pair. A busted pair scores zero; a valid
// one packs sum, top card and bottom card into one comparable number.
func Score24(cards [2]deck.Card) int64 {
	sum, ok := twentyFourSum(cards)
	if !ok {
		return 0
	}
	hi := maxByPoint(cards)
	lo := cards[0]
	if hi.Equal(cards[0]) {
		lo = cards[1]
	}
	return int64(sum)*10000 +
		int64(hi.PointValue())*1000 +
		int64(hi.SuitValue())*100 +
		int64(lo.PointValue())*10 +
		int64(lo.SuitValue())
}

// ScorePoker encodes a three-card hand so that a higher value always
// means a winning hand under CompareThree.
func ScorePoker(cards [3]deck.Card) int64 {
	info := ClassifyThree(cards)
	base := int64(info.Type) * 1_000_000
	switch info.Type {
	case Triplet:
		return base + int64(info.MainRank)*1000 + int64(maxCard(info.Cards[:]).SuitValue())
	case Pair:
		pair, kicker := pairCards(info)
		return base +
			int64(info.MainRank)*10000 +
			int64(info.Kicker)*100 +
			int64(max(pair[0].SuitValue(), pair[1].SuitValue()))*10 +
			int64(kicker.SuitValue())
	default:
		return base +
			int64(info.Cards[0].RankValue())*10000 +
			int64(info.Cards[1].RankValue())*100 +
			int64(info.Cards[2].RankValue()) +
			int64(maxCard(info.Cards[:]).SuitValue())
	}
}
