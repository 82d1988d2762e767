package deck

import (
	"sort"
	"strconv"
)

// Suit of a playing card.
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
	JokerS   Suit = "joker"
)

// Rank of a playing card. The graded jokers exist only in the bank game's
// money deck; the plain Joker acts as a wildcard in the bluff game.
type Rank string

const (
	Two        Rank = "2"
	Three      Rank = "3"
	Four       Rank = "4"
	Five       Rank = "5"
	Six        Rank = "6"
	Seven      Rank = "7"
	Eight      Rank = "8"
	Nine       Rank = "9"
	Ten        Rank = "10"
	Jack       Rank = "J"
	Queen      Rank = "Q"
	King       Rank = "K"
	Ace        Rank = "A"
	Joker      Rank = "JOKER"
	SmallJoker Rank = "SMALL_JOKER"
	BigJoker   Rank = "BIG_JOKER"
)

// StandardRanks in display order, ace high.
var StandardRanks = []Rank{Ace, King, Queen, Jack, Ten, Nine, Eight, Seven, Six, Five, Four, Three, Two}

// StandardSuits in display order, spades first.
var StandardSuits = []Suit{Spades, Hearts, Clubs, Diamonds}

// rankPriority is the comparison order of ranks, ace high, jokers above all.
var rankPriority = map[Rank]int{
	Ace: 14, King: 13, Queen: 12, Jack: 11,
	Ten: 10, Nine: 9, Eight: 8, Seven: 7, Six: 6,
	Five: 5, Four: 4, Three: 3, Two: 2,
	Joker: 15, SmallJoker: 15, BigJoker: 16,
}

// suitPriority is used only as a tie-break, never for legality.
var suitPriority = map[Suit]int{
	Spades: 4, Hearts: 3, Clubs: 2, Diamonds: 1, JokerS: 0,
}

var suitGlyphs = map[Suit]string{
	Spades: "♠", Hearts: "♥", Clubs: "♣", Diamonds: "♦", JokerS: "🃏",
}

// Card is an immutable rank+suit value. Two cards are equal iff rank and
// suit match exactly; a deck never contains duplicate rank+suit pairs.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) RankValue() int {
	return rankPriority[c.Rank]
}

func (c Card) SuitValue() int {
	return suitPriority[c.Suit]
}

// PointValue is the 24-point face value: A=1, J=11, Q=12, K=13, numbers
// at face value. Jokers carry no point value.
func (c Card) PointValue() int {
	switch c.Rank {
	case Ace:
		return 1
	case Jack:
		return 11
	case Queen:
		return 12
	case King:
		return 13
	case Joker, SmallJoker, BigJoker:
		return 0
	}
	v, _ := strconv.Atoi(string(c.Rank))
	return v
}

func (c Card) IsJoker() bool {
	return c.Suit == JokerS
}

func (c Card) Color() string {
	if c.Suit == Hearts || c.Suit == Diamonds {
		return "red"
	}
	return "black"
}

func (c Card) Equal(other Card) bool {
	return c.Rank == other.Rank && c.Suit == other.Suit
}

func (c Card) String() string {
	if c.IsJoker() {
		return string(c.Rank)
	}
	return string(c.Rank) + suitGlyphs[c.Suit]
}

// Compare orders by rank priority, then suit priority. Returns 1 if c
// is the stronger card, -1 if other is, 0 on exact equality.
func (c Card) Compare(other Card) int {
	if c.RankValue() != other.RankValue() {
		if c.RankValue() > other.RankValue() {
			return 1
		}
		return -1
	}
	if c.SuitValue() != other.SuitValue() {
		if c.SuitValue() > other.SuitValue() {
			return 1
		}
		return -1
	}
	return 0
}

// SortByRank sorts in place, strongest first (rank desc, suit desc).
func SortByRank(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Compare(cards[j]) > 0
	})
}

// SortForDeal sorts in place using the fixed display table applied after a
// deal: suit order spades/hearts/clubs/diamonds, then rank A..2 within a
// suit. This intentionally differs from the comparison order.
func SortForDeal(cards []Card) {
	suitIdx := func(s Suit) int {
		for i, v := range StandardSuits {
			if v == s {
				return i
			}
		}
		return len(StandardSuits)
	}
	rankIdx := func(r Rank) int {
		for i, v := range StandardRanks {
			if v == r {
				return i
			}
		}
		return len(StandardRanks)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		if suitIdx(cards[i].Suit) != suitIdx(cards[j].Suit) {
			return suitIdx(cards[i].Suit) < suitIdx(cards[j].Suit)
		}
		return rankIdx(cards[i].Rank) < rankIdx(cards[j].Rank)
	})
}

// Contains reports whether cards holds an exact rank+suit match.
func Contains(cards []Card, c Card) bool {
	for _, v := range cards {
		if v.Equal(c) {
			return true
		}
	}
	return false
}

// Remove returns cards minus every exact match found in used.
func Remove(cards []Card, used []Card) []Card {
	kept := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !Contains(used, c) {
			kept = append(kept, c)
		}
	}
	return kept
}
