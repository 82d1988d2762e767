package deck

import "math/rand"

// Deck is an ordered pile of cards. Draw operations pop from the end.
type Deck struct {
	cards           []Card
	discardedJokers int
}

// Option configures the composition of a new deck.
type Option func(*Deck)

// WithJokers appends two identical wildcard jokers.
func WithJokers() Option {
	return func(d *Deck) {
		d.cards = append(d.cards,
			Card{Rank: Joker, Suit: JokerS},
			Card{Rank: Joker, Suit: JokerS},
		)
	}
}

// WithGradedJokers appends a small and a big joker. Used by the money
// deck where the two jokers carry different values.
func WithGradedJokers() Option {
	return func(d *Deck) {
		d.cards = append(d.cards,
			Card{Rank: SmallJoker, Suit: JokerS},
			Card{Rank: BigJoker, Suit: JokerS},
		)
	}
}

// New builds a 52-card deck in a fixed order, then applies options.
func New(opts ...Option) *Deck {
	d := &Deck{cards: make([]Card, 0, 54)}
	for _, s := range StandardSuits {
		for _, r := range StandardRanks {
			d.cards = append(d.cards, Card{Rank: r, Suit: s})
		}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Shuffle performs a Fisher-Yates shuffle with the caller's source.
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw pops the top card. ok is false once the deck is empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

// DrawSkippingJokers pops cards until a non-joker turns up. Skipped
// jokers are discarded for the rest of the deal and counted.
func (d *Deck) DrawSkippingJokers() (Card, bool) {
	for {
		c, ok := d.Draw()
		if !ok {
			return Card{}, false
		}
		if c.IsJoker() {
			d.discardedJokers++
			continue
		}
		return c, true
	}
}

// DrawMany draws n non-joker cards, or fewer if the deck runs dry.
func (d *Deck) DrawMany(n int) []Card {
	out := make([]Card, 0, n)
	for len(out) < n {
		c, ok := d.DrawSkippingJokers()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

// DrawManyAny draws n cards jokers included, or fewer if the deck runs dry.
func (d *Deck) DrawManyAny(n int) []Card {
	out := make([]Card, 0, n)
	for len(out) < n {
		c, ok := d.Draw()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

func (d *Deck) DiscardedJokers() int {
	return d.discardedJokers
}
