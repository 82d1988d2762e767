package bank

import (
	"math/rand"

	"cardhall-service/internal/game/deck"
	appErr "cardhall-service/pkg/errors"
)

const handSizeAtDeal = 5

// Phase of a bank game. Playing means the current seat draws next;
// Paying means the seat after the drawer owes the drawn card's value.
type Phase string

const (
	PhasePlaying  Phase = "playing"
	PhasePaying   Phase = "paying"
	PhaseGameOver Phase = "gameOver"
)

// Player is one seat. An eliminated seat keeps no cards.
type Player struct {
	ID         int
	Name       string
	IsHuman    bool
	Hand       []deck.Card
	Out        bool
	FinalValue int
}

// Game is the full state of a bank match for two or three seats.
type Game struct {
	rng  *rand.Rand
	deck *deck.Deck

	Phase           Phase
	Players         []*Player
	Current         int
	Drawn           *deck.Card
	RequiredPayment int
	Discard         []deck.Card
}

// New deals a game: five cards per seat from a full 54-card money deck
// with both graded jokers in play, and a random first seat.
func New(names []string, humanSeat int, rng *rand.Rand) (*Game, error) {
	if len(names) < 2 || len(names) > 3 {
		return nil, appErr.ErrInvalidPlay
	}
	d := deck.New(deck.WithGradedJokers())
	d.Shuffle(rng)

	g := &Game{rng: rng, Phase: PhasePlaying}
	for i, name := range names {
		g.Players = append(g.Players, &Player{
			ID:      i + 1,
			Name:    name,
			IsHuman: i == humanSeat,
		})
	}
	for i := 0; i < handSizeAtDeal; i++ {
		for _, p := range g.Players {
			c, ok := d.Draw()
			if !ok {
				return nil, appErr.ErrDeckExhausted
			}
			p.Hand = append(p.Hand, c)
		}
	}
	for _, p := range g.Players {
		SortByValue(p.Hand)
	}
	g.Current = rng.Intn(len(g.Players))
	g.deck = d
	return g, nil
}

// CurrentPlayer is the seat that acts next: the drawer while playing,
// the payer while paying.
func (g *Game) CurrentPlayer() *Player {
	if g.Phase == PhasePaying {
		if i := g.nextActiveIndex(); i >= 0 {
			return g.Players[i]
		}
	}
	return g.Players[g.Current]
}

func (g *Game) player(id int) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// nextActiveIndex finds the next surviving seat after the drawer.
func (g *Game) nextActiveIndex() int {
	for step := 1; step <= len(g.Players); step++ {
		i := (g.Current + step) % len(g.Players)
		if !g.Players[i].Out {
			return i
		}
	}
	return -1
}

func (g *Game) activeCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.Out {
			n++
		}
	}
	return n
}

// DeckRemaining exposes the draw pile size.
func (g *Game) DeckRemaining() int {
	return g.deck.Remaining()
}

// Draw has the current seat take the top card into its hand and
// demand its value from the next surviving seat. An empty deck or a
// lone survivor ends the game instead.
func (g *Game) Draw(playerID int) error {
	if g.Phase != PhasePlaying {
		return appErr.ErrWrongPhase
	}
	if g.Players[g.Current].ID != playerID {
		return appErr.ErrNotYourTurn
	}
	c, ok := g.deck.Draw()
	if !ok {
		g.endGame()
		return nil
	}
	p := g.Players[g.Current]
	p.Hand = append(p.Hand, c)
	SortByValue(p.Hand)
	g.Drawn = &c
	g.RequiredPayment = CardValue(c)
	g.Phase = PhasePaying

	if i := g.nextActiveIndex(); i < 0 || i == g.Current {
		g.endGame()
	}
	return nil
}

// Pay settles the demanded amount with the given cards. The payment
// must come from the payer's hand and sum exactly to the demand; the
// cards leave the game and the payer draws next.
func (g *Game) Pay(playerID int, cards []deck.Card) error {
	if g.Phase != PhasePaying {
		return appErr.ErrWrongPhase
	}
	payerIdx := g.nextActiveIndex()
	payer := g.Players[payerIdx]
	if payer.ID != playerID {
		return appErr.ErrNotYourTurn
	}
	sum := 0
	for i := range cards {
		if !deck.Contains(payer.Hand, cards[i]) {
			return appErr.ErrCardsNotInHand
		}
		for j := i + 1; j < len(cards); j++ {
			if cards[i].Equal(cards[j]) {
				return appErr.ErrInvalidPlay
			}
		}
		sum += CardValue(cards[i])
	}
	if sum != g.RequiredPayment {
		return appErr.ErrInvalidPlay
	}

	payer.Hand = deck.Remove(payer.Hand, cards)
	g.Discard = append(g.Discard, cards...)
	g.Current = payerIdx
	g.Drawn = nil
	g.RequiredPayment = 0
	g.Phase = PhasePlaying

	if g.deck.IsEmpty() {
		g.endGame()
	}
	return nil
}

// Fold eliminates the payer: the hand is discarded and the next
// surviving seat draws. One remaining seat or an empty deck ends the
// game.
func (g *Game) Fold(playerID int) error {
	if g.Phase != PhasePaying {
		return appErr.ErrWrongPhase
	}
	payerIdx := g.nextActiveIndex()
	payer := g.Players[payerIdx]
	if payer.ID != playerID {
		return appErr.ErrNotYourTurn
	}

	payer.Out = true
	g.Discard = append(g.Discard, payer.Hand...)
	payer.Hand = nil
	g.Drawn = nil
	g.RequiredPayment = 0

	if g.activeCount() == 1 || g.deck.IsEmpty() {
		g.endGame()
		return nil
	}

	g.Current = payerIdx
	for g.Players[g.Current].Out {
		g.Current = (g.Current + 1) % len(g.Players)
	}
	g.Phase = PhasePlaying
	return nil
}

// StepAI runs one computer action: draw when it holds the turn, pay
// when an exact payment exists, fold otherwise. The decision is
// deterministic; only the shuffle consumed randomness.
func (g *Game) StepAI() error {
	p := g.CurrentPlayer()
	if g.Phase == PhaseGameOver || p.IsHuman {
		return appErr.ErrWrongPhase
	}
	if g.Phase == PhasePlaying {
		return g.Draw(p.ID)
	}
	if solution := FindPaymentSolution(p.Hand, g.RequiredPayment); solution != nil {
		return g.Pay(p.ID, solution)
	}
	return g.Fold(p.ID)
}

// Winners are the surviving seats holding the richest hands; several
// seats can share the top total.
func (g *Game) Winners() []*Player {
	var winners []*Player
	best := -1
	for _, p := range g.Players {
		if p.Out {
			continue
		}
		switch {
		case p.FinalValue > best:
			best = p.FinalValue
			winners = []*Player{p}
		case p.FinalValue == best:
			winners = append(winners, p)
		}
	}
	return winners
}

func (g *Game) endGame() {
	g.Phase = PhaseGameOver
	for _, p := range g.Players {
		if p.Out {
			p.FinalValue = 0
			continue
		}
		p.FinalValue = HandValue(p.Hand)
	}
}
