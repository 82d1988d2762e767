// Package setgame implements the pattern-matching solitaire: find
// three board cards whose four attributes are each all alike or all
// different.
package setgame

import (
	"math/rand"

	appErr "cardhall-service/pkg/errors"
)

// Attribute domains. Every combination appears exactly once, for an
// 81-card deck.
var (
	Colors   = []string{"red", "green", "purple"}
	Shapes   = []string{"oval", "square", "diamond"}
	Shadings = []string{"solid", "striped", "open"}
	Numbers  = []int{1, 2, 3}
)

const (
	boardSize     = 12
	setScore      = 100
	hintPenalty   = 50
	freeHintCount = 3
)

// Card is one pattern card. ID is its position in the unshuffled deck
// and stays unique for the whole game.
type Card struct {
	ID      int    `json:"id"`
	Color   string `json:"color"`
	Shape   string `json:"shape"`
	Shading string `json:"shading"`
	Number  int    `json:"number"`
}

// GenerateDeck enumerates all 81 cards in a fixed order.
func GenerateDeck() []Card {
	deck := make([]Card, 0, 81)
	id := 0
	for _, color := range Colors {
		for _, shape := range Shapes {
			for _, shading := range Shadings {
				for _, number := range Numbers {
					deck = append(deck, Card{
						ID:      id,
						Color:   color,
						Shape:   shape,
						Shading: shading,
						Number:  number,
					})
					id++
				}
			}
		}
	}
	return deck
}

// IsSet reports whether three cards form a valid set: each of the
// four attributes is either shared by all three or distinct on all
// three.
func IsSet(cards [3]Card) bool {
	attrs := [4]func(Card) int{
		func(c Card) int { return index(Colors, c.Color) },
		func(c Card) int { return index(Shapes, c.Shape) },
		func(c Card) int { return index(Shadings, c.Shading) },
		func(c Card) int { return c.Number - 1 },
	}
	for _, attr := range attrs {
		a, b, c := attr(cards[0]), attr(cards[1]), attr(cards[2])
		allSame := a == b && b == c
		allDiff := a != b && b != c && a != c
		if !allSame && !allDiff {
			return false
		}
	}
	return true
}

func index(domain []string, v string) int {
	for i, d := range domain {
		if d == v {
			return i
		}
	}
	return -1
}

// FindHint returns the first valid set on the board in position
// order, or nil when none exists.
func FindHint(board []Card) []Card {
	for i := 0; i < len(board); i++ {
		for j := i + 1; j < len(board); j++ {
			for k := j + 1; k < len(board); k++ {
				if IsSet([3]Card{board[i], board[j], board[k]}) {
					return []Card{board[i], board[j], board[k]}
				}
			}
		}
	}
	return nil
}

// Phase of a set game.
type Phase string

const (
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "gameOver"
)

// Game is a single-player set board. Claimed sets score points;
// hints beyond the free allowance cost some back.
type Game struct {
	Phase     Phase
	Board     []Card
	Score     int
	SetsFound int
	FoundSets [][3]Card
	HintsFree int
	HintsUsed int

	deck []Card
}

// New shuffles the deck and lays out the twelve-card board.
func New(rng *rand.Rand) *Game {
	deck := GenerateDeck()
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return &Game{
		Phase:     PhasePlaying,
		Board:     deck[:boardSize],
		HintsFree: freeHintCount,
		deck:      deck[boardSize:],
	}
}

// DeckRemaining exposes the undealt card count.
func (g *Game) DeckRemaining() int {
	return len(g.deck)
}

func (g *Game) boardCard(id int) (Card, int) {
	for i, c := range g.Board {
		if c.ID == id {
			return c, i
		}
	}
	return Card{}, -1
}

// ClaimSet validates three selected board cards. A valid set scores,
// leaves the board and is refilled in place from the deck; an invalid
// selection is rejected with the board untouched.
func (g *Game) ClaimSet(ids [3]int) error {
	if g.Phase != PhasePlaying {
		return appErr.ErrWrongPhase
	}
	var cards [3]Card
	var positions [3]int
	for i, id := range ids {
		c, pos := g.boardCard(id)
		if pos < 0 {
			return appErr.ErrCardsNotInHand
		}
		for j := 0; j < i; j++ {
			if ids[j] == id {
				return appErr.ErrInvalidPlay
			}
		}
		cards[i], positions[i] = c, pos
	}
	if !IsSet(cards) {
		return appErr.ErrInvalidPlay
	}

	g.FoundSets = append(g.FoundSets, cards)
	g.SetsFound++
	g.Score += setScore
	g.removeAndRefill(positions)
	g.checkGameOver()
	return nil
}

// removeAndRefill drops the claimed positions and deals replacements
// into the same slots while the deck lasts, keeping the board layout
// stable for the player.
func (g *Game) removeAndRefill(positions [3]int) {
	claimed := map[int]bool{positions[0]: true, positions[1]: true, positions[2]: true}
	refill := boardSize - (len(g.Board) - 3) // an enlarged board shrinks back toward twelve
	next := make([]Card, 0, len(g.Board))
	for i, c := range g.Board {
		if !claimed[i] {
			next = append(next, c)
			continue
		}
		if refill > 0 && len(g.deck) > 0 {
			next = append(next, g.deck[0])
			g.deck = g.deck[1:]
			refill--
		}
	}
	g.Board = next
}

// Hint surfaces one valid set. The first few are free; later ones
// cost points. Returns nil when the board holds no set.
func (g *Game) Hint() []Card {
	if g.Phase != PhasePlaying {
		return nil
	}
	hint := FindHint(g.Board)
	if hint == nil {
		return nil
	}
	if g.HintsFree > 0 {
		g.HintsFree--
	} else {
		g.HintsUsed++
		g.Score -= hintPenalty
	}
	return hint
}

// AddMoreCards deals three extra cards when the player believes the
// board holds no set.
func (g *Game) AddMoreCards() error {
	if g.Phase != PhasePlaying {
		return appErr.ErrWrongPhase
	}
	if len(g.deck) < 3 {
		return appErr.ErrDeckExhausted
	}
	g.Board = append(g.Board, g.deck[:3]...)
	g.deck = g.deck[3:]
	return nil
}

// checkGameOver ends the game once the deck is empty and the board
// holds no further set.
func (g *Game) checkGameOver() {
	if len(g.deck) == 0 && FindHint(g.Board) == nil {
		g.Phase = PhaseGameOver
	}
}
