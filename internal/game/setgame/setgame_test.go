package setgame

import (
	"errors"
	"math/rand"
	"testing"

	appErr "cardhall-service/pkg/errors"
)

func TestGenerateDeck(t *testing.T) {
	deck := GenerateDeck()
	if len(deck) != 81 {
		t.Fatalf("deck holds %d cards, want 81", len(deck))
	}
	seen := map[Card]bool{}
	ids := map[int]bool{}
	for _, c := range deck {
		key := c
		key.ID = 0
		if seen[key] {
			t.Fatalf("duplicate attribute combination %+v", c)
		}
		seen[key] = true
		if ids[c.ID] {
			t.Fatalf("duplicate id %d", c.ID)
		}
		ids[c.ID] = true
	}
}

func TestIsSet(t *testing.T) {
	allSame := [3]Card{
		{Color: "red", Shape: "oval", Shading: "solid", Number: 1},
		{Color: "red", Shape: "oval", Shading: "solid", Number: 2},
		{Color: "red", Shape: "oval", Shading: "solid", Number: 3},
	}
	if !IsSet(allSame) {
		t.Fatal("same color/shape/shading with distinct numbers is a set")
	}

	allDiff := [3]Card{
		{Color: "red", Shape: "oval", Shading: "solid", Number: 1},
		{Color: "green", Shape: "square", Shading: "striped", Number: 2},
		{Color: "purple", Shape: "diamond", Shading: "open", Number: 3},
	}
	if !IsSet(allDiff) {
		t.Fatal("all attributes distinct is a set")
	}

	twoOfAKind := [3]Card{
		{Color: "red", Shape: "oval", Shading: "solid", Number: 1},
		{Color: "red", Shape: "square", Shading: "striped", Number: 2},
		{Color: "purple", Shape: "diamond", Shading: "open", Number: 3},
	}
	if IsSet(twoOfAKind) {
		t.Fatal("two matching colors with a third different is not a set")
	}
}

func TestFindHintMatchesIsSet(t *testing.T) {
	board := GenerateDeck()[:12]
	hint := FindHint(board)
	if hint == nil {
		t.Fatal("the first twelve enumerated cards must contain a set")
	}
	if !IsSet([3]Card{hint[0], hint[1], hint[2]}) {
		t.Fatal("hint is not a valid set")
	}

	// A board with no set at all: two cards cannot form one.
	if FindHint(board[:2]) != nil {
		t.Fatal("two cards cannot hint a set")
	}
}

func TestClaimSetFlow(t *testing.T) {
	g := New(rand.New(rand.NewSource(1)))
	if len(g.Board) != 12 || g.DeckRemaining() != 69 {
		t.Fatalf("board=%d deck=%d, want 12/69", len(g.Board), g.DeckRemaining())
	}

	// Claiming a non-set is rejected without touching the board.
	var nonSet [3]int
	found := false
	for i := 0; i < len(g.Board) && !found; i++ {
		for j := i + 1; j < len(g.Board) && !found; j++ {
			for k := j + 1; k < len(g.Board) && !found; k++ {
				trio := [3]Card{g.Board[i], g.Board[j], g.Board[k]}
				if !IsSet(trio) {
					nonSet = [3]int{g.Board[i].ID, g.Board[j].ID, g.Board[k].ID}
					found = true
				}
			}
		}
	}
	if found {
		if err := g.ClaimSet(nonSet); !errors.Is(err, appErr.ErrInvalidPlay) {
			t.Fatalf("non-set claim: err=%v, want ErrInvalidPlay", err)
		}
		if len(g.Board) != 12 || g.Score != 0 {
			t.Fatal("rejected claim changed the board")
		}
	}

	hint := g.Hint()
	if hint == nil {
		t.Skip("seeded board holds no set")
	}
	if g.HintsFree != 2 {
		t.Fatalf("free hints = %d after one hint, want 2", g.HintsFree)
	}
	if err := g.ClaimSet([3]int{hint[0].ID, hint[1].ID, hint[2].ID}); err != nil {
		t.Fatalf("claim hinted set: %v", err)
	}
	if g.Score != 100 || g.SetsFound != 1 {
		t.Fatalf("score=%d sets=%d after one claim, want 100/1", g.Score, g.SetsFound)
	}
	if len(g.Board) != 12 {
		t.Fatalf("board=%d after refill, want 12", len(g.Board))
	}
	if g.DeckRemaining() != 66 {
		t.Fatalf("deck=%d after refill, want 66", g.DeckRemaining())
	}

	// Duplicate ids and unknown ids are both rejected.
	id := g.Board[0].ID
	if err := g.ClaimSet([3]int{id, id, g.Board[1].ID}); !errors.Is(err, appErr.ErrInvalidPlay) {
		t.Fatalf("duplicate id: err=%v, want ErrInvalidPlay", err)
	}
	if err := g.ClaimSet([3]int{999, g.Board[0].ID, g.Board[1].ID}); !errors.Is(err, appErr.ErrCardsNotInHand) {
		t.Fatalf("unknown id: err=%v, want ErrCardsNotInHand", err)
	}
}

func TestHintCostsAfterFreeOnes(t *testing.T) {
	g := New(rand.New(rand.NewSource(2)))
	for i := 0; i < 3; i++ {
		if g.Hint() == nil {
			t.Skip("seeded board holds no set")
		}
	}
	if g.HintsFree != 0 || g.Score != 0 {
		t.Fatalf("free=%d score=%d after three hints, want 0/0", g.HintsFree, g.Score)
	}
	if g.Hint() == nil {
		t.Skip("board lost its set")
	}
	if g.Score != -50 || g.HintsUsed != 1 {
		t.Fatalf("score=%d used=%d after a paid hint, want -50/1", g.Score, g.HintsUsed)
	}
}

func TestAddMoreCards(t *testing.T) {
	g := New(rand.New(rand.NewSource(3)))
	if err := g.AddMoreCards(); err != nil {
		t.Fatalf("add cards: %v", err)
	}
	if len(g.Board) != 15 || g.DeckRemaining() != 66 {
		t.Fatalf("board=%d deck=%d after dealing three more, want 15/66", len(g.Board), g.DeckRemaining())
	}
}
