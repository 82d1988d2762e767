package bank

import (
	"errors"
	"math/rand"
	"testing"

	"cardhall-service/internal/game/deck"
	appErr "cardhall-service/pkg/errors"
)

func c(r deck.Rank, s deck.Suit) deck.Card {
	return deck.Card{Rank: r, Suit: s}
}

func TestCardValues(t *testing.T) {
	cases := []struct {
		card deck.Card
		want int
	}{
		{c(deck.Five, deck.Spades), 100},
		{c(deck.Ten, deck.Hearts), 100},
		{c(deck.Jack, deck.Clubs), 500},
		{c(deck.King, deck.Diamonds), 500},
		{c(deck.Ace, deck.Spades), 1000},
		{c(deck.Two, deck.Hearts), 2000},
		{c(deck.Three, deck.Clubs), 3000},
		{c(deck.Four, deck.Diamonds), 4000},
		{c(deck.SmallJoker, deck.JokerS), 5000},
		{c(deck.BigJoker, deck.JokerS), 10000},
	}
	for _, tc := range cases {
		if got := CardValue(tc.card); got != tc.want {
			t.Fatalf("%v value = %d, want %d", tc.card, got, tc.want)
		}
	}
}

func TestFindPaymentSolution(t *testing.T) {
	hand := []deck.Card{
		c(deck.Five, deck.Spades), // 100
		c(deck.Jack, deck.Hearts), // 500
		c(deck.Ace, deck.Clubs),   // 1000
	}

	sol := FindPaymentSolution(hand, 600)
	if sol == nil {
		t.Fatal("600 should be payable from 100+500")
	}
	sum := 0
	for _, card := range sol {
		if !deck.Contains(hand, card) {
			t.Fatalf("solution uses %v which is not in hand", card)
		}
		sum += CardValue(card)
	}
	if sum != 600 {
		t.Fatalf("solution sums to %d, want 600", sum)
	}

	if sol := FindPaymentSolution(hand, 700); sol != nil {
		t.Fatalf("700 is not payable, got %v", sol)
	}
	if sol := FindPaymentSolution(hand, 1600); sol == nil {
		t.Fatal("1600 should be payable from 100+500+1000")
	}
	if sol := FindPaymentSolution(nil, 100); sol != nil {
		t.Fatal("empty hand cannot pay")
	}
	if sol := FindPaymentSolution(hand, 0); sol != nil && len(sol) != 0 {
		t.Fatalf("zero target should need no cards, got %v", sol)
	}
}

func TestNewGameDeal(t *testing.T) {
	g, err := New([]string{"you", "cpu"}, 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, p := range g.Players {
		if len(p.Hand) != 5 {
			t.Fatalf("seat %d dealt %d cards, want 5", p.ID, len(p.Hand))
		}
		for i := 1; i < len(p.Hand); i++ {
			if CardValue(p.Hand[i]) > CardValue(p.Hand[i-1]) {
				t.Fatal("hand not sorted richest first")
			}
		}
	}
	if g.DeckRemaining() != 54-10 {
		t.Fatalf("deck holds %d cards, want 44", g.DeckRemaining())
	}
	if g.Phase != PhasePlaying {
		t.Fatalf("phase = %v, want playing", g.Phase)
	}

	if _, err := New([]string{"solo"}, 0, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("single seat game should be rejected")
	}
	if _, err := New([]string{"a", "b", "c", "d"}, 0, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("four seat game should be rejected")
	}
}

func TestDrawAndPayFlow(t *testing.T) {
	g, err := New([]string{"a", "b"}, 0, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	drawer := g.Players[g.Current]
	other := g.Players[(g.Current+1)%2]

	if err := g.Draw(other.ID); !errors.Is(err, appErr.ErrNotYourTurn) {
		t.Fatalf("draw out of turn: err=%v, want ErrNotYourTurn", err)
	}
	if err := g.Draw(drawer.ID); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if g.Phase != PhasePaying || g.Drawn == nil {
		t.Fatalf("phase=%v drawn=%v after draw", g.Phase, g.Drawn)
	}
	if len(drawer.Hand) != 6 {
		t.Fatalf("drawer holds %d cards, want 6", len(drawer.Hand))
	}
	if g.RequiredPayment != CardValue(*g.Drawn) {
		t.Fatalf("demand = %d, want %d", g.RequiredPayment, CardValue(*g.Drawn))
	}
	if g.CurrentPlayer().ID != other.ID {
		t.Fatal("payment should fall on the other seat")
	}

	// Wrong-sum payments are rejected with state unchanged.
	if err := g.Pay(other.ID, nil); !errors.Is(err, appErr.ErrInvalidPlay) {
		t.Fatalf("empty payment: err=%v, want ErrInvalidPlay", err)
	}
	before := len(other.Hand)

	solution := FindPaymentSolution(other.Hand, g.RequiredPayment)
	if solution == nil {
		// The seat cannot pay; folding ends this two-seat game.
		if err := g.Fold(other.ID); err != nil {
			t.Fatalf("fold: %v", err)
		}
		if g.Phase != PhaseGameOver || !other.Out {
			t.Fatalf("phase=%v out=%v after losing fold", g.Phase, other.Out)
		}
		return
	}
	if err := g.Pay(other.ID, solution); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if len(other.Hand) != before-len(solution) {
		t.Fatal("paid cards did not leave the hand")
	}
	if len(g.Discard) != len(solution) {
		t.Fatalf("discard holds %d cards, want %d", len(g.Discard), len(solution))
	}
	if g.Phase != PhasePlaying || g.Players[g.Current].ID != other.ID {
		t.Fatal("payer should hold the next draw")
	}
	if g.Drawn != nil || g.RequiredPayment != 0 {
		t.Fatal("demand not cleared after payment")
	}
}

func TestFoldEliminatesInThreeSeatGame(t *testing.T) {
	g, err := New([]string{"a", "b", "c"}, 0, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	drawer := g.Players[g.Current]
	if err := g.Draw(drawer.ID); err != nil {
		t.Fatalf("draw: %v", err)
	}
	payer := g.CurrentPlayer()
	handSize := len(payer.Hand)

	if err := g.Fold(payer.ID); err != nil {
		t.Fatalf("fold: %v", err)
	}
	if !payer.Out || len(payer.Hand) != 0 {
		t.Fatal("folded seat should be out with no cards")
	}
	if len(g.Discard) != handSize {
		t.Fatalf("discard holds %d cards, want the folded hand of %d", len(g.Discard), handSize)
	}
	if g.Phase != PhasePlaying {
		t.Fatalf("phase = %v, two seats should keep playing", g.Phase)
	}
	if cur := g.Players[g.Current]; cur.Out {
		t.Fatal("an eliminated seat holds the turn")
	}
}

func TestAIRunsGameToCompletion(t *testing.T) {
	g, err := New([]string{"cpu1", "cpu2", "cpu3"}, -1, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for steps := 0; g.Phase != PhaseGameOver; steps++ {
		if steps > 500 {
			t.Fatal("game did not finish in 500 steps")
		}
		if err := g.StepAI(); err != nil {
			t.Fatalf("step %d: %v", steps, err)
		}
	}
	winners := g.Winners()
	if len(winners) == 0 {
		t.Fatal("finished game has no winners")
	}
	for _, w := range winners {
		if w.Out {
			t.Fatal("an eliminated seat won")
		}
	}
	for _, p := range g.Players {
		if p.Out && p.FinalValue != 0 {
			t.Fatal("eliminated seats score zero")
		}
		if !p.Out && p.FinalValue != HandValue(p.Hand) {
			t.Fatal("survivor total does not match hand value")
		}
	}
}
