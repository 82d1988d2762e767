package bluff

import (
	"errors"
	"math/rand"
	"testing"

	"cardhall-service/internal/game/deck"
	appErr "cardhall-service/pkg/errors"
)

var testNames = [PlayerCount]string{"you", "bot-a", "bot-b", "bot-c"}

func newTestGame(seed int64) *Game {
	return New(testNames, DifficultyMedium, rand.New(rand.NewSource(seed)))
}

func TestDeal(t *testing.T) {
	g := newTestGame(1)
	if len(g.Players) != PlayerCount {
		t.Fatalf("seats = %d, want %d", len(g.Players), PlayerCount)
	}
	total := 0
	for _, p := range g.Players {
		if len(p.Hand) != HandSize {
			t.Fatalf("player %d dealt %d cards, want %d", p.ID, len(p.Hand), HandSize)
		}
		total += len(p.Hand)
	}
	if total != 52 {
		t.Fatalf("dealt %d cards, want 52 of 54", total)
	}
	if !g.Players[0].IsHuman {
		t.Fatal("first seat should be the human one")
	}
	if g.Players[1].memory == nil {
		t.Fatal("computer seats need a memory")
	}
}

func TestPlayValidation(t *testing.T) {
	g := newTestGame(2)
	human := g.Players[0]

	if err := g.PlayCards(2, human.Hand[:1], deck.Ace); !errors.Is(err, appErr.ErrNotYourTurn) {
		t.Fatalf("out of turn play: err=%v, want ErrNotYourTurn", err)
	}
	if err := g.PlayCards(1, human.Hand[:4], deck.Ace); !errors.Is(err, appErr.ErrInvalidPlay) {
		t.Fatalf("four cards: err=%v, want ErrInvalidPlay", err)
	}
	if err := g.PlayCards(1, nil, deck.Ace); !errors.Is(err, appErr.ErrInvalidPlay) {
		t.Fatalf("zero cards: err=%v, want ErrInvalidPlay", err)
	}
	if err := g.PlayCards(1, human.Hand[:1], deck.Joker); !errors.Is(err, appErr.ErrInvalidPlay) {
		t.Fatalf("joker claim: err=%v, want ErrInvalidPlay", err)
	}
	foreign := g.Players[1].Hand[:1]
	if err := g.PlayCards(1, foreign, deck.Ace); !errors.Is(err, appErr.ErrCardsNotInHand) {
		t.Fatalf("foreign card: err=%v, want ErrCardsNotInHand", err)
	}
	if err := g.Skip(1); !errors.Is(err, appErr.ErrInvalidPlay) {
		t.Fatalf("skip on empty pile: err=%v, want ErrInvalidPlay", err)
	}

	if err := g.PlayCards(1, human.Hand[:2], deck.King); err != nil {
		t.Fatalf("valid lead: %v", err)
	}
	if g.CurrentRank != deck.King {
		t.Fatalf("active rank = %v, want K", g.CurrentRank)
	}
	if len(human.Hand) != HandSize-2 {
		t.Fatalf("hand = %d cards after playing 2, want %d", len(human.Hand), HandSize-2)
	}

	// The next seat must repeat the active rank.
	next := g.Players[1]
	if err := g.PlayCards(next.ID, next.Hand[:1], deck.Two); !errors.Is(err, appErr.ErrInvalidPlay) {
		t.Fatalf("claim change mid-pile: err=%v, want ErrInvalidPlay", err)
	}
}

func TestChallengeRevealsTruth(t *testing.T) {
	g := newTestGame(3)
	human := g.Players[0]

	// An honest lead: claim the rank actually played.
	honest := human.Hand[0]
	if err := g.PlayCards(1, []deck.Card{honest}, honest.Rank); err != nil {
		t.Fatalf("lead: %v", err)
	}
	res, err := g.Challenge(g.CurrentPlayer().ID)
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if res.Success {
		t.Fatal("challenging an honest play should fail")
	}
	if res.ChallengedID != 1 {
		t.Fatalf("challenged seat = %d, want 1", res.ChallengedID)
	}
	challenger := g.player(res.ChallengerID)
	if len(challenger.Hand) != HandSize+1 {
		t.Fatalf("failed challenger holds %d cards, want %d", len(challenger.Hand), HandSize+1)
	}
	if g.Stats[res.ChallengerID].FailedChallenges != 1 {
		t.Fatal("failed challenge not recorded")
	}
	// The honest seat leads the next pile.
	if g.CurrentPlayer().ID != 1 {
		t.Fatalf("leader = %d, want 1", g.CurrentPlayer().ID)
	}
	if g.PileSize() != 0 || g.CurrentRank != "" {
		t.Fatal("pile not reset after reveal")
	}
	if g.Rounds != 1 {
		t.Fatalf("rounds = %d, want 1", g.Rounds)
	}
}

func TestChallengeCatchesBluff(t *testing.T) {
	g := newTestGame(4)
	human := g.Players[0]

	// Claim a rank the played card cannot be. The hand holds at most
	// four of any rank plus jokers, so some card differs from any
	// chosen claim; pick a non-joker card and claim a different rank.
	var bluffCard deck.Card
	var claim deck.Rank
	for _, c := range human.Hand {
		if c.IsJoker() {
			continue
		}
		if c.Rank != deck.Ace {
			bluffCard, claim = c, deck.Ace
		} else {
			bluffCard, claim = c, deck.King
		}
		break
	}
	if err := g.PlayCards(1, []deck.Card{bluffCard}, claim); err != nil {
		t.Fatalf("bluff lead: %v", err)
	}

	challengerID := g.CurrentPlayer().ID
	res, err := g.Challenge(challengerID)
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if !res.Success {
		t.Fatal("a bluff must be caught on reveal")
	}
	if len(human.Hand) != HandSize {
		t.Fatalf("caught bluffer holds %d cards, want %d back", len(human.Hand), HandSize)
	}
	if g.Stats[1].FailedBluffs != 1 || g.Stats[challengerID].SuccessfulChallenges != 1 {
		t.Fatal("challenge stats not recorded")
	}
	if g.CurrentPlayer().ID != challengerID {
		t.Fatal("successful challenger should lead the next pile")
	}
}

func TestUnanimousSkipDiscardsPile(t *testing.T) {
	g := newTestGame(5)
	human := g.Players[0]

	played := human.Hand[0]
	if err := g.PlayCards(1, []deck.Card{played}, played.Rank); err != nil {
		t.Fatalf("lead: %v", err)
	}
	for i := 0; i < PlayerCount-1; i++ {
		if err := g.Skip(g.CurrentPlayer().ID); err != nil {
			t.Fatalf("skip %d: %v", i, err)
		}
	}
	if len(g.Discard) != 1 {
		t.Fatalf("discard holds %d cards, want 1", len(g.Discard))
	}
	if g.PileSize() != 0 {
		t.Fatal("pile should be empty after a unanimous skip")
	}
	if g.CurrentPlayer().ID != 1 {
		t.Fatalf("leader = %d, want the last player 1", g.CurrentPlayer().ID)
	}
	if g.Rounds != 1 {
		t.Fatalf("rounds = %d, want 1", g.Rounds)
	}
}

func TestWinOnEmptyHand(t *testing.T) {
	g := newTestGame(6)
	human := g.Players[0]
	// Drain the hand three cards at a time under honest claims being
	// skipped through; simplest is to shrink the hand directly and
	// play out the final card.
	human.Hand = human.Hand[:1]
	last := human.Hand[0]
	claim := last.Rank
	if last.IsJoker() {
		claim = deck.Ace
	}
	if err := g.PlayCards(1, []deck.Card{last}, claim); err != nil {
		t.Fatalf("final play: %v", err)
	}
	if g.Phase != PhaseGameOver || g.Winner != 1 {
		t.Fatalf("phase=%v winner=%d, want gameOver winner 1", g.Phase, g.Winner)
	}
	if err := g.Skip(2); !errors.Is(err, appErr.ErrWrongPhase) {
		t.Fatalf("action after game over: err=%v, want ErrWrongPhase", err)
	}
}

func TestStepAIEventuallyFinishes(t *testing.T) {
	g := newTestGame(7)
	// Let the human act like a simple honest bot so the table can run
	// to completion.
	for turns := 0; g.Phase == PhasePlaying; turns++ {
		if turns > 5000 {
			t.Fatal("game did not finish in 5000 turns")
		}
		p := g.CurrentPlayer()
		if !p.IsHuman {
			if _, _, err := g.StepAI(); err != nil {
				t.Fatalf("turn %d: %v", turns, err)
			}
			continue
		}
		if g.Latest == nil {
			c := p.Hand[0]
			claim := c.Rank
			if c.IsJoker() {
				claim = deck.Ace
			}
			if err := g.PlayCards(p.ID, []deck.Card{c}, claim); err != nil {
				t.Fatalf("human lead: %v", err)
			}
			continue
		}
		// Follow honestly when possible, otherwise bluff one card.
		var pick deck.Card
		found := false
		for _, c := range p.Hand {
			if c.Rank == g.CurrentRank || c.IsJoker() {
				pick, found = c, true
				break
			}
		}
		if !found {
			pick = p.Hand[0]
		}
		if err := g.PlayCards(p.ID, []deck.Card{pick}, g.CurrentRank); err != nil {
			t.Fatalf("human follow: %v", err)
		}
	}
	if g.Winner == 0 {
		t.Fatal("finished game has no winner")
	}
}

func TestMemoryAccuracyTiers(t *testing.T) {
	if DifficultyEasy.MemoryAccuracy() != 0 {
		t.Fatal("easy seats should remember nothing")
	}
	if DifficultyMedium.MemoryAccuracy() != 0.7 || DifficultyHard.MemoryAccuracy() != 0.9 {
		t.Fatal("unexpected memory accuracy tiers")
	}

	rng := rand.New(rand.NewSource(8))
	m := NewMemory(1, rng)
	m.Observe([]deck.Card{
		{Rank: deck.King, Suit: deck.Spades},
		{Rank: deck.King, Suit: deck.Hearts},
		{Rank: deck.Joker, Suit: deck.JokerS},
	})
	if m.Count(deck.King) != 2 {
		t.Fatalf("perfect memory remembers %d kings, want 2", m.Count(deck.King))
	}
	if m.Count(deck.Joker) != 0 {
		t.Fatal("jokers are not worth remembering")
	}

	none := NewMemory(0, rng)
	none.Observe([]deck.Card{{Rank: deck.King, Suit: deck.Clubs}})
	if none.Count(deck.King) != 0 {
		t.Fatal("zero accuracy memory should stay empty")
	}
}

func TestImpossibleClaimIsAlwaysChallenged(t *testing.T) {
	hand := []deck.Card{
		{Rank: deck.King, Suit: deck.Spades},
		{Rank: deck.King, Suit: deck.Hearts},
		{Rank: deck.King, Suit: deck.Clubs},
		{Rank: deck.Joker, Suit: deck.JokerS},
		{Rank: deck.Joker, Suit: deck.JokerS},
	}
	// Three claimed kings outside a hand holding three kings and both
	// jokers leaves at most 1+0 true cards elsewhere.
	v := view{
		Hand:         hand,
		LatestCount:  3,
		ClaimedRank:  deck.King,
		LastHandSize: 10,
		PileSize:     3,
	}
	if p := challengeProbability(DifficultyEasy, v, nil); p != 1 {
		t.Fatalf("impossible claim probability = %v, want 1", p)
	}
}

func TestHardTierChallengesMoreWithMemory(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	mem := NewMemory(0.9, rng)
	// Feed the memory plenty of claimed-rank sightings.
	mem.seen[deck.Queen] = 3

	hand := []deck.Card{
		{Rank: deck.Two, Suit: deck.Spades},
		{Rank: deck.Three, Suit: deck.Hearts},
	}
	v := view{
		Hand:         hand,
		LatestCount:  2,
		ClaimedRank:  deck.Queen,
		LastHandSize: 10,
		PileSize:     6,
	}
	base := challengeProbability(DifficultyMedium, v, mem)
	boosted := challengeProbability(DifficultyHard, v, mem)
	if boosted <= base {
		t.Fatalf("hard tier probability %v not above medium %v", boosted, base)
	}
	if boosted > 0.95 {
		t.Fatalf("hard tier probability %v above the 0.95 cap", boosted)
	}
}
