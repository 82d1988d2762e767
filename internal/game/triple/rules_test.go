package triple

import (
	"testing"

	"cardhall-service/internal/game/deck"
)

func card(r deck.Rank, s deck.Suit) deck.Card {
	return deck.Card{Rank: r, Suit: s}
}

func TestCompareSingle(t *testing.T) {
	if CompareSingle(card(deck.Ace, deck.Diamonds), card(deck.King, deck.Spades)) != 1 {
		t.Fatal("ace of diamonds should beat king of spades")
	}
	if CompareSingle(card(deck.Nine, deck.Hearts), card(deck.Nine, deck.Clubs)) != 1 {
		t.Fatal("hearts should break a rank tie against clubs")
	}
	if CompareSingle(card(deck.Five, deck.Spades), card(deck.Five, deck.Spades)) != 0 {
		t.Fatal("identical cards should tie")
	}
}

func TestCompare24Points(t *testing.T) {
	// 13+10=23 beats 9+9=18.
	a := [2]deck.Card{card(deck.King, deck.Hearts), card(deck.Ten, deck.Spades)}
	b := [2]deck.Card{card(deck.Nine, deck.Spades), card(deck.Nine, deck.Hearts)}
	if Compare24Points(a, b) != 1 {
		t.Fatal("higher valid sum should win")
	}

	// K+Q = 25 busts; even a 2+3 stays valid and wins.
	busted := [2]deck.Card{card(deck.King, deck.Spades), card(deck.Queen, deck.Spades)}
	low := [2]deck.Card{card(deck.Two, deck.Diamonds), card(deck.Three, deck.Diamonds)}
	if Compare24Points(low, busted) != 1 {
		t.Fatal("valid pair should beat a busted pair")
	}

	// Two busted pairs always tie, whatever their sums.
	busted2 := [2]deck.Card{card(deck.King, deck.Hearts), card(deck.King, deck.Diamonds)}
	if Compare24Points(busted, busted2) != 0 {
		t.Fatal("two busted pairs should tie")
	}

	// Equal sums: the stronger top card by rank decides. 13+9=22 vs
	// 12+10=22, and K outranks Q.
	kNine := [2]deck.Card{card(deck.King, deck.Diamonds), card(deck.Nine, deck.Clubs)}
	qTen := [2]deck.Card{card(deck.Queen, deck.Spades), card(deck.Ten, deck.Spades)}
	if Compare24Points(kNine, qTen) != 1 {
		t.Fatal("equal sums should break on the stronger top card")
	}

	// Same top card: equal sums pin the lower card's point value, so
	// the final lower-card step can only confirm the tie.
	top := card(deck.Ace, deck.Spades)
	aNine := [2]deck.Card{top, card(deck.Nine, deck.Diamonds)}
	aNine2 := [2]deck.Card{top, card(deck.Nine, deck.Clubs)}
	if Compare24Points(aNine, aNine2) != 0 || Compare24Points(aNine2, aNine) != 0 {
		t.Fatal("pairs differing only in the lower card's suit should tie")
	}
}

func TestClassifyThree(t *testing.T) {
	cases := []struct {
		name     string
		cards    [3]deck.Card
		wantType HandType
		mainRank int
		kicker   int
	}{
		{
			name:     "triplet",
			cards:    [3]deck.Card{card(deck.Seven, deck.Spades), card(deck.Seven, deck.Hearts), card(deck.Seven, deck.Clubs)},
			wantType: Triplet,
			mainRank: 7,
		},
		{
			name:     "straight flush",
			cards:    [3]deck.Card{card(deck.Nine, deck.Hearts), card(deck.Jack, deck.Hearts), card(deck.Ten, deck.Hearts)},
			wantType: StraightFlush,
		},
		{
			name:     "wheel straight",
			cards:    [3]deck.Card{card(deck.Two, deck.Spades), card(deck.Ace, deck.Hearts), card(deck.Three, deck.Clubs)},
			wantType: Straight,
		},
		{
			name:     "flush",
			cards:    [3]deck.Card{card(deck.Two, deck.Clubs), card(deck.Nine, deck.Clubs), card(deck.King, deck.Clubs)},
			wantType: Flush,
		},
		{
			name:     "pair with low kicker",
			cards:    [3]deck.Card{card(deck.King, deck.Spades), card(deck.Nine, deck.Clubs), card(deck.King, deck.Hearts)},
			wantType: Pair,
			mainRank: 13,
			kicker:   9,
		},
		{
			name:     "pair with high kicker",
			cards:    [3]deck.Card{card(deck.Ace, deck.Spades), card(deck.Queen, deck.Clubs), card(deck.Queen, deck.Hearts)},
			wantType: Pair,
			mainRank: 12,
			kicker:   14,
		},
		{
			name:     "high card",
			cards:    [3]deck.Card{card(deck.Two, deck.Spades), card(deck.Nine, deck.Clubs), card(deck.King, deck.Hearts)},
			wantType: HighCard,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := ClassifyThree(tc.cards)
			if info.Type != tc.wantType {
				t.Fatalf("type = %v, want %v", info.Type, tc.wantType)
			}
			if info.MainRank != tc.mainRank || info.Kicker != tc.kicker {
				t.Fatalf("mainRank=%d kicker=%d, want %d/%d", info.MainRank, info.Kicker, tc.mainRank, tc.kicker)
			}
		})
	}
}

func TestCompareThree(t *testing.T) {
	// A pair of kings beats a pair of queens even with an ace kicker.
	kings := [3]deck.Card{card(deck.King, deck.Spades), card(deck.King, deck.Hearts), card(deck.Two, deck.Clubs)}
	queens := [3]deck.Card{card(deck.Queen, deck.Spades), card(deck.Queen, deck.Hearts), card(deck.Ace, deck.Clubs)}
	if CompareThree(kings, queens) != 1 {
		t.Fatal("pair of kings should beat pair of queens with ace kicker")
	}

	// Any straight flush beats the best triplet-free flush.
	sf := [3]deck.Card{card(deck.Four, deck.Diamonds), card(deck.Two, deck.Diamonds), card(deck.Three, deck.Diamonds)}
	fl := [3]deck.Card{card(deck.Ace, deck.Spades), card(deck.King, deck.Spades), card(deck.Nine, deck.Spades)}
	if CompareThree(sf, fl) != 1 {
		t.Fatal("straight flush should beat flush")
	}

	// High-card hands break ties lexicographically on sorted ranks.
	a := [3]deck.Card{card(deck.Ace, deck.Spades), card(deck.Nine, deck.Hearts), card(deck.Four, deck.Clubs)}
	b := [3]deck.Card{card(deck.Ace, deck.Hearts), card(deck.Eight, deck.Spades), card(deck.Seven, deck.Clubs)}
	if CompareThree(a, b) != 1 {
		t.Fatal("A-9-4 should beat A-8-7")
	}

	// Antisymmetry over a sampled pile of hands.
	hands := [][3]deck.Card{kings, queens, sf, fl, a, b,
		{card(deck.Seven, deck.Spades), card(deck.Seven, deck.Hearts), card(deck.Seven, deck.Clubs)},
		{card(deck.Two, deck.Spades), card(deck.Ace, deck.Hearts), card(deck.Three, deck.Clubs)},
	}
	for i := range hands {
		for j := range hands {
			if CompareThree(hands[i], hands[j]) != -CompareThree(hands[j], hands[i]) {
				t.Fatalf("comparison of hands %d and %d is not antisymmetric", i, j)
			}
		}
	}
}

func TestRankGroupsDense(t *testing.T) {
	// Values 9, 9, 7, 5 must rank 0, 0, 2, 3.
	values := map[int]int{1: 9, 2: 9, 3: 7, 4: 5}
	entries := make([]GroupEntry, 0, len(values))
	for id := range values {
		id := id
		entries = append(entries, GroupEntry{
			PlayerID: id,
			Compare: func(other GroupEntry) int {
				return sign(values[id] - values[other.PlayerID])
			},
		})
	}
	ranks := RankGroups(entries)
	want := map[int]int{1: 0, 2: 0, 3: 2, 4: 3}
	for id, r := range want {
		if ranks[id] != r {
			t.Fatalf("player %d rank = %d, want %d", id, ranks[id], r)
		}
	}
}

func TestScore(t *testing.T) {
	if got := Score(0, 4, false); got != 3 {
		t.Fatalf("rank 0 of 4 = %d, want 3", got)
	}
	if got := Score(2, 4, false); got != 1 {
		t.Fatalf("rank 2 of 4 = %d, want 1", got)
	}
	if got := Score(0, 4, true); got != 6 {
		t.Fatalf("doubled rank 0 of 4 = %d, want 6", got)
	}
	if got := Score(3, 4, true); got != 0 {
		t.Fatalf("doubled last rank = %d, want 0", got)
	}
}

func TestScoreEncodingsAgreeWithComparators(t *testing.T) {
	// Score24 must order valid pairs exactly as Compare24Points does,
	// and score every busted pair as zero.
	pairs := [][2]deck.Card{
		{card(deck.King, deck.Hearts), card(deck.Ten, deck.Spades)},
		{card(deck.Nine, deck.Spades), card(deck.Nine, deck.Hearts)},
		{card(deck.King, deck.Diamonds), card(deck.Nine, deck.Clubs)},
		{card(deck.Queen, deck.Spades), card(deck.Ten, deck.Spades)},
		{card(deck.King, deck.Spades), card(deck.Queen, deck.Spades)},
		{card(deck.Two, deck.Diamonds), card(deck.Three, deck.Diamonds)},
	}
	for i := range pairs {
		for j := range pairs {
			cmp := Compare24Points(pairs[i], pairs[j])
			si, sj := Score24(pairs[i]), Score24(pairs[j])
			if si == 0 && sj == 0 {
				continue // busted pairs tie by rule but encode identically anyway
			}
			if cmp == 1 && si <= sj {
				t.Fatalf("pair %d beats %d but scores %d <= %d", i, j, si, sj)
			}
			if cmp == -1 && si >= sj {
				t.Fatalf("pair %d loses to %d but scores %d >= %d", i, j, si, sj)
			}
		}
	}

	hands := [][3]deck.Card{
		{card(deck.King, deck.Spades), card(deck.King, deck.Hearts), card(deck.Two, deck.Clubs)},
		{card(deck.Queen, deck.Spades), card(deck.Queen, deck.Hearts), card(deck.Ace, deck.Clubs)},
		{card(deck.Four, deck.Diamonds), card(deck.Two, deck.Diamonds), card(deck.Three, deck.Diamonds)},
		{card(deck.Ace, deck.Spades), card(deck.King, deck.Spades), card(deck.Nine, deck.Spades)},
		{card(deck.Seven, deck.Spades), card(deck.Seven, deck.Hearts), card(deck.Seven, deck.Clubs)},
		{card(deck.Two, deck.Spades), card(deck.Ace, deck.Hearts), card(deck.Three, deck.Clubs)},
		{card(deck.Ace, deck.Spades), card(deck.Nine, deck.Hearts), card(deck.Four, deck.Clubs)},
	}
	for i := range hands {
		for j := range hands {
			cmp := CompareThree(hands[i], hands[j])
			si, sj := ScorePoker(hands[i]), ScorePoker(hands[j])
			if cmp == 1 && si <= sj {
				t.Fatalf("hand %d beats %d but scores %d <= %d", i, j, si, sj)
			}
			if cmp == -1 && si >= sj {
				t.Fatalf("hand %d loses to %d but scores %d >= %d", i, j, si, sj)
			}
		}
	}
}
