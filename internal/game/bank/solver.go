// Package bank implements the bank-robbing money game: drawn cards
// demand exact payment from the next seat, and a seat that cannot pay
// is out.
package bank

import (
	"sort"

	"cardhall-service/internal/game/deck"
)

// CardValue is a card's money value. Number cards five through ten are
// small bills; the deuce through four outrank even the ace.
func CardValue(c deck.Card) int {
	switch c.Rank {
	case deck.Five, deck.Six, deck.Seven, deck.Eight, deck.Nine, deck.Ten:
		return 100
	case deck.Jack, deck.Queen, deck.King:
		return 500
	case deck.Ace:
		return 1000
	case deck.Two:
		return 2000
	case deck.Three:
		return 3000
	case deck.Four:
		return 4000
	case deck.SmallJoker:
		return 5000
	case deck.BigJoker:
		return 10000
	}
	return 0
}

// HandValue totals a hand.
func HandValue(hand []deck.Card) int {
	sum := 0
	for _, c := range hand {
		sum += CardValue(c)
	}
	return sum
}

// SortByValue sorts a hand richest card first.
func SortByValue(hand []deck.Card) {
	sort.SliceStable(hand, func(i, j int) bool {
		return CardValue(hand[i]) > CardValue(hand[j])
	})
}

// FindPaymentSolution searches for a subset of hand summing exactly to
// target via 0/1 subset-sum dynamic programming, reconstructing one
// witness by backtracking. Returns nil when no exact subset exists.
// Which of several equal-sum subsets comes back is not significant.
func FindPaymentSolution(hand []deck.Card, target int) []deck.Card {
	if target < 0 {
		return nil
	}
	n := len(hand)
	values := make([]int, n)
	for i, c := range hand {
		values[i] = CardValue(c)
	}

	dp := make([][]bool, n+1)
	for i := range dp {
		dp[i] = make([]bool, target+1)
	}
	dp[0][0] = true
	for i := 1; i <= n; i++ {
		for v := 0; v <= target; v++ {
			dp[i][v] = dp[i-1][v]
			if v >= values[i-1] && dp[i-1][v-values[i-1]] {
				dp[i][v] = true
			}
		}
	}
	if !dp[n][target] {
		return nil
	}

	var solution []deck.Card
	v := target
	for i := n; i > 0 && v > 0; i-- {
		if !dp[i-1][v] {
			solution = append(solution, hand[i-1])
			v -= values[i-1]
		}
	}
	return solution
}

// CanPay reports whether any exact payment exists.
func CanPay(hand []deck.Card, target int) bool {
	return FindPaymentSolution(hand, target) != nil
}
