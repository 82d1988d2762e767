// Command play runs the triple-card game in the terminal against
// computer opponents, without a server.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"cardhall-service/internal/game/deck"
	"cardhall-service/internal/game/triple"
)

func main() {
	rounds := flag.Int("rounds", 3, "rounds to play")
	seats := flag.Int("seats", 3, "total seats including you (2-4)")
	seed := flag.Int64("seed", 0, "RNG seed, 0 for random")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	players := []*triple.Player{{ID: 1, Name: "You", IsHuman: true}}
	for i := 1; i < *seats; i++ {
		players = append(players, &triple.Player{
			ID:       i + 1,
			Name:     fmt.Sprintf("Bot %d", i),
			Strategy: triple.StrategyEnumerate,
		})
	}

	game, err := triple.NewGame(players, *rounds, rng)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	if err := game.Start(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	pterm.DefaultHeader.Println("Triple Card")
	for game.Phase != triple.PhaseGameOver {
		playSubRound(game)
		if err := game.Advance(); err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
	}
	printFinal(game)
}

func playSubRound(game *triple.Game) {
	pterm.DefaultSection.Printfln("Round %d/%d, sub-round %d", game.CurrentRound, game.TotalRounds, game.SubRound)

	human := game.Players[0]
	printHand(human.Hand)

	groups := askGroups(human.Hand)
	for {
		err := game.SubmitPlayerGroups(human.ID, groups)
		if err == nil {
			break
		}
		pterm.Warning.Printfln("invalid split: %v", err)
		groups = askGroups(human.Hand)
	}
	printResult(game)
}

func printHand(hand []deck.Card) {
	labels := make([]string, len(hand))
	for i, c := range hand {
		labels[i] = fmt.Sprintf("%d:%s", i+1, c)
	}
	pterm.Info.Println("Your hand: " + strings.Join(labels, "  "))
}

// askGroups reads six hand positions: the single card, then the
// 24-point pair, then the three-card hand. "auto" delegates to the
// greedy split.
func askGroups(hand []deck.Card) triple.SubmittedGroup {
	for {
		input, _ := pterm.DefaultInteractiveTextInput.Show("Pick 6 positions (single, pair x2, three x3) or 'auto'")
		input = strings.TrimSpace(input)
		if input == "auto" || input == "" {
			g := triple.SmartStrategy(hand)
			return triple.SubmittedGroup{Single: g.Single, TwentyFour: g.TwentyFour, Three: g.Three}
		}
		fields := strings.Fields(input)
		if len(fields) != 6 {
			pterm.Warning.Println("need exactly 6 positions")
			continue
		}
		picks := make([]deck.Card, 0, 6)
		ok := true
		for _, f := range fields {
			idx, err := strconv.Atoi(f)
			if err != nil || idx < 1 || idx > len(hand) {
				ok = false
				break
			}
			picks = append(picks, hand[idx-1])
		}
		if !ok {
			pterm.Warning.Println("positions must be numbers within your hand")
			continue
		}
		return triple.SubmittedGroup{
			Single:     [1]deck.Card{picks[0]},
			TwentyFour: [2]deck.Card{picks[1], picks[2]},
			Three:      [3]deck.Card{picks[3], picks[4], picks[5]},
		}
	}
}

func printResult(game *triple.Game) {
	res := game.LastResult
	if res == nil {
		return
	}
	data := pterm.TableData{{"Player", "Single", "Pair", "Three cards", "Points"}}
	for _, p := range game.Players {
		sg := res.Groups[p.ID]
		sc := res.Scores[p.ID]
		data = append(data, []string{
			p.Name,
			cardList(sg.Single[:]),
			cardList(sg.TwentyFour[:]),
			cardList(sg.Three[:]),
			strconv.Itoa(sc.Single + sc.TwentyFour + sc.Three),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	totals := make([]string, 0, len(game.Players))
	for _, p := range game.Players {
		totals = append(totals, fmt.Sprintf("%s %d", p.Name, game.TotalScores[p.ID]))
	}
	pterm.Info.Println("Totals: " + strings.Join(totals, " | "))
}

func cardList(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func printFinal(game *triple.Game) {
	res := game.Result()
	data := pterm.TableData{{"Rank", "Player", "Score"}}
	for i, r := range res.Rankings {
		data = append(data, []string{strconv.Itoa(i + 1), r.Name, strconv.Itoa(r.Score)})
	}
	pterm.DefaultSection.Println("Final standings")
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	switch {
	case res.IsTie:
		pterm.Info.Println("It's a tie at the top!")
	case res.Winner != nil && res.Winner.PlayerID == 1:
		pterm.Success.Println("You win!")
	default:
		pterm.Info.Printfln("%s wins.", res.Winner.Name)
	}
}
