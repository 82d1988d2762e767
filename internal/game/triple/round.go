package triple

import (
	"math/rand"
	"sort"

	"cardhall-service/internal/game/deck"
	appErr "cardhall-service/pkg/errors"
)

// Phase of a running game.
type Phase string

const (
	PhaseMenu        Phase = "menu"
	PhaseGrouping    Phase = "grouping"
	PhaseComparing   Phase = "comparing"
	PhaseRoundResult Phase = "roundResult"
	PhaseGameOver    Phase = "gameOver"
)

// MaxPlayers is bounded by the deal: twelve cards per seat from a
// 52-card deck.
const MaxPlayers = 4

// Player is one seat. Computer seats carry the strategy used to split
// their hands.
type Player struct {
	ID       int
	Name     string
	IsHuman  bool
	Strategy Strategy
	Hand     []deck.Card
}

// SubmittedGroup is one seat's finished split for a sub-round.
type SubmittedGroup struct {
	Single     [1]deck.Card
	TwentyFour [2]deck.Card
	Three      [3]deck.Card
}

func (s SubmittedGroup) all() []deck.Card {
	return []deck.Card{
		s.Single[0],
		s.TwentyFour[0], s.TwentyFour[1],
		s.Three[0], s.Three[1], s.Three[2],
	}
}

// PlayerGroups holds a seat's two sub-round splits for the current
// round. A nil slot means the sub-round has not been submitted.
type PlayerGroups struct {
	SubRounds [2]*SubmittedGroup
}

// GroupScores is the per-slot points a seat earned in one sub-round.
type GroupScores struct {
	Single     int `json:"single"`
	TwentyFour int `json:"twentyFourPoint"`
	Three      int `json:"threeCard"`
}

func (g GroupScores) total() int {
	return g.Single + g.TwentyFour + g.Three
}

// SubRoundResult is the scored outcome of one sub-round: each slot's
// dense ranks and the points they yielded.
type SubRoundResult struct {
	SubRound int                       `json:"subRound"`
	Ranks    map[GroupType]map[int]int `json:"-"`
	Scores   map[int]GroupScores       `json:"scores"`
	Groups   map[int]SubmittedGroup    `json:"groups"`
}

// FinalResult summarizes a finished game. IsTie reports whether the
// top two totals are equal; ties further down do not set it.
type FinalResult struct {
	Winner   *RankedPlayer  `json:"winner"`
	IsTie    bool           `json:"isTie"`
	Rankings []RankedPlayer `json:"rankings"`
}

// RankedPlayer is one row of the final standings.
type RankedPlayer struct {
	PlayerID int    `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// Game is the full state of a match. All randomness flows through the
// injected source so deals replay deterministically.
type Game struct {
	rng *rand.Rand

	Phase        Phase
	TotalRounds  int
	CurrentRound int
	SubRound     int
	Players      []*Player

	Groups      map[int]*PlayerGroups
	tempScores  map[int]int
	RoundScores map[int]int
	TotalScores map[int]int
	LastResult  *SubRoundResult
}

// NewGame seats the given players. The first seat is conventionally
// the human, but nothing requires one.
func NewGame(players []*Player, totalRounds int, rng *rand.Rand) (*Game, error) {
	if len(players) < 2 || len(players) > MaxPlayers {
		return nil, appErr.ErrInvalidGrouping
	}
	g := &Game{
		rng:         rng,
		Phase:       PhaseMenu,
		TotalRounds: totalRounds,
		Players:     players,
		TotalScores: make(map[int]int, len(players)),
	}
	for _, p := range players {
		g.TotalScores[p.ID] = 0
	}
	return g, nil
}

// Start deals the first round.
func (g *Game) Start() error {
	g.CurrentRound = 0
	for id := range g.TotalScores {
		g.TotalScores[id] = 0
	}
	return g.StartNewRound()
}

// StartNewRound shuffles a fresh 54-card deck, deals twelve cards to
// every seat with drawn jokers discarded, and opens the first
// sub-round.
func (g *Game) StartNewRound() error {
	d := deck.New(deck.WithJokers())
	d.Shuffle(g.rng)
	for _, p := range g.Players {
		hand := d.DrawMany(12)
		if len(hand) < 12 {
			return appErr.ErrDeckExhausted
		}
		deck.SortForDeal(hand)
		p.Hand = hand
	}
	g.CurrentRound++
	g.SubRound = 1
	g.Groups = make(map[int]*PlayerGroups, len(g.Players))
	for _, p := range g.Players {
		g.Groups[p.ID] = &PlayerGroups{}
	}
	g.tempScores = make(map[int]int, len(g.Players))
	g.RoundScores = make(map[int]int, len(g.Players))
	g.LastResult = nil
	g.Phase = PhaseGrouping
	return nil
}

// ValidateGroups checks a split against the submitting seat's hand:
// six distinct cards, all currently held.
func ValidateGroups(s SubmittedGroup, hand []deck.Card) error {
	cards := s.all()
	for i := range cards {
		for j := i + 1; j < len(cards); j++ {
			if cards[i].Equal(cards[j]) {
				return appErr.ErrInvalidGrouping
			}
		}
	}
	for _, c := range cards {
		if !deck.Contains(hand, c) {
			return appErr.ErrCardsNotInHand
		}
	}
	return nil
}

// SubmitPlayerGroups records the seat's split, lets every computer
// seat split in response, then scores the sub-round.
func (g *Game) SubmitPlayerGroups(playerID int, s SubmittedGroup) error {
	if g.Phase != PhaseGrouping {
		return appErr.ErrWrongPhase
	}
	p := g.player(playerID)
	if p == nil {
		return appErr.ErrUserNotFound
	}
	pg := g.Groups[playerID]
	if pg.SubRounds[g.SubRound-1] != nil {
		return appErr.ErrWrongPhase
	}
	if err := ValidateGroups(s, p.Hand); err != nil {
		return err
	}
	pg.SubRounds[g.SubRound-1] = &s
	p.Hand = deck.Remove(p.Hand, s.all())

	for _, ai := range g.Players {
		if ai.IsHuman || g.Groups[ai.ID].SubRounds[g.SubRound-1] != nil {
			continue
		}
		grouping := Decide(ai.Strategy, ai.Hand, g.rng)
		sub := SubmittedGroup{
			Single:     grouping.Single,
			TwentyFour: grouping.TwentyFour,
			Three:      grouping.Three,
		}
		g.Groups[ai.ID].SubRounds[g.SubRound-1] = &sub
		ai.Hand = deck.Remove(ai.Hand, sub.all())
	}

	if !g.allSubmitted() {
		return nil
	}
	g.Phase = PhaseComparing
	g.calculateSubRoundScores()
	g.Phase = PhaseRoundResult
	return nil
}

func (g *Game) allSubmitted() bool {
	for _, p := range g.Players {
		if g.Groups[p.ID].SubRounds[g.SubRound-1] == nil {
			return false
		}
	}
	return true
}

// calculateSubRoundScores ranks each slot across the table and turns
// the ranks into points. Sub-round one's totals are parked and folded
// into the round total once sub-round two finishes.
func (g *Game) calculateSubRoundScores() {
	sub := g.SubRound - 1
	result := &SubRoundResult{
		SubRound: g.SubRound,
		Ranks:    make(map[GroupType]map[int]int, 3),
		Scores:   make(map[int]GroupScores, len(g.Players)),
		Groups:   make(map[int]SubmittedGroup, len(g.Players)),
	}
	scores := make(map[int]GroupScores, len(g.Players))
	for _, p := range g.Players {
		result.Groups[p.ID] = *g.Groups[p.ID].SubRounds[sub]
	}

	for _, gt := range []GroupType{GroupSingle, GroupTwentyFour, GroupThree} {
		entries := make([]GroupEntry, 0, len(g.Players))
		for _, p := range g.Players {
			sg := g.Groups[p.ID].SubRounds[sub]
			entries = append(entries, g.entryFor(p.ID, gt, sg))
		}
		if len(entries) == 0 {
			continue
		}
		ranks := RankGroups(entries)
		result.Ranks[gt] = ranks
		for id, rank := range ranks {
			s := scores[id]
			pts := Score(rank, len(entries), gt == GroupThree)
			switch gt {
			case GroupSingle:
				s.Single = pts
			case GroupTwentyFour:
				s.TwentyFour = pts
			case GroupThree:
				s.Three = pts
			}
			scores[id] = s
		}
	}

	result.Scores = scores
	g.LastResult = result

	if g.SubRound == 1 {
		for id, s := range scores {
			g.tempScores[id] = s.total()
			g.RoundScores[id] = s.total()
		}
		return
	}
	for id, s := range scores {
		g.RoundScores[id] = g.tempScores[id] + s.total()
		g.TotalScores[id] += g.RoundScores[id]
	}
}

func (g *Game) entryFor(playerID int, gt GroupType, sg *SubmittedGroup) GroupEntry {
	return GroupEntry{
		PlayerID: playerID,
		Compare: func(other GroupEntry) int {
			osg := g.Groups[other.PlayerID].SubRounds[g.SubRound-1]
			switch gt {
			case GroupSingle:
				return CompareSingle(sg.Single[0], osg.Single[0])
			case GroupTwentyFour:
				return Compare24Points(sg.TwentyFour, osg.TwentyFour)
			default:
				return CompareThree(sg.Three, osg.Three)
			}
		},
	}
}

// Advance moves past a sub-round result: into sub-round two, into the
// next round's deal, or to the final standings.
func (g *Game) Advance() error {
	if g.Phase != PhaseRoundResult {
		return appErr.ErrWrongPhase
	}
	if g.SubRound == 1 {
		g.SubRound = 2
		g.LastResult = nil
		g.Phase = PhaseGrouping
		return nil
	}
	if g.IsGameOver() {
		g.Phase = PhaseGameOver
		return nil
	}
	return g.StartNewRound()
}

// IsGameOver reports whether every scheduled round has been played.
func (g *Game) IsGameOver() bool {
	return g.CurrentRound >= g.TotalRounds
}

// Result builds the final standings, strongest total first.
func (g *Game) Result() FinalResult {
	rankings := make([]RankedPlayer, 0, len(g.Players))
	for _, p := range g.Players {
		rankings = append(rankings, RankedPlayer{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    g.TotalScores[p.ID],
		})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})
	res := FinalResult{Rankings: rankings}
	if len(rankings) > 0 {
		res.Winner = &rankings[0]
	}
	if len(rankings) > 1 && rankings[0].Score == rankings[1].Score {
		res.IsTie = true
	}
	return res
}

func (g *Game) player(id int) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}
