package bluff

import (
	"math/rand"

	"cardhall-service/internal/game/deck"
	appErr "cardhall-service/pkg/errors"
)

const (
	PlayerCount = 4
	HandSize    = 13
	maxPerPlay  = 3
)

// Phase of a bluff game.
type Phase string

const (
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "gameOver"
)

// Player is one seat. Computer seats carry an imperfect card memory.
type Player struct {
	ID      int
	Name    string
	IsHuman bool
	Hand    []deck.Card
	memory  *Memory
}

// Play is the face-down cards currently on top of the pile, still open
// to a challenge.
type Play struct {
	PlayerID    int
	Cards       []deck.Card
	ClaimedRank deck.Rank
	wasBluff    bool
}

// Stats tracks one seat's bluffing record across a game.
type Stats struct {
	SuccessfulBluffs     int `json:"successfulBluffs"`
	FailedBluffs         int `json:"failedBluffs"`
	SuccessfulChallenges int `json:"successfulChallenges"`
	FailedChallenges     int `json:"failedChallenges"`
	CardsBluffed         int `json:"cardsBluffed"`
}

// ChallengeResult is the public outcome of a forced reveal.
type ChallengeResult struct {
	Success      bool        `json:"success"`
	ChallengerID int         `json:"challengerId"`
	ChallengedID int         `json:"challengedId"`
	Revealed     []deck.Card `json:"revealed"`
}

// Game is the full state of a bluff match. Four seats, thirteen cards
// each from a 54-card deck; the two undealt cards never enter play.
type Game struct {
	rng        *rand.Rand
	difficulty Difficulty

	Phase       Phase
	Players     []*Player
	Current     int
	CurrentRank deck.Rank
	Latest      *Play
	Pile        []deck.Card
	Discard     []deck.Card
	SkipCount   int
	Rounds      int
	Winner      int
	Stats       map[int]*Stats
}

// New deals a fresh game. names fills the seats in order; the first
// seat is the human one.
func New(names [PlayerCount]string, difficulty Difficulty, rng *rand.Rand) *Game {
	d := deck.New(deck.WithJokers())
	d.Shuffle(rng)

	g := &Game{
		rng:        rng,
		difficulty: difficulty,
		Phase:      PhasePlaying,
		Stats:      make(map[int]*Stats, PlayerCount),
	}
	for i := 0; i < PlayerCount; i++ {
		p := &Player{
			ID:      i + 1,
			Name:    names[i],
			IsHuman: i == 0,
			Hand:    d.DrawManyAny(HandSize),
		}
		deck.SortForDeal(p.Hand)
		if !p.IsHuman {
			p.memory = NewMemory(difficulty.MemoryAccuracy(), rng)
		}
		g.Players = append(g.Players, p)
		g.Stats[p.ID] = &Stats{}
	}
	return g
}

func (g *Game) CurrentPlayer() *Player {
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

// PileSize counts every face-down card on the table, the unresolved
// latest play included.
func (g *Game) PileSize() int {
	n := len(g.Pile)
	if g.Latest != nil {
		n += len(g.Latest.Cards)
	}
	return n
}

func (g *Game) checkTurn(playerID int) error {
	if g.Phase != PhasePlaying {
		return appErr.ErrWrongPhase
	}
	if g.CurrentPlayer().ID != playerID {
		return appErr.ErrNotYourTurn
	}
	return nil
}

// PlayCards puts one to three cards face down under claimedRank. A
// fresh pile accepts any claim; afterwards every play must repeat the
// active rank. The previous play, now buried, can no longer be
// challenged.
func (g *Game) PlayCards(playerID int, cards []deck.Card, claimedRank deck.Rank) error {
	if err := g.checkTurn(playerID); err != nil {
		return err
	}
	if len(cards) < 1 || len(cards) > maxPerPlay {
		return appErr.ErrInvalidPlay
	}
	if g.Latest != nil && claimedRank != g.CurrentRank {
		return appErr.ErrInvalidPlay
	}
	if claimedRank == deck.Joker || claimedRank == deck.SmallJoker || claimedRank == deck.BigJoker {
		return appErr.ErrInvalidPlay
	}
	p := g.player(playerID)
	for i := range cards {
		if !deck.Contains(p.Hand, cards[i]) {
			return appErr.ErrCardsNotInHand
		}
		for j := i + 1; j < len(cards); j++ {
			if cards[i].Equal(cards[j]) {
				return appErr.ErrInvalidPlay
			}
		}
	}

	g.buryLatest()
	if g.Latest == nil && len(g.Pile) == 0 {
		g.CurrentRank = claimedRank
	}

	bluffed := 0
	for _, c := range cards {
		if !c.IsJoker() && c.Rank != claimedRank {
			bluffed++
		}
	}
	g.Stats[playerID].CardsBluffed += bluffed

	g.Latest = &Play{
		PlayerID:    playerID,
		Cards:       cards,
		ClaimedRank: claimedRank,
		wasBluff:    bluffed > 0,
	}
	p.Hand = deck.Remove(p.Hand, cards)
	g.SkipCount = 0

	if len(p.Hand) == 0 {
		g.Winner = playerID
		g.Phase = PhaseGameOver
		return nil
	}
	g.advance()
	return nil
}

// buryLatest moves an unchallenged play into the pile. Surviving a
// bluff unchallenged counts as a successful one.
func (g *Game) buryLatest() {
	if g.Latest == nil {
		return
	}
	if g.Latest.wasBluff {
		g.Stats[g.Latest.PlayerID].SuccessfulBluffs++
	}
	g.Pile = append(g.Pile, g.Latest.Cards...)
	g.Latest = nil
}

// Challenge forces the latest play face up. A truthful play hands the
// whole pile to the challenger and the challenged seat leads next; a
// caught bluff works the other way around.
func (g *Game) Challenge(challengerID int) (*ChallengeResult, error) {
	if err := g.checkTurn(challengerID); err != nil {
		return nil, err
	}
	if g.Latest == nil {
		return nil, appErr.ErrInvalidPlay
	}
	if g.Latest.PlayerID == challengerID {
		return nil, appErr.ErrInvalidPlay
	}

	latest := g.Latest
	revealed := latest.Cards
	g.observe(revealed)

	allTrue := true
	for _, c := range revealed {
		if !c.IsJoker() && c.Rank != latest.ClaimedRank {
			allTrue = false
			break
		}
	}

	pile := append(g.Pile, revealed...)
	var leaderID int
	if allTrue {
		taker := g.player(challengerID)
		taker.Hand = append(taker.Hand, pile...)
		deck.SortForDeal(taker.Hand)
		leaderID = latest.PlayerID
		g.Stats[challengerID].FailedChallenges++
	} else {
		taker := g.player(latest.PlayerID)
		taker.Hand = append(taker.Hand, pile...)
		deck.SortForDeal(taker.Hand)
		leaderID = challengerID
		g.Stats[challengerID].SuccessfulChallenges++
		g.Stats[latest.PlayerID].FailedBluffs++
	}

	g.resetPile(leaderID)
	return &ChallengeResult{
		Success:      !allTrue,
		ChallengerID: challengerID,
		ChallengedID: latest.PlayerID,
		Revealed:     revealed,
	}, nil
}

// Skip passes the turn. Once every other seat has passed on the same
// play, the whole pile leaves the game for good and the last player
// leads again.
func (g *Game) Skip(playerID int) error {
	if err := g.checkTurn(playerID); err != nil {
		return err
	}
	if g.Latest == nil {
		return appErr.ErrInvalidPlay
	}

	g.SkipCount++
	if g.SkipCount >= len(g.Players)-1 {
		latest := g.Latest
		if latest.wasBluff {
			g.Stats[latest.PlayerID].SuccessfulBluffs++
		}
		discarded := append(g.Pile, latest.Cards...)
		g.Discard = append(g.Discard, discarded...)
		g.observe(discarded)
		g.Latest = nil
		g.resetPile(latest.PlayerID)
		return nil
	}
	g.advance()
	return nil
}

// StepAI runs the current computer seat's turn. The returned decision
// says what it chose; result is non-nil only for challenges.
func (g *Game) StepAI() (Decision, *ChallengeResult, error) {
	p := g.CurrentPlayer()
	if g.Phase != PhasePlaying || p.IsHuman {
		return Decision{}, nil, appErr.ErrWrongPhase
	}

	v := view{
		Hand:        p.Hand,
		PileSize:    g.PileSize(),
		ClaimedRank: g.CurrentRank,
		PileEmpty:   g.Latest == nil && len(g.Pile) == 0,
	}
	if g.Latest != nil {
		v.LatestCount = len(g.Latest.Cards)
		v.SelfWasLast = g.Latest.PlayerID == p.ID
		v.LastHandSize = len(g.player(g.Latest.PlayerID).Hand)
	}

	dec := decide(g.difficulty, v, p.memory, g.rng)
	switch dec.Type {
	case DecisionChallenge:
		res, err := g.Challenge(p.ID)
		return dec, res, err
	case DecisionSkip:
		return dec, nil, g.Skip(p.ID)
	default:
		return dec, nil, g.PlayCards(p.ID, dec.Cards, dec.ClaimedRank)
	}
}

// observe shows cards to every computer seat's memory.
func (g *Game) observe(cards []deck.Card) {
	for _, p := range g.Players {
		if p.memory != nil {
			p.memory.Observe(cards)
		}
	}
}

// resetPile clears the table after a reveal or a unanimous skip and
// hands the lead to leaderID.
func (g *Game) resetPile(leaderID int) {
	g.Pile = nil
	g.Latest = nil
	g.CurrentRank = ""
	g.SkipCount = 0
	g.Rounds++
	for i, p := range g.Players {
		if p.ID == leaderID {
			g.Current = i
			return
		}
	}
}

func (g *Game) advance() {
	g.Current = (g.Current + 1) % len(g.Players)
}
