package table

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"cardhall-service/internal/game/bank"
	"cardhall-service/internal/game/bluff"
	"cardhall-service/internal/game/deck"
	"cardhall-service/internal/game/setgame"
	"cardhall-service/internal/game/triple"
	appErr "cardhall-service/pkg/errors"
)

// Game type tags a runtime can host.
const (
	GameTriple = "triple"
	GameBluff  = "bluff"
	GameBank   = "bank"
	GameSet    = "set"
)

// LogItem is one human-readable line of table history.
type LogItem struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
}

// OutgoingMessage is a state push to a subscribed client. Seq grows
// by one per push so clients can drop stale frames.
type OutgoingMessage struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq"`
	Data any    `json:"data"`
}

const maxLogItems = 50

// TableRuntime owns one live table: a single human seat against
// computer ones. All mutation happens under mu; AI turns are paced by
// timers that re-enter through the same lock.
type TableRuntime struct {
	ID        string
	GameType  string
	OwnerID   int64
	OwnerName string

	mu          sync.Mutex
	seq         int64
	logSeq      int64
	logs        []LogItem
	subscribers map[int64]chan OutgoingMessage
	aiTimer     *time.Timer
	finished    bool

	aiDelay  time.Duration
	rng      *rand.Rand
	onFinish func(rt *TableRuntime, summary FinishSummary)

	triple *triple.Game
	bluff  *bluff.Game
	bank   *bank.Game
	set    *setgame.Game
}

// FinishSummary is what a finished table reports for settlement.
type FinishSummary struct {
	GameType    string
	PlayerCount int
	Rounds      int
	HumanWon    bool
	HumanScore  int64
	Result      any
}

func (rt *TableRuntime) addLogLocked(format string, args ...any) {
	rt.logSeq++
	rt.logs = append(rt.logs, LogItem{
		ID:        rt.logSeq,
		Timestamp: time.Now(),
		Content:   fmt.Sprintf(format, args...),
	})
	if len(rt.logs) > maxLogItems {
		rt.logs = rt.logs[len(rt.logs)-maxLogItems:]
	}
}

// Subscribe registers a client channel for state pushes. The current
// state is pushed immediately.
func (rt *TableRuntime) Subscribe(userID int64) chan OutgoingMessage {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	ch := make(chan OutgoingMessage, 16)
	rt.subscribers[userID] = ch
	rt.pushToLocked(userID, ch)
	return ch
}

// Resync re-pushes the current state to one subscriber, for clients
// that reconnect or suspect a dropped frame.
func (rt *TableRuntime) Resync(userID int64) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if ch, ok := rt.subscribers[userID]; ok {
		rt.pushToLocked(userID, ch)
	}
}

// Unsubscribe drops a client channel.
func (rt *TableRuntime) Unsubscribe(userID int64) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if ch, ok := rt.subscribers[userID]; ok {
		delete(rt.subscribers, userID)
		close(ch)
	}
}

func (rt *TableRuntime) broadcastLocked() {
	rt.seq++
	for userID, ch := range rt.subscribers {
		msg := OutgoingMessage{Type: "state", Seq: rt.seq, Data: rt.snapshotLocked(userID)}
		select {
		case ch <- msg:
		default: // slow consumer, drop the frame; the next push catches it up
		}
	}
}

func (rt *TableRuntime) pushToLocked(userID int64, ch chan OutgoingMessage) {
	rt.seq++
	select {
	case ch <- OutgoingMessage{Type: "state", Seq: rt.seq, Data: rt.snapshotLocked(userID)}:
	default:
	}
}

// State returns the table as seen by userID.
func (rt *TableRuntime) State(userID int64) any {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.snapshotLocked(userID)
}

func (rt *TableRuntime) snapshotLocked(userID int64) any {
	base := map[string]any{
		"tableId":  rt.ID,
		"gameType": rt.GameType,
		"logs":     append([]LogItem(nil), rt.logs...),
	}
	switch rt.GameType {
	case GameTriple:
		base["game"] = rt.tripleSnapshotLocked()
	case GameBluff:
		base["game"] = rt.bluffSnapshotLocked()
	case GameBank:
		base["game"] = rt.bankSnapshotLocked()
	case GameSet:
		base["game"] = rt.setSnapshotLocked()
	}
	return base
}

// seatView is the public face of a seat: everyone sees hand sizes,
// only the human seat's cards are included.
type seatView struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	IsHuman  bool        `json:"isHuman"`
	HandSize int         `json:"handSize"`
	Hand     []deck.Card `json:"hand,omitempty"`
	Out      bool        `json:"out,omitempty"`
}

func (rt *TableRuntime) tripleSnapshotLocked() map[string]any {
	g := rt.triple
	seats := make([]seatView, 0, len(g.Players))
	for _, p := range g.Players {
		v := seatView{ID: p.ID, Name: p.Name, IsHuman: p.IsHuman, HandSize: len(p.Hand)}
		if p.IsHuman {
			v.Hand = p.Hand
		}
		seats = append(seats, v)
	}
	snap := map[string]any{
		"phase":        g.Phase,
		"currentRound": g.CurrentRound,
		"totalRounds":  g.TotalRounds,
		"subRound":     g.SubRound,
		"players":      seats,
		"roundScores":  g.RoundScores,
		"totalScores":  g.TotalScores,
	}
	if g.LastResult != nil {
		snap["lastResult"] = g.LastResult
	}
	if g.Phase == triple.PhaseGameOver {
		snap["finalResult"] = g.Result()
	}
	return snap
}

func (rt *TableRuntime) bluffSnapshotLocked() map[string]any {
	g := rt.bluff
	seats := make([]seatView, 0, len(g.Players))
	for _, p := range g.Players {
		v := seatView{ID: p.ID, Name: p.Name, IsHuman: p.IsHuman, HandSize: len(p.Hand)}
		if p.IsHuman {
			v.Hand = p.Hand
		}
		seats = append(seats, v)
	}
	snap := map[string]any{
		"phase":         g.Phase,
		"players":       seats,
		"currentPlayer": g.CurrentPlayer().ID,
		"currentRank":   g.CurrentRank,
		"pileSize":      g.PileSize(),
		"discardSize":   len(g.Discard),
		"skipCount":     g.SkipCount,
		"stats":         g.Stats,
		"winner":        g.Winner,
	}
	if g.Latest != nil {
		snap["latestCount"] = len(g.Latest.Cards)
		snap["latestPlayer"] = g.Latest.PlayerID
	}
	return snap
}

func (rt *TableRuntime) bankSnapshotLocked() map[string]any {
	g := rt.bank
	seats := make([]seatView, 0, len(g.Players))
	for _, p := range g.Players {
		v := seatView{ID: p.ID, Name: p.Name, IsHuman: p.IsHuman, HandSize: len(p.Hand), Out: p.Out}
		if p.IsHuman {
			v.Hand = p.Hand
		}
		seats = append(seats, v)
	}
	snap := map[string]any{
		"phase":           g.Phase,
		"players":         seats,
		"currentPlayer":   g.CurrentPlayer().ID,
		"requiredPayment": g.RequiredPayment,
		"deckRemaining":   g.DeckRemaining(),
		"discardSize":     len(g.Discard),
	}
	if g.Drawn != nil {
		snap["drawnCard"] = *g.Drawn
	}
	if g.Phase == bank.PhaseGameOver {
		finals := make(map[int]int, len(g.Players))
		for _, p := range g.Players {
			finals[p.ID] = p.FinalValue
		}
		winners := make([]int, 0, 1)
		for _, w := range g.Winners() {
			winners = append(winners, w.ID)
		}
		snap["finalValues"] = finals
		snap["winners"] = winners
	}
	return snap
}

func (rt *TableRuntime) setSnapshotLocked() map[string]any {
	g := rt.set
	return map[string]any{
		"phase":         g.Phase,
		"board":         g.Board,
		"score":         g.Score,
		"setsFound":     g.SetsFound,
		"hintsFree":     g.HintsFree,
		"hintsUsed":     g.HintsUsed,
		"deckRemaining": g.DeckRemaining(),
	}
}

// scheduleAILocked arms the pacing timer when a computer seat holds
// the next move.
func (rt *TableRuntime) scheduleAILocked() {
	if rt.finished || !rt.aiTurnPendingLocked() {
		return
	}
	if rt.aiTimer != nil {
		rt.aiTimer.Stop()
	}
	rt.aiTimer = time.AfterFunc(rt.aiDelay, rt.stepAI)
}

func (rt *TableRuntime) aiTurnPendingLocked() bool {
	switch rt.GameType {
	case GameBluff:
		return rt.bluff.Phase == bluff.PhasePlaying && !rt.bluff.CurrentPlayer().IsHuman
	case GameBank:
		return rt.bank.Phase != bank.PhaseGameOver && !rt.bank.CurrentPlayer().IsHuman
	}
	// The triple game resolves computer seats inside the submit; the
	// set game has no computer seat.
	return false
}

// stepAI runs one paced computer action, then schedules the next.
func (rt *TableRuntime) stepAI() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.finished || !rt.aiTurnPendingLocked() {
		return
	}

	switch rt.GameType {
	case GameBluff:
		actor := rt.bluff.CurrentPlayer()
		dec, res, err := rt.bluff.StepAI()
		if err != nil {
			return
		}
		switch dec.Type {
		case bluff.DecisionChallenge:
			if res.Success {
				rt.addLogLocked("%s challenged and caught a bluff", actor.Name)
			} else {
				rt.addLogLocked("%s challenged an honest play and took the pile", actor.Name)
			}
		case bluff.DecisionSkip:
			rt.addLogLocked("%s skipped", actor.Name)
		default:
			rt.addLogLocked("%s played %d card(s) claiming %s", actor.Name, len(dec.Cards), dec.ClaimedRank)
		}
	case GameBank:
		actor := rt.bank.CurrentPlayer()
		phase := rt.bank.Phase
		if err := rt.bank.StepAI(); err != nil {
			return
		}
		if phase == bank.PhasePlaying {
			rt.addLogLocked("%s drew a card", actor.Name)
		} else if actor.Out {
			rt.addLogLocked("%s could not pay and is out", actor.Name)
		} else {
			rt.addLogLocked("%s paid the demand", actor.Name)
		}
	}

	rt.checkFinishLocked()
	rt.broadcastLocked()
	rt.scheduleAILocked()
}

// checkFinishLocked fires the finish hook exactly once per table.
func (rt *TableRuntime) checkFinishLocked() {
	if rt.finished {
		return
	}
	summary, done := rt.finishSummaryLocked()
	if !done {
		return
	}
	rt.finished = true
	if rt.aiTimer != nil {
		rt.aiTimer.Stop()
	}
	rt.addLogLocked("game over")
	if rt.onFinish != nil {
		go rt.onFinish(rt, summary)
	}
}

func (rt *TableRuntime) finishSummaryLocked() (FinishSummary, bool) {
	switch rt.GameType {
	case GameTriple:
		g := rt.triple
		if g.Phase != triple.PhaseGameOver {
			return FinishSummary{}, false
		}
		res := g.Result()
		humanID := 0
		for _, p := range g.Players {
			if p.IsHuman {
				humanID = p.ID
			}
		}
		return FinishSummary{
			GameType:    GameTriple,
			PlayerCount: len(g.Players),
			Rounds:      g.TotalRounds,
			HumanWon:    res.Winner != nil && res.Winner.PlayerID == humanID,
			HumanScore:  int64(g.TotalScores[humanID]),
			Result:      res,
		}, true
	case GameBluff:
		g := rt.bluff
		if g.Phase != bluff.PhaseGameOver {
			return FinishSummary{}, false
		}
		humanID := g.Players[0].ID
		return FinishSummary{
			GameType:    GameBluff,
			PlayerCount: len(g.Players),
			Rounds:      g.Rounds,
			HumanWon:    g.Winner == humanID,
			HumanScore:  int64(g.Stats[humanID].SuccessfulBluffs + g.Stats[humanID].SuccessfulChallenges),
			Result:      map[string]any{"winner": g.Winner, "stats": g.Stats},
		}, true
	case GameBank:
		g := rt.bank
		if g.Phase != bank.PhaseGameOver {
			return FinishSummary{}, false
		}
		var human *bank.Player
		for _, p := range g.Players {
			if p.IsHuman {
				human = p
			}
		}
		won := false
		for _, w := range g.Winners() {
			if human != nil && w.ID == human.ID {
				won = true
			}
		}
		score := int64(0)
		if human != nil {
			score = int64(human.FinalValue)
		}
		finals := make(map[int]int, len(g.Players))
		for _, p := range g.Players {
			finals[p.ID] = p.FinalValue
		}
		return FinishSummary{
			GameType:    GameBank,
			PlayerCount: len(g.Players),
			HumanWon:    won,
			HumanScore:  score,
			Result:      map[string]any{"finalValues": finals},
		}, true
	case GameSet:
		g := rt.set
		if g.Phase != setgame.PhaseGameOver {
			return FinishSummary{}, false
		}
		return FinishSummary{
			GameType:    GameSet,
			PlayerCount: 1,
			HumanWon:    true,
			HumanScore:  int64(g.Score),
			Result:      map[string]any{"score": g.Score, "setsFound": g.SetsFound},
		}, true
	}
	return FinishSummary{}, false
}

// afterHumanAction is the shared tail of every human move: log,
// finish check, push, and AI pacing.
func (rt *TableRuntime) afterHumanActionLocked() {
	rt.checkFinishLocked()
	rt.broadcastLocked()
	rt.scheduleAILocked()
}

func (rt *TableRuntime) requireGame(gameType string) error {
	if rt.GameType != gameType {
		return appErr.ErrWrongPhase
	}
	return nil
}
