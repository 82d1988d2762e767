// Package table hosts live games: one runtime per table, a single
// human seat, computer opponents, and state pushes to subscribers.
package table

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cardhall-service/internal/config"
	"cardhall-service/internal/game/bank"
	"cardhall-service/internal/game/bluff"
	"cardhall-service/internal/game/deck"
	"cardhall-service/internal/game/setgame"
	"cardhall-service/internal/game/triple"
	"cardhall-service/internal/service/history"
	appErr "cardhall-service/pkg/errors"
	"cardhall-service/pkg/logger"
)

var botNames = []string{"North", "East", "South"}

type Service struct {
	history *history.Service

	mu     sync.Mutex
	tables map[string]*TableRuntime
}

func NewService(historySvc *history.Service) *Service {
	return &Service{
		history: historySvc,
		tables:  make(map[string]*TableRuntime),
	}
}

// CreateOptions tunes a new table. Zero values fall back to the
// configured defaults.
type CreateOptions struct {
	GameType    string `json:"gameType"`
	PlayerCount int    `json:"playerCount"` // triple 2-4 seats, bank 2-3
	Rounds      int    `json:"rounds"`      // triple only
	Difficulty  string `json:"difficulty"`  // bluff tier; triple bot strength
	Seed        int64  `json:"seed"`        // 0 means random
}

// CreateTable starts a game for the user and returns its runtime.
func (s *Service) CreateTable(userID int64, nickname string, opts CreateOptions) (*TableRuntime, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	rt := &TableRuntime{
		ID:          uuid.NewString(),
		GameType:    opts.GameType,
		OwnerID:     userID,
		OwnerName:   nickname,
		subscribers: make(map[int64]chan OutgoingMessage),
		aiDelay:     time.Duration(config.GlobalConfig.Game.AIDelayMs) * time.Millisecond,
		rng:         rng,
		onFinish:    s.settle,
	}

	switch opts.GameType {
	case GameTriple:
		playerCount := opts.PlayerCount
		if playerCount == 0 {
			playerCount = 3
		}
		rounds := opts.Rounds
		if rounds == 0 {
			rounds = config.GlobalConfig.Game.DefaultRounds
		}
		strategy := triple.StrategyEnumerate
		switch opts.Difficulty {
		case "easy":
			strategy = triple.StrategyRandom
		case "medium":
			strategy = triple.StrategySmart
		}
		players := []*triple.Player{{ID: 1, Name: nickname, IsHuman: true}}
		for i := 1; i < playerCount; i++ {
			players = append(players, &triple.Player{ID: i + 1, Name: botName(i - 1), Strategy: strategy})
		}
		g, err := triple.NewGame(players, rounds, rng)
		if err != nil {
			return nil, err
		}
		if err := g.Start(); err != nil {
			return nil, err
		}
		rt.triple = g
	case GameBluff:
		difficulty := bluff.Difficulty(opts.Difficulty)
		if difficulty == "" {
			difficulty = bluff.Difficulty(config.GlobalConfig.Game.Difficulty)
		}
		switch difficulty {
		case bluff.DifficultyEasy, bluff.DifficultyMedium, bluff.DifficultyHard:
		default:
			return nil, appErr.ErrInvalidPlay
		}
		names := [bluff.PlayerCount]string{nickname, botNames[0], botNames[1], botNames[2]}
		rt.bluff = bluff.New(names, difficulty, rng)
	case GameBank:
		playerCount := opts.PlayerCount
		if playerCount == 0 {
			playerCount = 2
		}
		names := []string{nickname}
		for i := 1; i < playerCount; i++ {
			names = append(names, botName(i-1))
		}
		g, err := bank.New(names, 0, rng)
		if err != nil {
			return nil, err
		}
		rt.bank = g
	case GameSet:
		rt.set = setgame.New(rng)
	default:
		return nil, appErr.ErrInvalidPlay
	}

	rt.mu.Lock()
	rt.addLogLocked("table created by %s", nickname)
	rt.scheduleAILocked()
	rt.mu.Unlock()

	s.mu.Lock()
	s.tables[rt.ID] = rt
	s.mu.Unlock()

	logger.Named("table").Info("table created",
		zap.String("tableId", rt.ID),
		zap.String("gameType", rt.GameType),
		zap.Int64("userId", userID))
	return rt, nil
}

// Get loads a table the user owns.
func (s *Service) Get(tableID string, userID int64) (*TableRuntime, error) {
	s.mu.Lock()
	rt, ok := s.tables[tableID]
	s.mu.Unlock()
	if !ok {
		return nil, appErr.ErrTableNotFound
	}
	if rt.OwnerID != userID {
		return nil, appErr.ErrTableAccessDenied
	}
	return rt, nil
}

// Close tears a table down and drops every subscriber.
func (s *Service) Close(tableID string, userID int64) error {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.tables, tableID)
	s.mu.Unlock()

	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.finished = true
	if rt.aiTimer != nil {
		rt.aiTimer.Stop()
	}
	for userID, ch := range rt.subscribers {
		delete(rt.subscribers, userID)
		close(ch)
	}
	return nil
}

// settle hands a finished table to the history service.
func (s *Service) settle(rt *TableRuntime, summary FinishSummary) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	winnerID := int64(0)
	if summary.HumanWon {
		winnerID = rt.OwnerID
	}
	err := s.history.Settle(ctx, history.Settlement{
		TableID:     rt.ID,
		GameType:    summary.GameType,
		PlayerCount: summary.PlayerCount,
		Rounds:      summary.Rounds,
		WinnerID:    winnerID,
		Seats: []history.SeatResult{
			{UserID: rt.OwnerID, Score: summary.HumanScore, Won: summary.HumanWon},
		},
		Result: summary.Result,
	})
	if err != nil {
		logger.Named("table").Error("settle failed",
			zap.String("tableId", rt.ID),
			zap.Error(err))
	}
}

// --- triple actions ---

// SubmitGroups plays the human split for the current sub-round.
func (s *Service) SubmitGroups(tableID string, userID int64, groups triple.SubmittedGroup) error {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return err
	}
	if err := rt.requireGame(GameTriple); err != nil {
		return err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := rt.triple.SubmitPlayerGroups(1, groups); err != nil {
		return err
	}
	rt.addLogLocked("%s submitted groups for sub-round %d", rt.OwnerName, rt.triple.SubRound)
	rt.afterHumanActionLocked()
	return nil
}

// NextPhase advances the triple game past a result screen.
func (s *Service) NextPhase(tableID string, userID int64) error {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return err
	}
	if err := rt.requireGame(GameTriple); err != nil {
		return err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := rt.triple.Advance(); err != nil {
		return err
	}
	rt.afterHumanActionLocked()
	return nil
}

// --- bluff actions ---

func (s *Service) BluffPlay(tableID string, userID int64, cards []deck.Card, claimedRank deck.Rank) error {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return err
	}
	if err := rt.requireGame(GameBluff); err != nil {
		return err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := rt.bluff.PlayCards(1, cards, claimedRank); err != nil {
		return err
	}
	rt.addLogLocked("%s played %d card(s) claiming %s", rt.OwnerName, len(cards), claimedRank)
	rt.afterHumanActionLocked()
	return nil
}

func (s *Service) BluffChallenge(tableID string, userID int64) (*bluff.ChallengeResult, error) {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return nil, err
	}
	if err := rt.requireGame(GameBluff); err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	res, err := rt.bluff.Challenge(1)
	if err != nil {
		return nil, err
	}
	if res.Success {
		rt.addLogLocked("%s challenged and caught a bluff", rt.OwnerName)
	} else {
		rt.addLogLocked("%s challenged an honest play and took the pile", rt.OwnerName)
	}
	rt.afterHumanActionLocked()
	return res, nil
}

func (s *Service) BluffSkip(tableID string, userID int64) error {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return err
	}
	if err := rt.requireGame(GameBluff); err != nil {
		return err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := rt.bluff.Skip(1); err != nil {
		return err
	}
	rt.addLogLocked("%s skipped", rt.OwnerName)
	rt.afterHumanActionLocked()
	return nil
}

// --- bank actions ---

func (s *Service) BankDraw(tableID string, userID int64) error {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return err
	}
	if err := rt.requireGame(GameBank); err != nil {
		return err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := rt.bank.Draw(1); err != nil {
		return err
	}
	rt.addLogLocked("%s drew a card", rt.OwnerName)
	rt.afterHumanActionLocked()
	return nil
}

func (s *Service) BankPay(tableID string, userID int64, cards []deck.Card) error {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return err
	}
	if err := rt.requireGame(GameBank); err != nil {
		return err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := rt.bank.Pay(1, cards); err != nil {
		return err
	}
	rt.addLogLocked("%s paid the demand", rt.OwnerName)
	rt.afterHumanActionLocked()
	return nil
}

func (s *Service) BankFold(tableID string, userID int64) error {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return err
	}
	if err := rt.requireGame(GameBank); err != nil {
		return err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := rt.bank.Fold(1); err != nil {
		return err
	}
	rt.addLogLocked("%s could not pay and is out", rt.OwnerName)
	rt.afterHumanActionLocked()
	return nil
}

// --- set actions ---

func (s *Service) SetClaim(tableID string, userID int64, ids [3]int) error {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return err
	}
	if err := rt.requireGame(GameSet); err != nil {
		return err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := rt.set.ClaimSet(ids); err != nil {
		return err
	}
	rt.addLogLocked("%s found a set", rt.OwnerName)
	rt.afterHumanActionLocked()
	return nil
}

func (s *Service) SetHint(tableID string, userID int64) ([]setgame.Card, error) {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return nil, err
	}
	if err := rt.requireGame(GameSet); err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	hint := rt.set.Hint()
	rt.broadcastLocked()
	return hint, nil
}

func (s *Service) SetAddCards(tableID string, userID int64) error {
	rt, err := s.Get(tableID, userID)
	if err != nil {
		return err
	}
	if err := rt.requireGame(GameSet); err != nil {
		return err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := rt.set.AddMoreCards(); err != nil {
		return err
	}
	rt.afterHumanActionLocked()
	return nil
}

func botName(i int) string {
	if i < len(botNames) {
		return botNames[i]
	}
	return fmt.Sprintf("Bot-%d", i+1)
}
