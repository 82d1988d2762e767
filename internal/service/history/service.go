// Package history persists finished matches and aggregates per-user
// standings.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cardhall-service/internal/model"
	appErr "cardhall-service/pkg/errors"
	"cardhall-service/pkg/logger"
)

const (
	leaderboardCacheKey = "leaderboard:"
	leaderboardCacheTTL = 60 * time.Second
	leaderboardSize     = 20
)

type Service struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}

// SeatResult is one user's outcome in a finished match. Seats without
// a user id (computer seats) are skipped at settlement.
type SeatResult struct {
	UserID int64 `json:"userId"`
	Score  int64 `json:"score"`
	Won    bool  `json:"won"`
}

// Settlement is everything a table hands over when its match ends.
type Settlement struct {
	TableID     string
	GameType    string
	PlayerCount int
	Rounds      int
	WinnerID    int64
	Seats       []SeatResult
	Result      any
}

// statBook accumulates per-user deltas so each user's stat row is
// touched exactly once inside the settle transaction.
type statBook map[int64]*statDelta

type statDelta struct {
	played int
	wins   int
	score  int64
}

func (b statBook) add(userID int64, score int64, won bool) {
	d := b[userID]
	if d == nil {
		d = &statDelta{}
		b[userID] = d
	}
	d.played++
	d.score += score
	if won {
		d.wins++
	}
}

// Settle writes the match record and folds every human seat's outcome
// into its stats row, all in one transaction. Settling the same table
// twice fails cleanly on the record's unique table id.
func (s *Service) Settle(ctx context.Context, stl Settlement) error {
	if stl.TableID == "" || stl.GameType == "" {
		return appErr.ErrSettlementValidation
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.MatchRecord
		err := tx.Where("table_id = ?", stl.TableID).First(&existing).Error
		if err == nil {
			return appErr.ErrMatchAlreadySettled
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		record := model.MatchRecord{
			TableID:     stl.TableID,
			GameType:    stl.GameType,
			PlayerCount: stl.PlayerCount,
			Rounds:      stl.Rounds,
			WinnerID:    stl.WinnerID,
			Result:      mustJSON(stl.Result),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		book := statBook{}
		for _, seat := range stl.Seats {
			if seat.UserID == 0 {
				continue
			}
			if err := tx.Create(&model.MatchSeat{
				MatchID: record.ID,
				UserID:  seat.UserID,
				Score:   seat.Score,
				Won:     seat.Won,
			}).Error; err != nil {
				return err
			}
			book.add(seat.UserID, seat.Score, seat.Won)
		}
		for userID, d := range book {
			stat := model.PlayerStat{UserID: userID, GameType: stl.GameType}
			if err := tx.Where("user_id = ? AND game_type = ?", userID, stl.GameType).
				FirstOrCreate(&stat).Error; err != nil {
				return err
			}
			updates := map[string]any{
				"played":      stat.Played + d.played,
				"wins":        stat.Wins + d.wins,
				"total_score": stat.TotalScore + d.score,
			}
			if err := tx.Model(&model.PlayerStat{}).Where("id = ?", stat.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateLeaderboard(ctx, stl.GameType)
	return nil
}

// LeaderboardRow is one standing on a game type's board.
type LeaderboardRow struct {
	UserID     int64  `json:"userId"`
	Nickname   string `json:"nickname"`
	Played     int    `json:"played"`
	Wins       int    `json:"wins"`
	TotalScore int64  `json:"totalScore"`
}

// Leaderboard returns the top players of a game type, served from a
// short-lived redis cache when possible.
func (s *Service) Leaderboard(ctx context.Context, gameType string) ([]LeaderboardRow, error) {
	key := leaderboardCacheKey + gameType
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var rows []LeaderboardRow
			if json.Unmarshal(cached, &rows) == nil {
				return rows, nil
			}
		}
	}

	var rows []LeaderboardRow
	err := s.db.WithContext(ctx).
		Model(&model.PlayerStat{}).
		Select("player_stats.user_id, users.nickname, player_stats.played, player_stats.wins, player_stats.total_score").
		Joins("JOIN users ON users.id = player_stats.user_id").
		Where("player_stats.game_type = ?", gameType).
		Order("player_stats.total_score DESC").
		Limit(leaderboardSize).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(rows); err == nil {
			if err := s.rdb.Set(ctx, key, payload, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed: " + err.Error())
			}
		}
	}
	return rows, nil
}

// Matches lists a user's recent match records, newest first.
func (s *Service) Matches(ctx context.Context, userID int64, limit int) ([]model.MatchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var records []model.MatchRecord
	err := s.db.WithContext(ctx).
		Where("id IN (?)", s.db.Model(&model.MatchSeat{}).Select("match_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (s *Service) invalidateLeaderboard(ctx context.Context, gameType string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, leaderboardCacheKey+gameType).Err(); err != nil {
		logger.Log.Warn("leaderboard cache invalidation failed: " + err.Error())
	}
}

func mustJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("marshal settlement result: " + err.Error())
		return nil
	}
	return datatypes.JSON(payload)
}
