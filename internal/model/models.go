package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	UserStatusNormal = "normal"
	UserStatusBanned = "banned"
)

// User is a guest account identified by a unique nickname.
type User struct {
	ID        int64  `gorm:"primaryKey"`
	Nickname  string `gorm:"size:32;uniqueIndex"`
	Status    string `gorm:"size:16;default:normal"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Game type tags stored on match records and stats rows.
const (
	GameTypeTriple = "triple"
	GameTypeBluff  = "bluff"
	GameTypeBank   = "bank"
	GameTypeSet    = "set"
)

// MatchRecord is one finished match. Result holds the game-specific
// final state (rankings, stats, winners) as JSON.
type MatchRecord struct {
	ID          int64  `gorm:"primaryKey"`
	TableID     string `gorm:"size:64;uniqueIndex"`
	GameType    string `gorm:"size:16;index"`
	PlayerCount int
	Rounds      int
	WinnerID    int64 `gorm:"index"`
	Result      datatypes.JSON
	CreatedAt   time.Time
}

// MatchSeat links a user to a match they took part in.
type MatchSeat struct {
	ID      int64 `gorm:"primaryKey"`
	MatchID int64 `gorm:"index"`
	UserID  int64 `gorm:"index"`
	Score   int64
	Won     bool
}

// PlayerStat accumulates one user's record per game type.
type PlayerStat struct {
	ID         int64  `gorm:"primaryKey"`
	UserID     int64  `gorm:"index:idx_stat_user_game,unique"`
	GameType   string `gorm:"size:16;index:idx_stat_user_game,unique"`
	Played     int
	Wins       int
	TotalScore int64
	UpdatedAt  time.Time
}
