package errors

import "errors"

// Sentinel errors shared across services and handlers. API handlers map
// these onto HTTP statuses; everything else matches with errors.Is.
var (
	// auth / users
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserBanned      = errors.New("user is banned")
	ErrInvalidNickname = errors.New("invalid nickname")
	ErrNicknameTaken   = errors.New("nickname already taken")

	// tables & sessions
	ErrTableNotFound     = errors.New("table not found")
	ErrTableAccessDenied = errors.New("table access denied")
	ErrSessionNotFound   = errors.New("game session not found")
	ErrWrongPhase        = errors.New("action not allowed in current phase")
	ErrNotYourTurn       = errors.New("not your turn")

	// gameplay
	ErrInvalidGrouping = errors.New("invalid card grouping")
	ErrInvalidPlay     = errors.New("invalid play")
	ErrCardsNotInHand  = errors.New("selected cards are not in hand")
	ErrDeckExhausted   = errors.New("deck exhausted")

	// settlement
	ErrMatchAlreadySettled  = errors.New("match already settled")
	ErrSettlementValidation = errors.New("invalid settlement payload")
)
