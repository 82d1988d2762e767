// Package response renders the uniform API envelope. Failures carry a
// stable machine code derived from the service's sentinel errors, so
// clients branch on the code instead of parsing messages.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appErr "cardhall-service/pkg/errors"
)

// Body is the envelope every endpoint returns.
type Body struct {
	Code string `json:"code"`
	Data any    `json:"data,omitempty"`
	Msg  string `json:"msg,omitempty"`
}

// CodeOK marks a successful envelope.
const CodeOK = "ok"

// errorClasses maps each sentinel onto its HTTP status and code.
var errorClasses = []struct {
	err    error
	status int
	code   string
}{
	{appErr.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{appErr.ErrUserBanned, http.StatusUnauthorized, "user_banned"},
	{appErr.ErrTableAccessDenied, http.StatusForbidden, "table_access_denied"},
	{appErr.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{appErr.ErrTableNotFound, http.StatusNotFound, "table_not_found"},
	{appErr.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
	{appErr.ErrNicknameTaken, http.StatusConflict, "nickname_taken"},
	{appErr.ErrMatchAlreadySettled, http.StatusConflict, "match_already_settled"},
	{appErr.ErrInvalidNickname, http.StatusBadRequest, "invalid_nickname"},
	{appErr.ErrWrongPhase, http.StatusBadRequest, "wrong_phase"},
	{appErr.ErrNotYourTurn, http.StatusBadRequest, "not_your_turn"},
	{appErr.ErrInvalidGrouping, http.StatusBadRequest, "invalid_grouping"},
	{appErr.ErrInvalidPlay, http.StatusBadRequest, "invalid_play"},
	{appErr.ErrCardsNotInHand, http.StatusBadRequest, "cards_not_in_hand"},
	{appErr.ErrDeckExhausted, http.StatusBadRequest, "deck_exhausted"},
	{appErr.ErrSettlementValidation, http.StatusBadRequest, "invalid_settlement"},
}

// Success renders a 200 envelope around data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{Code: CodeOK, Data: data})
}

// Fail classifies err and renders its envelope. Errors outside the
// sentinel set become opaque 500s.
func Fail(c *gin.Context, err error) {
	for _, class := range errorClasses {
		if errors.Is(err, class.err) {
			c.JSON(class.status, Body{Code: class.code, Msg: err.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, Body{Code: "internal", Msg: "internal error"})
}

// FailWith renders a failure that has no sentinel, such as a
// malformed request body or a missing token.
func FailWith(c *gin.Context, status int, code, msg string) {
	c.JSON(status, Body{Code: code, Msg: msg})
}
