// Package ws streams table state to clients and accepts game actions
// over a websocket.
package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cardhall-service/internal/game/deck"
	"cardhall-service/internal/game/triple"
	"cardhall-service/internal/service/table"
	"cardhall-service/pkg/auth"
	"cardhall-service/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 8 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// IncomingMessage is a client request over the socket.
type IncomingMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type client struct {
	conn    *websocket.Conn
	userID  int64
	tableID string
	svc     *table.Service
	send    chan table.OutgoingMessage
	errs    chan error
}

// Handler upgrades /ws/table/:tableId connections. The token travels
// as a query parameter since browsers cannot set headers on sockets;
// non-browser clients may send a bearer header instead.
func Handler(svc *table.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			if bearer, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
				token = bearer
			}
		}
		claims, err := auth.ParseUserToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		tableID := c.Param("tableId")
		rt, err := svc.Get(tableID, claims.SubjectID)
		if err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Named("ws").Warn("upgrade failed", zap.Error(err))
			return
		}

		cl := &client{
			conn:    conn,
			userID:  claims.SubjectID,
			tableID: tableID,
			svc:     svc,
			send:    rt.Subscribe(claims.SubjectID),
			errs:    make(chan error, 4),
		}
		go cl.writePump()
		go cl.readPump(rt)
	}
}

func (cl *client) readPump(rt *table.TableRuntime) {
	defer func() {
		rt.Unsubscribe(cl.userID)
		cl.conn.Close()
	}()
	cl.conn.SetReadLimit(maxMsgSize)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Named("ws").Debug("read error", zap.Error(err))
			}
			return
		}
		var msg IncomingMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if err := cl.dispatch(msg); err != nil {
			select {
			case cl.errs <- err:
			default:
			}
		}
	}
}

func (cl *client) dispatch(msg IncomingMessage) error {
	switch msg.Action {
	case "submit_groups":
		var groups triple.SubmittedGroup
		if err := json.Unmarshal(msg.Data, &groups); err != nil {
			return err
		}
		return cl.svc.SubmitGroups(cl.tableID, cl.userID, groups)
	case "next":
		return cl.svc.NextPhase(cl.tableID, cl.userID)
	case "play":
		var payload struct {
			Cards       []deck.Card `json:"cards"`
			ClaimedRank deck.Rank   `json:"claimedRank"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return err
		}
		return cl.svc.BluffPlay(cl.tableID, cl.userID, payload.Cards, payload.ClaimedRank)
	case "challenge":
		_, err := cl.svc.BluffChallenge(cl.tableID, cl.userID)
		return err
	case "skip":
		return cl.svc.BluffSkip(cl.tableID, cl.userID)
	case "draw":
		return cl.svc.BankDraw(cl.tableID, cl.userID)
	case "pay":
		var payload struct {
			Cards []deck.Card `json:"cards"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return err
		}
		return cl.svc.BankPay(cl.tableID, cl.userID, payload.Cards)
	case "fold":
		return cl.svc.BankFold(cl.tableID, cl.userID)
	case "claim_set":
		var payload struct {
			IDs [3]int `json:"ids"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return err
		}
		return cl.svc.SetClaim(cl.tableID, cl.userID, payload.IDs)
	case "hint":
		_, err := cl.svc.SetHint(cl.tableID, cl.userID)
		return err
	case "add_cards":
		return cl.svc.SetAddCards(cl.tableID, cl.userID)
	case "rejoin":
		rt, err := cl.svc.Get(cl.tableID, cl.userID)
		if err != nil {
			return err
		}
		rt.Resync(cl.userID)
		return nil
	case "ping":
		return nil
	}
	return nil
}

func (cl *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case err := <-cl.errs:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			payload, _ := json.Marshal(map[string]any{"type": "error", "msg": err.Error()})
			if werr := cl.conn.WriteMessage(websocket.TextMessage, payload); werr != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
