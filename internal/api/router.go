// Package api exposes the HTTP surface: guest auth, table lifecycle,
// game actions, history and the websocket entry point.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardhall-service/internal/game/deck"
	"cardhall-service/internal/game/triple"
	"cardhall-service/internal/middleware"
	"cardhall-service/internal/service"
	"cardhall-service/internal/service/table"
	"cardhall-service/internal/ws"
	"cardhall-service/pkg/response"
)

// NewRouter builds the gin engine with every route mounted.
func NewRouter(c *service.Container) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	v1.POST("/auth/guest", guestLogin(c))

	authed := v1.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/me", me(c))
		authed.GET("/leaderboard/:gameType", leaderboard(c))
		authed.GET("/matches", matches(c))

		tables := authed.Group("/tables")
		tables.POST("", createTable(c))
		tables.GET("/:tableId", tableState(c))
		tables.DELETE("/:tableId", closeTable(c))

		tables.POST("/:tableId/groups", submitGroups(c))
		tables.POST("/:tableId/next", nextPhase(c))

		tables.POST("/:tableId/play", bluffPlay(c))
		tables.POST("/:tableId/challenge", bluffChallenge(c))
		tables.POST("/:tableId/skip", bluffSkip(c))

		tables.POST("/:tableId/draw", bankDraw(c))
		tables.POST("/:tableId/pay", bankPay(c))
		tables.POST("/:tableId/fold", bankFold(c))

		tables.POST("/:tableId/claim", setClaim(c))
		tables.POST("/:tableId/hint", setHint(c))
		tables.POST("/:tableId/cards", setAddCards(c))
	}

	r.GET("/ws/table/:tableId", ws.Handler(c.Table))
	return r
}

func guestLogin(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req struct {
			Nickname string `json:"nickname"`
		}
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.FailWith(ctx, http.StatusBadRequest, "bad_request", "invalid request")
			return
		}
		result, err := c.Auth.GuestLogin(ctx.Request.Context(), req.Nickname)
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.Success(ctx, result)
	}
}

func me(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := c.Auth.GetUser(ctx.Request.Context(), middleware.UserID(ctx))
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.Success(ctx, gin.H{
			"userId":   user.ID,
			"nickname": user.Nickname,
			"status":   user.Status,
		})
	}
}

func leaderboard(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rows, err := c.History.Leaderboard(ctx.Request.Context(), ctx.Param("gameType"))
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.Success(ctx, rows)
	}
}

func matches(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		records, err := c.History.Matches(ctx.Request.Context(), middleware.UserID(ctx), 20)
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.Success(ctx, records)
	}
}

func createTable(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var opts struct {
			GameType    string `json:"gameType" binding:"required"`
			PlayerCount int    `json:"playerCount"`
			Rounds      int    `json:"rounds"`
			Difficulty  string `json:"difficulty"`
		}
		if err := ctx.ShouldBindJSON(&opts); err != nil {
			response.FailWith(ctx, http.StatusBadRequest, "bad_request", "invalid request")
			return
		}
		user, err := c.Auth.GetUser(ctx.Request.Context(), middleware.UserID(ctx))
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		rt, err := c.Table.CreateTable(user.ID, user.Nickname, table.CreateOptions{
			GameType:    opts.GameType,
			PlayerCount: opts.PlayerCount,
			Rounds:      opts.Rounds,
			Difficulty:  opts.Difficulty,
		})
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.Success(ctx, gin.H{
			"tableId": rt.ID,
			"state":   rt.State(user.ID),
		})
	}
}

func tableState(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := middleware.UserID(ctx)
		rt, err := c.Table.Get(ctx.Param("tableId"), userID)
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.Success(ctx, rt.State(userID))
	}
}

func closeTable(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.Table.Close(ctx.Param("tableId"), middleware.UserID(ctx)); err != nil {
			response.Fail(ctx, err)
			return
		}
		response.Success(ctx, nil)
	}
}

func submitGroups(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var groups triple.SubmittedGroup
		if err := ctx.ShouldBindJSON(&groups); err != nil {
			response.FailWith(ctx, http.StatusBadRequest, "bad_request", "invalid request")
			return
		}
		if err := c.Table.SubmitGroups(ctx.Param("tableId"), middleware.UserID(ctx), groups); err != nil {
			response.Fail(ctx, err)
			return
		}
		tableStateAfterAction(ctx, c)
	}
}

func nextPhase(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.Table.NextPhase(ctx.Param("tableId"), middleware.UserID(ctx)); err != nil {
			response.Fail(ctx, err)
			return
		}
		tableStateAfterAction(ctx, c)
	}
}

func bluffPlay(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req struct {
			Cards       []deck.Card `json:"cards" binding:"required"`
			ClaimedRank deck.Rank   `json:"claimedRank" binding:"required"`
		}
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.FailWith(ctx, http.StatusBadRequest, "bad_request", "invalid request")
			return
		}
		if err := c.Table.BluffPlay(ctx.Param("tableId"), middleware.UserID(ctx), req.Cards, req.ClaimedRank); err != nil {
			response.Fail(ctx, err)
			return
		}
		tableStateAfterAction(ctx, c)
	}
}

func bluffChallenge(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, err := c.Table.BluffChallenge(ctx.Param("tableId"), middleware.UserID(ctx))
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.Success(ctx, result)
	}
}

func bluffSkip(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.Table.BluffSkip(ctx.Param("tableId"), middleware.UserID(ctx)); err != nil {
			response.Fail(ctx, err)
			return
		}
		tableStateAfterAction(ctx, c)
	}
}

func bankDraw(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.Table.BankDraw(ctx.Param("tableId"), middleware.UserID(ctx)); err != nil {
			response.Fail(ctx, err)
			return
		}
		tableStateAfterAction(ctx, c)
	}
}

func bankPay(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req struct {
			Cards []deck.Card `json:"cards" binding:"required"`
		}
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.FailWith(ctx, http.StatusBadRequest, "bad_request", "invalid request")
			return
		}
		if err := c.Table.BankPay(ctx.Param("tableId"), middleware.UserID(ctx), req.Cards); err != nil {
			response.Fail(ctx, err)
			return
		}
		tableStateAfterAction(ctx, c)
	}
}

func bankFold(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.Table.BankFold(ctx.Param("tableId"), middleware.UserID(ctx)); err != nil {
			response.Fail(ctx, err)
			return
		}
		tableStateAfterAction(ctx, c)
	}
}

func setClaim(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req struct {
			IDs [3]int `json:"ids" binding:"required"`
		}
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.FailWith(ctx, http.StatusBadRequest, "bad_request", "invalid request")
			return
		}
		if err := c.Table.SetClaim(ctx.Param("tableId"), middleware.UserID(ctx), req.IDs); err != nil {
			response.Fail(ctx, err)
			return
		}
		tableStateAfterAction(ctx, c)
	}
}

func setHint(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		hint, err := c.Table.SetHint(ctx.Param("tableId"), middleware.UserID(ctx))
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.Success(ctx, gin.H{"hint": hint})
	}
}

func setAddCards(c *service.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.Table.SetAddCards(ctx.Param("tableId"), middleware.UserID(ctx)); err != nil {
			response.Fail(ctx, err)
			return
		}
		tableStateAfterAction(ctx, c)
	}
}

func tableStateAfterAction(ctx *gin.Context, c *service.Container) {
	userID := middleware.UserID(ctx)
	rt, err := c.Table.Get(ctx.Param("tableId"), userID)
	if err != nil {
		response.Fail(ctx, err)
		return
	}
	response.Success(ctx, rt.State(userID))
}

