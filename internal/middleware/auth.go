package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cardhall-service/pkg/auth"
	"cardhall-service/pkg/response"
)

// ContextUserIDKey is where AuthRequired stores the authenticated
// user's id.
const ContextUserIDKey = "userID"

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.FailWith(c, http.StatusUnauthorized, "unauthorized", "missing token")
			c.Abort()
			return
		}
		claims, err := auth.ParseUserToken(token)
		if err != nil {
			response.FailWith(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, claims.SubjectID)
		c.Next()
	}
}

// UserID reads the authenticated user's id from the request context.
func UserID(c *gin.Context) int64 {
	v, _ := c.Get(ContextUserIDKey)
	id, _ := v.(int64)
	return id
}
