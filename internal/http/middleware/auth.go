package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenParser turns a bearer token into a user id.
type TokenParser func(token string) (string, error)

func bearer(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// AuthOptional sets user_id when a valid bearer token is present. Anonymous
// requests pass through; an invalid token is rejected.
func AuthOptional(parse TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearer(c)
		if tok == "" || parse == nil {
			c.Next()
			return
		}
		uid, err := parse(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "token tidak valid",
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}
