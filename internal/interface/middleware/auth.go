package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/jobboard-api/pkg/helpers"
	"github.com/oksasatya/jobboard-api/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth validates the access token and ensures the session it was issued under
// is still active in Redis. The token is read from the access_token cookie or
// an Authorization: Bearer header. On success userID, userName and userEmail
// are set in the Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			unauthorized(c, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			unauthorized(c, "invalid access token", err.Error())
			return
		}

		name, email := "", ""
		if rdb != nil {
			data, err := rdb.HGetAll(c.Request.Context(), helpers.SessionKey(claims.UserID)).Result()
			if err != nil || len(data) == 0 {
				unauthorized(c, "session not found", nil)
				return
			}
			if sid := data["sid"]; sid != "" && sid != claims.SessionID {
				unauthorized(c, "session expired", nil)
				return
			}
			name, email = data["name"], data["email"]
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set("userName", name)
		c.Set("userEmail", email)
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil && token != "" {
		return token
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func unauthorized(c *gin.Context, msg string, detail any) {
	response.Error(c, http.StatusUnauthorized, msg, detail).Abort(c)
}
