package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"curator/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userID"

// Auth validates the bearer token and stores the subject as the acting user
// id. Tokens are issued elsewhere; this only verifies.
func Auth(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenString == header {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Debug("rejected token: %v", err)
			abortUnauthorized(c, "invalid token")
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(userIDKey, subject)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, empty when unauthenticated.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   msg,
	})
}
