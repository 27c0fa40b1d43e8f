package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey holds the authenticated user id on the gin context.
const ContextUserIDKey = "userID"

// accessTokenQuery carries the token on websocket upgrades, where browsers
// cannot set headers.
const accessTokenQuery = "access_token"

var (
	errMissingToken = errors.New("authorization header required")
	errBadScheme    = errors.New("invalid authorization header format")
)

type TokenValidator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// AuthMiddleware stores the token subject under ContextUserIDKey or aborts
// with 401.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		userID, err := tokens.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if token := r.URL.Query().Get(accessTokenQuery); token != "" {
			return token, nil
		}
		return "", errMissingToken
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.ContainsRune(token, ' ') {
		return "", errBadScheme
	}
	return token, nil
}

func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserIDKey)
	return id, id != ""
}
