package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tripdesk/internal/auth"
)

const identityKey = "identity"

// OptionalAuth validates a bearer token when one is present and stores the
// resulting identity in the request context. Requests without a token
// proceed unauthenticated (guest checkout stays possible); a present but
// invalid token is rejected so a stale credential is never mistaken for a
// guest.
func OptionalAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if tokenStr == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		claims, err := tokens.Validate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(identityKey, &auth.Identity{UserID: claims.UserID, Token: tokenStr})
		c.Next()
	}
}

// IdentityFrom returns the authenticated identity for this request, or nil
// for guests.
func IdentityFrom(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}
