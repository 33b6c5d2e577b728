package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokenCookie is the cookie carrying the session token.
const TokenCookie = "token"

const identityKey = "user"

// RequireToken rejects requests without a valid token cookie with 401 and
// otherwise stores the decoded identity on the context.
func RequireToken(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(TokenCookie)
		if err != nil || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
			return
		}

		identity, err := tokens.Verify(tokenString)
		if err != nil {
			log.Printf("[%s] token rejected: %v", RequestID(c), err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// Identity returns the claims RequireToken attached, or nil.
func Identity(c *gin.Context) map[string]any {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(map[string]any)
	return identity
}

// IdentityEmail returns the email claim of the verified identity, or "" when
// it is missing or not a string.
func IdentityEmail(c *gin.Context) string {
	email, _ := Identity(c)["email"].(string)
	return email
}
