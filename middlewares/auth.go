package middlewares

import (
	"net/http"
	"strings"

	"portfolio/services"

	"github.com/gin-gonic/gin"
)

const (
	// TokenCookie is the cookie carrying the session token.
	TokenCookie = "token"

	claimsKey = "claims"
)

type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

// AuthMiddleware validates the session token from the token cookie, falling
// back to an Authorization: Bearer header.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := c.Cookie(TokenCookie)

		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// CurrentClaims returns the claims stored by AuthMiddleware, or nil.
func CurrentClaims(c *gin.Context) *services.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.Claims)
	return claims
}
