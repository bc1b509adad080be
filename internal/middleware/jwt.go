package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/auth"
)

// TokenVerifier valide un jeton bearer
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthRequired vérifie le jeton et place sub et email dans le contexte Gin
func AuthRequired(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized", "error": "Token manquant"})
			return
		}

		// "Bearer <token>" ou le jeton seul
		tokenString := authHeader
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			tokenString = strings.TrimSpace(authHeader[7:])
		}

		claims, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			log.Printf("❌ Jeton refusé (%s...): %v", tokenString[:min(10, len(tokenString))], err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized", "error": "Token invalide"})
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// UserID retourne le sub placé par AuthRequired
func UserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// Email retourne l'email placé par AuthRequired
func Email(c *gin.Context) string {
	return c.GetString("email")
}
