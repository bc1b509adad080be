package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/cache"
)

const (
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute

	maxPeekedBody = 1 << 20
)

func tooManyRequests(c *gin.Context, limiter *cache.RateLimiter, key, message string) {
	retry := limiter.TTL(c.Request.Context(), key)
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"message":     message,
		"error":       fmt.Sprintf("Réessayez dans %d minutes", int(retry.Minutes())+1),
		"retry_after": int(retry.Seconds()),
	})
}

// LoginRateLimit bloque un email après trop d'échecs de connexion.
// Sans Redis, la requête passe sans contrôle.
func LoginRateLimit(limiter *cache.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		bodyBytes, err := peekBody(c.Request)
		if err != nil {
			c.Next()
			return
		}

		email := peekEmail(bodyBytes)
		if email == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "login_attempts:" + email

		attempts, err := limiter.Count(ctx, key)
		if err != nil {
			log.Printf("⚠️ Rate limit indisponible: %v", err)
			c.Next()
			return
		}
		if attempts >= LoginMaxAttempts {
			tooManyRequests(c, limiter, key, "Trop de tentatives échouées")
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			n, err := limiter.Increment(ctx, key, LoginCooldown)
			if err != nil {
				log.Printf("⚠️ Rate limit indisponible: %v", err)
				return
			}
			if remaining := LoginMaxAttempts - n; remaining > 0 {
				c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			}
		case http.StatusOK:
			if err := limiter.Reset(ctx, key); err != nil {
				log.Printf("⚠️ Réinitialisation rate limit: %v", err)
			}
		}
	}
}

// RegisterRateLimit limite les inscriptions réussies par IP
func RegisterRateLimit(limiter *cache.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "register_attempts:" + c.ClientIP()

		attempts, err := limiter.Count(ctx, key)
		if err != nil {
			log.Printf("⚠️ Rate limit indisponible: %v", err)
			c.Next()
			return
		}
		if attempts >= RegisterMaxAttempts {
			tooManyRequests(c, limiter, key, "Trop d'inscriptions")
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			if _, err := limiter.Increment(ctx, key, RegisterCooldown); err != nil {
				log.Printf("⚠️ Rate limit indisponible: %v", err)
			}
		}
	}
}

// peekBody lit au plus maxPeekedBody octets sans consommer le body :
// le handler reçoit toujours la requête complète.
func peekBody(r *http.Request) ([]byte, error) {
	body := r.Body
	prefix, err := io.ReadAll(io.LimitReader(body, maxPeekedBody))
	if err != nil {
		return nil, err
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(prefix), body), body}
	return prefix, nil
}

func peekEmail(body []byte) string {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(input.Email))
}
