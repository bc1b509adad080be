package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/cache"
)

type fakeVerifier struct {
	got string
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (*auth.Claims, error) {
	f.got = token
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{Email: "ada@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}, nil
}

func newAuthRouter(v TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(v), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "email": Email(c)})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
		token  string
	}{
		{"sans en-tête", "", http.StatusUnauthorized, ""},
		{"bearer valide", "Bearer good", http.StatusOK, "good"},
		{"jeton seul", "good", http.StatusOK, "good"},
		{"bearer minuscule", "bearer good", http.StatusOK, "good"},
		{"jeton invalide", "Bearer bad", http.StatusUnauthorized, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &fakeVerifier{}
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newAuthRouter(v).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.token, v.got)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"user_id":"user-1","email":"ada@example.com"}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"message":"Unauthorized"`)
			}
		})
	}
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := cache.NewRateLimiter(nil)

	r := gin.New()
	r.POST("/login", LoginRateLimit(limiter), func(c *gin.Context) {
		var body struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "bad"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"message": body.Email})
	})
	r.POST("/register", RegisterRateLimit(limiter), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < LoginMaxAttempts+2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ada@example.com"}`)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ada@example.com")
	}
	for i := 0; i < RegisterMaxAttempts+2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestPeekEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", peekEmail([]byte(`{"email":" Ada@Example.com "}`)))
	assert.Empty(t, peekEmail([]byte(`{"email":`)))
	assert.Empty(t, peekEmail(nil))
}

func TestPeekBody_KeepsFullBody(t *testing.T) {
	payload := `{"email":"ada@example.com","note":"` + strings.Repeat("x", maxPeekedBody) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(payload))

	prefix, err := peekBody(req)
	require.NoError(t, err)
	assert.Len(t, prefix, maxPeekedBody)

	rest, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(rest))
	assert.NoError(t, req.Body.Close())
}
