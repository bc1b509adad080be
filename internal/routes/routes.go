package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/handlers/cart"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/middleware"
)

// Deps regroupe ce dont les routes ont besoin
type Deps struct {
	Verifier    middleware.TokenVerifier
	Limiter     *cache.RateLimiter
	Products    *product.Handler
	Cart        *cart.Handler
	Users       *user.Handler
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthRequired(d.Verifier)

	// Products
	products := r.Group("/products")
	{
		products.GET("", d.Products.GetAllProducts)
		products.GET("/search", d.Products.SearchProducts)
		products.POST("/validate", d.Products.ValidateProduct)
		products.POST("", authRequired, d.Products.CreateProduct)
	}

	// Cart
	r.POST("/cart/purchase", authRequired, d.Cart.Purchase)

	// Users
	users := r.Group("/users")
	{
		users.POST("/register", middleware.RegisterRateLimit(d.Limiter), d.Users.Register)
		users.POST("/confirm", d.Users.Confirm)
		users.POST("/login", middleware.LoginRateLimit(d.Limiter), d.Users.Login)
		users.GET("/me", authRequired, d.Users.Me)
	}
}
