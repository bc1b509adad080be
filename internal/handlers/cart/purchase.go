package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

// Purchaser réserve le stock et enregistre la commande
type Purchaser interface {
	Purchase(ctx context.Context, userID string, products []models.RequestedProduct, total float64) (models.CartOrder, error)
}

type Handler struct {
	purchases Purchaser
}

func NewHandler(purchases Purchaser) *Handler {
	return &Handler{purchases: purchases}
}

type purchaseRequest struct {
	Products []models.RequestedProduct `json:"products"`
	Total    *float64                  `json:"total"`
}

//
// 🛒 POST /cart/purchase
//
func (h *Handler) Purchase(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		handlers.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var input purchaseRequest
	if !handlers.BindOrAbort(c, &input) {
		return
	}
	if input.Products == nil || input.Total == nil {
		handlers.Error(c, http.StatusBadRequest, handlers.ErrInvalidBody.Error(), nil)
		return
	}
	for _, p := range input.Products {
		if p.ID == "" || p.Name == "" {
			handlers.Error(c, http.StatusBadRequest, "Product id or name missing", nil)
			return
		}
	}

	ctx, cancel := handlers.Context(c)
	defer cancel()

	order, err := h.purchases.Purchase(ctx, userID, input.Products, *input.Total)
	if err != nil {
		respondPurchaseError(c, err)
		return
	}

	log.Printf("✅ Achat enregistré: %s pour %s", order.ID, userID)
	c.JSON(http.StatusOK, order)
}

func respondPurchaseError(c *gin.Context, err error) {
	var (
		notFound     *services.NotFoundError
		insufficient *services.InsufficientStockError
	)

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   fmt.Sprintf("Not enough stock for product %s", insufficient.ProductID),
			"available": insufficient.Available,
		})
	case errors.As(err, &notFound):
		handlers.Error(c, http.StatusNotFound, fmt.Sprintf("Product not found: %s", notFound.ProductID), nil)
	case errors.Is(err, models.ErrStockContention):
		handlers.Error(c, http.StatusConflict, "Stock modifié par une autre commande, réessayez", err)
	default:
		log.Printf("❌ Erreur achat: %v", err)
		handlers.Error(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
