package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"storefront_back_end/internal/models"
)

// PurchaseService réserve le stock puis enregistre la commande
type PurchaseService struct {
	reserver *StockReserver
	orders   OrderStore
	cache    ProductCache
	now      func() time.Time
	newID    func() string
}

func NewPurchaseService(products ProductStore, orders OrderStore, cache ProductCache) *PurchaseService {
	return &PurchaseService{
		reserver: NewStockReserver(products),
		orders:   orders,
		cache:    cache,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Purchase applique la réservation puis écrit la commande.
// Si l'écriture échoue, le stock réservé est rendu.
func (s *PurchaseService) Purchase(ctx context.Context, userID string, products []models.RequestedProduct, total float64) (models.CartOrder, error) {
	reservation, err := s.reserver.Reserve(ctx, products)
	if err != nil {
		return models.CartOrder{}, err
	}

	order := models.CartOrder{
		ID:        s.newID(),
		UserID:    userID,
		Products:  products,
		Total:     total,
		CreatedAt: s.now(),
	}

	// Le total est fourni par le client et n'est pas recalculé
	log.Printf("🛒 Commande %s: %d article(s), total déclaré %.2f", order.ID, len(products), total)

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		err = fmt.Errorf("enregistrement commande: %w", err)
		if rerr := s.reserver.Release(ctx, reservation); rerr != nil {
			return models.CartOrder{}, errors.Join(err, rerr)
		}
		return models.CartOrder{}, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProducts(ctx); err != nil {
			log.Printf("⚠️ Invalidation cache produits: %v", err)
		}
	}

	return order, nil
}
