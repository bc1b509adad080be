package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront_back_end/internal/models"
)

const productsKey = "products:all"

// ProductCache garde la liste publique des produits dans Redis.
// Un client nil désactive le cache.
type ProductCache struct {
	client *redis.Client
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

// GetProducts retourne la liste en cache, ok=false si absente
func (c *ProductCache) GetProducts(ctx context.Context) ([]models.Product, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}

	data, err := c.client.Get(ctx, productsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lecture cache produits: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		// Entrée corrompue : on la supprime et on relit la table
		log.Printf("⚠️ Cache produits corrompu, suppression: %v", err)
		if derr := c.client.Del(ctx, productsKey).Err(); derr != nil {
			log.Printf("⚠️ Suppression cache produits: %v", derr)
		}
		return nil, false, nil
	}
	return products, true, nil
}

func (c *ProductCache) SetProducts(ctx context.Context, products []models.Product, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("sérialisation produits: %w", err)
	}
	return c.client.Set(ctx, productsKey, data, ttl).Err()
}

func (c *ProductCache) InvalidateProducts(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, productsKey).Err()
}
