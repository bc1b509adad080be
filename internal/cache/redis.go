package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter compte les requêtes par clé sur une fenêtre glissante
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Enabled indique si un client Redis est configuré
func (l *RateLimiter) Enabled() bool {
	return l != nil && l.client != nil
}

// Increment incrémente le compteur et repousse son expiration
func (l *RateLimiter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// TTL retourne le temps restant avant la réinitialisation du compteur
func (l *RateLimiter) TTL(ctx context.Context, key string) time.Duration {
	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

// Reset supprime le compteur (connexion réussie par exemple)
func (l *RateLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}

// Count retourne la valeur courante du compteur, 0 s'il n'existe pas
func (l *RateLimiter) Count(ctx context.Context, key string) (int64, error) {
	n, err := l.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
