package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// jwk est une clé publique publiée dans jwks.json
type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

// KeySet mémorise les clés publiques du pool, chargées une seule fois.
// Les appels concurrents pendant le chargement partagent la même requête.
// Avec refresh > 0 le jeu de clés est rechargé après expiration.
type KeySet struct {
	url     string
	client  *http.Client
	refresh time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time

	group singleflight.Group
}

func NewKeySet(url string, client *http.Client, refresh time.Duration) *KeySet {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &KeySet{url: url, client: client, refresh: refresh, now: time.Now}
}

// Key retourne la clé publique associée à kid
func (ks *KeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	keys, err := ks.load(ctx)
	if err != nil {
		return nil, err
	}

	key, ok := keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: clé publique %q absente de jwks.json", ErrInvalidToken, kid)
	}
	return key, nil
}

func (ks *KeySet) load(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	ks.mu.RLock()
	keys, fetchedAt := ks.keys, ks.fetchedAt
	ks.mu.RUnlock()

	if keys != nil && (ks.refresh <= 0 || ks.now().Sub(fetchedAt) < ks.refresh) {
		return keys, nil
	}

	// Le téléchargement est partagé : l'annulation du premier appelant ne doit pas le faire échouer
	v, err, _ := ks.group.Do("jwks", func() (interface{}, error) {
		fetched, err := ks.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		ks.mu.Lock()
		ks.keys = fetched
		ks.fetchedAt = ks.now()
		ks.mu.Unlock()

		log.Printf("🔑 %d clé(s) publique(s) chargée(s) depuis %s", len(fetched), ks.url)
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]*rsa.PublicKey), nil
}

func (ks *KeySet) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ks.url, nil)
	if err != nil {
		return nil, fmt.Errorf("requête jwks: %w", err)
	}

	res, err := ks.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("récupération jwks: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("récupération jwks: statut %d", res.StatusCode)
	}

	var set jwkSet
	if err := json.NewDecoder(res.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("décodage jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := k.rsaPublicKey()
		if err != nil {
			log.Printf("⚠️ Clé %q ignorée: %v", k.Kid, err)
			continue
		}
		keys[k.Kid] = pub
	}
	return keys, nil
}

// rsaPublicKey convertit le module et l'exposant base64url en clé RSA
func (k jwk) rsaPublicKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("module invalide: %w", err)
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("exposant invalide: %w", err)
	}
	if len(n) == 0 || len(e) == 0 {
		return nil, errors.New("module ou exposant vide")
	}

	exponent := new(big.Int).SetBytes(e)
	if !exponent.IsInt64() || exponent.Int64() > 1<<31-1 {
		return nil, errors.New("exposant trop grand")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(exponent.Int64()),
	}, nil
}
