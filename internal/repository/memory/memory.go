// Package memory fournit des stores en mémoire pour le développement local
// (STORE_BACKEND=memory) et les tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"storefront_back_end/internal/models"
)

type ProductStore struct {
	mu       sync.RWMutex
	products map[models.ProductKey]models.Product
	order    []models.ProductKey
}

func NewProductStore(seed ...models.Product) *ProductStore {
	s := &ProductStore{products: make(map[models.ProductKey]models.Product)}
	for _, p := range seed {
		s.put(p)
	}
	return s
}

func (s *ProductStore) put(p models.Product) {
	if _, ok := s.products[p.Key()]; !ok {
		s.order = append(s.order, p.Key())
	}
	s.products[p.Key()] = p
}

func (s *ProductStore) GetProduct(_ context.Context, key models.ProductKey) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[key]
	if !ok {
		return models.Product{}, models.ErrProductNotFound
	}
	return p, nil
}

func (s *ProductStore) CreateProduct(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.Key()]; ok {
		return models.ErrProductExists
	}
	s.put(p)
	return nil
}

func (s *ProductStore) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(s.order))
	for _, key := range s.order {
		products = append(products, s.products[key])
	}
	return products, nil
}

func (s *ProductStore) FindByFingerprint(_ context.Context, fp models.ProductFingerprint) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []models.Product
	for _, key := range s.order {
		if p := s.products[key]; p.Fingerprint() == fp {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (s *ProductStore) DecrementStock(_ context.Context, key models.ProductKey, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[key]
	if !ok {
		return models.ErrProductNotFound
	}
	if p.Stock < qty {
		return models.ErrStockConditionFailed
	}
	p.Stock -= qty
	s.products[key] = p
	return nil
}

func (s *ProductStore) IncrementStock(_ context.Context, key models.ProductKey, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[key]
	if !ok {
		return models.ErrProductNotFound
	}
	p.Stock += qty
	s.products[key] = p
	return nil
}

// Stock retourne le stock courant, -1 si le produit n'existe pas
func (s *ProductStore) Stock(key models.ProductKey) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[key]
	if !ok {
		return -1
	}
	return p.Stock
}

type OrderStore struct {
	mu     sync.RWMutex
	orders []models.CartOrder
}

func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

func (s *OrderStore) CreateOrder(_ context.Context, order models.CartOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, order)
	return nil
}

// Orders retourne une copie des achats enregistrés
func (s *OrderStore) Orders() []models.CartOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.CartOrder(nil), s.orders...)
}

type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) CreateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := s.users[email]; ok {
		return models.ErrEmailTaken
	}
	s.users[email] = user
	return nil
}

func (s *UserStore) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return u, nil
}
