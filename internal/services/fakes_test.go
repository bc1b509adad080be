package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository/memory"
)

var errStore = errors.New("store indisponible")

// flakyProducts échoue la décrémentation des clés listées
type flakyProducts struct {
	*memory.ProductStore
	failDecrement map[models.ProductKey]error
	failIncrement error
	decrements    int
}

func (f *flakyProducts) DecrementStock(ctx context.Context, key models.ProductKey, qty int) error {
	f.decrements++
	if err, ok := f.failDecrement[key]; ok {
		return err
	}
	return f.ProductStore.DecrementStock(ctx, key, qty)
}

func (f *flakyProducts) IncrementStock(ctx context.Context, key models.ProductKey, qty int) error {
	if f.failIncrement != nil {
		return f.failIncrement
	}
	return f.ProductStore.IncrementStock(ctx, key, qty)
}

// txProducts simule un store transactionnel
type txProducts struct {
	*memory.ProductStore
	txErr error
	txs   [][]models.ProductQuantity
}

func (t *txProducts) MaxTransactionItems() int { return 100 }

func (t *txProducts) DecrementStocks(ctx context.Context, items []models.ProductQuantity) error {
	t.txs = append(t.txs, items)
	if t.txErr != nil {
		return t.txErr
	}
	for _, item := range items {
		if err := t.ProductStore.DecrementStock(ctx, item.Key, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

type failingOrders struct{ err error }

func (f failingOrders) CreateOrder(context.Context, models.CartOrder) error { return f.err }

type fakeCache struct {
	mu          sync.Mutex
	products    []models.Product
	hit         bool
	sets        int
	invalidated int
}

func (c *fakeCache) GetProducts(context.Context) ([]models.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products, c.hit, nil
}

func (c *fakeCache) SetProducts(_ context.Context, products []models.Product, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	c.sets++
	return nil
}

func (c *fakeCache) InvalidateProducts(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	return nil
}

type fakeIndexer struct {
	indexed   chan models.Product
	results   []models.Product
	searchErr error
}

func (f *fakeIndexer) IndexProduct(_ context.Context, p models.Product) error {
	f.indexed <- p
	return nil
}

func (f *fakeIndexer) SearchProducts(context.Context, string) ([]models.Product, error) {
	return f.results, f.searchErr
}

type fakeIdentity struct {
	signUpErr error
	loginErr  error
	confirmed []string
	tokens    models.AuthTokens
}

func (f *fakeIdentity) SignUp(context.Context, auth.SignUpInput) (string, error) {
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return "sub-1", nil
}

func (f *fakeIdentity) ConfirmSignUp(_ context.Context, email, _ string) error {
	f.confirmed = append(f.confirmed, email)
	return nil
}

func (f *fakeIdentity) Login(context.Context, string, string) (models.AuthTokens, error) {
	return f.tokens, f.loginErr
}
