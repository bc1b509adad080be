package services

import (
	"context"
	"time"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/models"
)

// ProductStore est implémenté par les dépôts Scylla, DynamoDB et mémoire
type ProductStore interface {
	GetProduct(ctx context.Context, key models.ProductKey) (models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	FindByFingerprint(ctx context.Context, fp models.ProductFingerprint) ([]models.Product, error)
	DecrementStock(ctx context.Context, key models.ProductKey, qty int) error
	IncrementStock(ctx context.Context, key models.ProductKey, qty int) error
}

// StockTransactor est implémenté par les stores capables de décrémenter
// plusieurs produits en une seule transaction conditionnelle.
type StockTransactor interface {
	MaxTransactionItems() int
	DecrementStocks(ctx context.Context, items []models.ProductQuantity) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order models.CartOrder) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type IdentityProvider interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (string, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (models.AuthTokens, error)
}

// ProductCache met en cache la liste publique des produits
type ProductCache interface {
	GetProducts(ctx context.Context) ([]models.Product, bool, error)
	SetProducts(ctx context.Context, products []models.Product, ttl time.Duration) error
	InvalidateProducts(ctx context.Context) error
}

type ProductIndexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
}
