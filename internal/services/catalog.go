package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront_back_end/internal/models"
)

const indexTimeout = 5 * time.Second

// NewProduct est la saisie validée d'une création de produit
type NewProduct struct {
	Name        string
	Brand       string
	Price       float64
	Stock       int
	Description string
}

// CatalogService gère la liste, la création et la recherche de produits
type CatalogService struct {
	products ProductStore
	cache    ProductCache
	index    ProductIndexer
	cacheTTL time.Duration
	now      func() time.Time
	newID    func() string
}

func NewCatalogService(products ProductStore, cache ProductCache, index ProductIndexer, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    cache,
		index:    index,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// ListProducts retourne tous les produits sans leur propriétaire
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetProducts(ctx)
		if err != nil {
			log.Printf("⚠️ Lecture cache produits: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("liste produits: %w", err)
	}

	public := make([]models.Product, 0, len(products))
	for _, p := range products {
		public = append(public, p.Public())
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, public, s.cacheTTL); err != nil {
			log.Printf("⚠️ Écriture cache produits: %v", err)
		}
	}
	return public, nil
}

// ProductExists indique si un produit de même empreinte existe déjà
func (s *CatalogService) ProductExists(ctx context.Context, fp models.ProductFingerprint) (bool, error) {
	matches, err := s.products.FindByFingerprint(ctx, fp)
	if err != nil {
		return false, fmt.Errorf("recherche doublon: %w", err)
	}
	return len(matches) > 0, nil
}

// CreateProduct refuse les doublons avant toute écriture
func (s *CatalogService) CreateProduct(ctx context.Context, ownerID string, in NewProduct) (models.Product, error) {
	exists, err := s.ProductExists(ctx, models.ProductFingerprint{
		Name: in.Name, Brand: in.Brand, Price: in.Price, Description: in.Description,
	})
	if err != nil {
		return models.Product{}, err
	}
	if exists {
		return models.Product{}, models.ErrDuplicateProduct
	}

	now := s.now()
	product := models.Product{
		ID:          s.newID(),
		Name:        in.Name,
		Brand:       in.Brand,
		Price:       in.Price,
		Stock:       in.Stock,
		Description: in.Description,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, models.ErrProductExists) {
			return models.Product{}, err
		}
		return models.Product{}, fmt.Errorf("création produit: %w", err)
	}
	log.Printf("✅ Produit créé: %s (%s)", product.ID, product.Name)

	if s.cache != nil {
		if err := s.cache.InvalidateProducts(ctx); err != nil {
			log.Printf("⚠️ Invalidation cache produits: %v", err)
		}
	}
	if s.index != nil {
		go s.indexAsync(product)
	}

	return product, nil
}

func (s *CatalogService) indexAsync(p models.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	if err := s.index.IndexProduct(ctx, p.Public()); err != nil {
		log.Printf("⚠️ Indexation Elasticsearch échouée pour %s: %v", p.ID, err)
	}
}

// SearchProducts interroge l'index, ou filtre la table si l'index est indisponible
func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	if s.index != nil {
		results, err := s.index.SearchProducts(ctx, query)
		if err == nil {
			return results, nil
		}
		log.Printf("⚠️ Recherche Elasticsearch indisponible, repli sur la table: %v", err)
	}

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("recherche produits: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	results := make([]models.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			results = append(results, p.Public())
		}
	}
	return results, nil
}
