package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront_back_end/internal/models"
)

// InsufficientStockError indique qu'un produit n'a pas assez de stock
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuffisant pour %s: %d demandé(s), %d disponible(s)", e.ProductID, e.Requested, e.Available)
}

// NotFoundError nomme le produit absent
type NotFoundError struct {
	ProductID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("produit %s introuvable", e.ProductID)
}

func (e *NotFoundError) Unwrap() error {
	return models.ErrProductNotFound
}

// Reservation liste les quantités effectivement retirées du stock
type Reservation struct {
	Items []models.ProductQuantity
}

// StockReserver applique la séquence de réservation :
// vérification de disponibilité puis décrémentation conditionnelle,
// tout ou rien.
type StockReserver struct {
	products ProductStore
}

func NewStockReserver(products ProductStore) *StockReserver {
	return &StockReserver{products: products}
}

func (r *StockReserver) Reserve(ctx context.Context, requested []models.RequestedProduct) (*Reservation, error) {
	items := models.GroupRequestedProducts(requested)
	if len(items) == 0 {
		return &Reservation{}, nil
	}

	for _, item := range items {
		p, err := r.products.GetProduct(ctx, item.Key)
		if errors.Is(err, models.ErrProductNotFound) {
			return nil, &NotFoundError{ProductID: item.Key.ID}
		}
		if err != nil {
			return nil, fmt.Errorf("lecture produit %s: %w", item.Key, err)
		}
		if p.Stock < item.Quantity {
			return nil, &InsufficientStockError{
				ProductID: item.Key.ID, Name: item.Key.Name,
				Requested: item.Quantity, Available: p.Stock,
			}
		}
	}

	if tx, ok := r.products.(StockTransactor); ok && len(items) <= tx.MaxTransactionItems() {
		if err := tx.DecrementStocks(ctx, items); err != nil {
			return nil, r.commitFailure(ctx, err)
		}
		return &Reservation{Items: items}, nil
	}

	applied := make([]models.ProductQuantity, 0, len(items))
	for _, item := range items {
		if err := r.products.DecrementStock(ctx, item.Key, item.Quantity); err != nil {
			err = r.commitFailure(ctx, &models.StockCommitError{Key: item.Key, Err: err})
			if cerr := r.compensate(ctx, applied); cerr != nil {
				return nil, errors.Join(err, cerr)
			}
			return nil, err
		}
		applied = append(applied, item)
	}

	return &Reservation{Items: applied}, nil
}

// Release rend au stock les quantités d'une réservation
func (r *StockReserver) Release(ctx context.Context, res *Reservation) error {
	if res == nil {
		return nil
	}
	return r.compensate(ctx, res.Items)
}

func (r *StockReserver) compensate(ctx context.Context, applied []models.ProductQuantity) error {
	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		item := applied[i]
		if err := r.products.IncrementStock(ctx, item.Key, item.Quantity); err != nil {
			log.Printf("❌ Compensation impossible pour %s (+%d): %v", item.Key, item.Quantity, err)
			errs = append(errs, fmt.Errorf("compensation %s: %w", item.Key, err))
		}
	}
	return errors.Join(errs...)
}

// commitFailure traduit l'échec d'une décrémentation conditionnelle.
// Le stock est relu pour indiquer la quantité encore disponible.
func (r *StockReserver) commitFailure(ctx context.Context, err error) error {
	var commitErr *models.StockCommitError
	if !errors.As(err, &commitErr) {
		if errors.Is(err, models.ErrStockConditionFailed) || errors.Is(err, models.ErrStockContention) {
			return err
		}
		return fmt.Errorf("décrémentation stock: %w", err)
	}

	key := commitErr.Key
	switch {
	case errors.Is(err, models.ErrStockConditionFailed):
		available := 0
		if p, gerr := r.products.GetProduct(ctx, key); gerr == nil {
			available = p.Stock
		}
		log.Printf("⚠️ Stock consommé entre vérification et validation pour %s", key)
		return &InsufficientStockError{ProductID: key.ID, Name: key.Name, Available: available}
	case errors.Is(err, models.ErrStockContention):
		return fmt.Errorf("produit %s: %w", key.ID, models.ErrStockContention)
	case errors.Is(err, models.ErrProductNotFound):
		return &NotFoundError{ProductID: key.ID}
	default:
		return fmt.Errorf("décrémentation stock %s: %w", key, err)
	}
}
