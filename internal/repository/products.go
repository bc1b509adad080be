package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"storefront_back_end/internal/models"
)

// maxCASAttempts borne la boucle compare-and-set sur le stock
const maxCASAttempts = 5

const productColumns = `id, name, brand, price, stock, description, user_id, created_at, updated_at`

// ProductRepository stocke les produits dans ScyllaDB
type ProductRepository struct {
	session     *gocql.Session
	table       string
	casAttempts int
}

func NewProductRepository(session *gocql.Session, table string) *ProductRepository {
	return &ProductRepository{session: session, table: table, casAttempts: maxCASAttempts}
}

func scanProduct(scan func(dest ...interface{}) error) (models.Product, error) {
	var p models.Product
	err := scan(&p.ID, &p.Name, &p.Brand, &p.Price, &p.Stock, &p.Description, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetProduct lit un produit par sa clé composite
func (r *ProductRepository) GetProduct(ctx context.Context, key models.ProductKey) (models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? AND name = ?`, productColumns, r.table)

	p, err := scanProduct(r.session.Query(query, key.ID, key.Name).WithContext(ctx).Scan)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.Product{}, models.ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("lecture produit %s: %w", key, err)
	}
	return p, nil
}

// CreateProduct insère le produit seulement s'il n'existe pas déjà
func (r *ProductRepository) CreateProduct(ctx context.Context, p models.Product) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS`, r.table, productColumns)

	applied, err := r.session.Query(query,
		p.ID, p.Name, p.Brand, p.Price, p.Stock, p.Description, p.UserID, p.CreatedAt, p.UpdatedAt,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("insertion produit: %w", err)
	}
	if !applied {
		return models.ErrProductExists
	}
	return nil
}

// ListProducts parcourt toute la table
func (r *ProductRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, productColumns, r.table)
	return r.collect(r.session.Query(query).WithContext(ctx).Iter())
}

// FindByFingerprint cherche les produits identiques (nom, marque, prix, description).
// Pas d'index secondaire : ScyllaDB filtre côté serveur.
func (r *ProductRepository) FindByFingerprint(ctx context.Context, fp models.ProductFingerprint) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE name = ? AND brand = ? AND price = ? AND description = ? ALLOW FILTERING`,
		productColumns, r.table)
	return r.collect(r.session.Query(query, fp.Name, fp.Brand, fp.Price, fp.Description).WithContext(ctx).Iter())
}

func (r *ProductRepository) collect(iter *gocql.Iter) ([]models.Product, error) {
	var products []models.Product
	scanner := iter.Scanner()
	for scanner.Next() {
		p, err := scanProduct(scanner.Scan)
		if err != nil {
			_ = iter.Close()
			return nil, fmt.Errorf("lecture produits: %w", err)
		}
		products = append(products, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lecture produits: %w", err)
	}
	return products, nil
}

// DecrementStock retire qty du stock tant que stock >= qty.
// ScyllaDB n'a pas d'UPDATE arithmétique conditionnel sur une colonne int :
// on fait un compare-and-set (transaction légère) sur la valeur observée.
func (r *ProductRepository) DecrementStock(ctx context.Context, key models.ProductKey, qty int) error {
	return r.adjustStock(ctx, key, -qty, r.casAttempts, func(current int) error {
		if current < qty {
			return models.ErrStockConditionFailed
		}
		return nil
	})
}

// IncrementStock rend qty au stock (compensation d'une réservation).
// Une restitution n'est jamais refusée : on réessaie jusqu'à l'annulation du contexte.
func (r *ProductRepository) IncrementStock(ctx context.Context, key models.ProductKey, qty int) error {
	return r.adjustStock(ctx, key, qty, 0, func(int) error { return nil })
}

// adjustStock applique delta par compare-and-set. maxAttempts <= 0 : pas de borne.
func (r *ProductRepository) adjustStock(ctx context.Context, key models.ProductKey, delta, maxAttempts int, guard func(current int) error) error {
	var current int
	selectQuery := fmt.Sprintf(`SELECT stock FROM %s WHERE id = ? AND name = ?`, r.table)
	if err := r.session.Query(selectQuery, key.ID, key.Name).WithContext(ctx).Scan(&current); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return models.ErrProductNotFound
		}
		return fmt.Errorf("lecture stock %s: %w", key, err)
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET stock = ?, updated_at = ? WHERE id = ? AND name = ? IF stock = ?`, r.table)
	for attempt := 0; maxAttempts <= 0 || attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("mise à jour stock %s: %w", key, err)
		}
		if err := guard(current); err != nil {
			return err
		}

		previous := map[string]interface{}{}
		applied, err := r.session.Query(updateQuery,
			current+delta, time.Now().UTC(), key.ID, key.Name, current,
		).WithContext(ctx).MapScanCAS(previous)
		if err != nil {
			return fmt.Errorf("mise à jour stock %s: %w", key, err)
		}
		if applied {
			return nil
		}

		// Une autre requête a modifié le stock entre-temps
		observed, ok := previous["stock"].(int)
		if !ok {
			// ligne supprimée depuis la lecture
			return models.ErrProductNotFound
		}
		current = observed
	}

	return models.ErrStockContention
}
