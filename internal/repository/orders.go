package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gocql/gocql"

	"storefront_back_end/internal/models"
)

// OrderRepository écrit les achats dans la table cart
type OrderRepository struct {
	session *gocql.Session
	table   string
}

func NewOrderRepository(session *gocql.Session, table string) *OrderRepository {
	return &OrderRepository{session: session, table: table}
}

// CreateOrder écrit l'achat une seule fois, sans condition
func (r *OrderRepository) CreateOrder(ctx context.Context, order models.CartOrder) error {
	productsJSON, err := json.Marshal(order.Products)
	if err != nil {
		return fmt.Errorf("sérialisation produits: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, user_id, products, total, created_at) VALUES (?, ?, ?, ?, ?)`, r.table)
	if err := r.session.Query(query,
		order.ID, order.UserID, string(productsJSON), order.Total, order.CreatedAt,
	).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("insertion achat %s: %w", order.ID, err)
	}
	return nil
}
