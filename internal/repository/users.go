package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"storefront_back_end/internal/models"
)

// UserRepository stocke les profils utilisateurs, indexés par email
type UserRepository struct {
	session *gocql.Session
	table   string
}

func NewUserRepository(session *gocql.Session, table string) *UserRepository {
	return &UserRepository{session: session, table: table}
}

// CreateUser échoue avec ErrEmailTaken si l'email existe déjà
func (r *UserRepository) CreateUser(ctx context.Context, user models.User) error {
	query := fmt.Sprintf(`INSERT INTO %s (email, id, name, phone, created_at) VALUES (?, ?, ?, ?, ?) IF NOT EXISTS`, r.table)

	applied, err := r.session.Query(query,
		user.Email, user.ID, user.Name, user.Phone, user.CreatedAt,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("insertion utilisateur: %w", err)
	}
	if !applied {
		return models.ErrEmailTaken
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := fmt.Sprintf(`SELECT email, id, name, phone, created_at FROM %s WHERE email = ?`, r.table)

	var u models.User
	err := r.session.Query(query, email).WithContext(ctx).Scan(&u.Email, &u.ID, &u.Name, &u.Phone, &u.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("lecture utilisateur: %w", err)
	}
	return u, nil
}
