package database

import (
	"context"
	"fmt"
	"log"

	"github.com/gocql/gocql"

	"storefront_back_end/internal/config"
)

// schemaStatements retourne les tables attendues par les repositories Scylla.
// Les produits sont indexés par (id, name) comme dans la table d'origine.
func schemaStatements(tables config.TablesConfig) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id text,
			name text,
			brand text,
			price double,
			stock int,
			description text,
			user_id text,
			created_at timestamp,
			updated_at timestamp,
			PRIMARY KEY (id, name)
		)`, tables.Products),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id text PRIMARY KEY,
			user_id text,
			products text,
			total double,
			created_at timestamp
		)`, tables.Cart),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			email text PRIMARY KEY,
			id text,
			name text,
			phone text,
			created_at timestamp
		)`, tables.Users),
	}
}

// EnsureSchema crée les tables manquantes dans le keyspace de la session
func EnsureSchema(ctx context.Context, session *gocql.Session, tables config.TablesConfig) error {
	for _, stmt := range schemaStatements(tables) {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return fmt.Errorf("erreur création schéma: %w", err)
		}
	}

	log.Println("✅ Schéma ScyllaDB vérifié")
	return nil
}
