package models

import "time"

// Product est la fiche produit telle que stockée dans la table products.
// La clé primaire est le couple (id, name).
type Product struct {
	ID          string    `json:"id" dynamodbav:"id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Brand       string    `json:"brand" dynamodbav:"brand"`
	Price       float64   `json:"price" dynamodbav:"price"`
	Stock       int       `json:"stock" dynamodbav:"stock"`
	Description string    `json:"description" dynamodbav:"description"`
	UserID      string    `json:"userId,omitempty" dynamodbav:"userId"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// Key retourne la clé composite du produit
func (p Product) Key() ProductKey {
	return ProductKey{ID: p.ID, Name: p.Name}
}

// Public retire le propriétaire avant exposition dans les listes
func (p Product) Public() Product {
	p.UserID = ""
	return p
}

// ProductFingerprint regroupe les champs qui identifient un doublon
type ProductFingerprint struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// Fingerprint retourne l'empreinte utilisée par la détection de doublons
func (p Product) Fingerprint() ProductFingerprint {
	return ProductFingerprint{Name: p.Name, Brand: p.Brand, Price: p.Price, Description: p.Description}
}
