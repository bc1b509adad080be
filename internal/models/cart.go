package models

import "time"

// RequestedProduct est une occurrence de produit dans une demande d'achat
type RequestedProduct struct {
	ID   string `json:"id" dynamodbav:"id"`
	Name string `json:"name" dynamodbav:"name"`
}

func (rp RequestedProduct) Key() ProductKey {
	return ProductKey{ID: rp.ID, Name: rp.Name}
}

// CartOrder est l'enregistrement immuable d'un achat accepté (table cart)
type CartOrder struct {
	ID        string             `json:"id" dynamodbav:"id"`
	UserID    string             `json:"userId" dynamodbav:"userId"`
	Products  []RequestedProduct `json:"products" dynamodbav:"products"`
	Total     float64            `json:"total" dynamodbav:"total"`
	CreatedAt time.Time          `json:"createdAt" dynamodbav:"createdAt"`
}
