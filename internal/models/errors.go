package models

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductExists        = errors.New("product already exists")
	ErrDuplicateProduct     = errors.New("duplicate product")
	ErrStockConditionFailed = errors.New("stock condition failed")
	ErrStockContention      = errors.New("stock contention")
	ErrEmailTaken           = errors.New("email already registered")
	ErrUserNotFound         = errors.New("user not found")

	// Erreurs du fournisseur d'identité
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidSignUp       = errors.New("invalid sign up")
	ErrInvalidCode         = errors.New("invalid confirmation code")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotConfirmed    = errors.New("user not confirmed")
	ErrIdentityUnavailable = errors.New("identity provider unavailable")
)

// StockCommitError désigne le produit dont la décrémentation a échoué
// au sein d'une transaction multi-produits.
type StockCommitError struct {
	Key ProductKey
	Err error
}

func (e *StockCommitError) Error() string {
	return fmt.Sprintf("stock %s: %v", e.Key, e.Err)
}

func (e *StockCommitError) Unwrap() error {
	return e.Err
}
