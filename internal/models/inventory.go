package models

import "fmt"

// ProductKey est la clé composite (id, name) d'un produit.
// Elle sert directement de clé de map, sans concaténation de chaînes.
type ProductKey struct {
	ID   string
	Name string
}

func (k ProductKey) String() string {
	return fmt.Sprintf("%s (%s)", k.ID, k.Name)
}

// ProductQuantity est une quantité demandée pour un produit distinct
type ProductQuantity struct {
	Key      ProductKey
	Quantity int
}

// GroupRequestedProducts agrège les occurrences d'une demande par produit,
// dans l'ordre de première apparition.
func GroupRequestedProducts(requested []RequestedProduct) []ProductQuantity {
	index := make(map[ProductKey]int, len(requested))
	grouped := make([]ProductQuantity, 0, len(requested))

	for _, rp := range requested {
		key := rp.Key()
		if i, ok := index[key]; ok {
			grouped[i].Quantity++
			continue
		}
		index[key] = len(grouped)
		grouped = append(grouped, ProductQuantity{Key: key, Quantity: 1})
	}

	return grouped
}
