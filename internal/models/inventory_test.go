package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupRequestedProducts(t *testing.T) {
	requested := []RequestedProduct{
		{ID: "p1", Name: "Widget"},
		{ID: "p2", Name: "Gadget"},
		{ID: "p1", Name: "Widget"},
		{ID: "p1", Name: "Widget Pro"},
	}

	got := GroupRequestedProducts(requested)

	assert.Equal(t, []ProductQuantity{
		{Key: ProductKey{ID: "p1", Name: "Widget"}, Quantity: 2},
		{Key: ProductKey{ID: "p2", Name: "Gadget"}, Quantity: 1},
		{Key: ProductKey{ID: "p1", Name: "Widget Pro"}, Quantity: 1},
	}, got)
}

func TestGroupRequestedProducts_NoDelimiterCollision(t *testing.T) {
	// "a||b" + "c" et "a" + "b||c" donnaient la même clé concaténée
	requested := []RequestedProduct{
		{ID: "a||b", Name: "c"},
		{ID: "a", Name: "b||c"},
	}

	got := GroupRequestedProducts(requested)

	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Quantity)
	assert.Equal(t, 1, got[1].Quantity)
}

func TestGroupRequestedProducts_Empty(t *testing.T) {
	assert.Empty(t, GroupRequestedProducts(nil))
}

func TestProductPublicDropsOwner(t *testing.T) {
	p := Product{ID: "p1", Name: "Widget", UserID: "user-1"}

	assert.Empty(t, p.Public().UserID)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, ProductKey{ID: "p1", Name: "Widget"}, p.Key())
}
