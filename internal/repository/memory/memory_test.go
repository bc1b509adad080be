package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/models"
)

func TestProductStore_DecrementStockNeverNegative(t *testing.T) {
	key := models.ProductKey{ID: gofakeit.UUID(), Name: gofakeit.ProductName()}
	store := NewProductStore(models.Product{ID: key.ID, Name: key.Name, Stock: 10})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.DecrementStock(context.Background(), key, 1); err == nil {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, applied)
	assert.Equal(t, 0, store.Stock(key))
}

func TestProductStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewProductStore()

	p := models.Product{ID: gofakeit.UUID(), Name: "Widget", Brand: "Acme", Price: 9.5, Description: "bleu"}
	require.NoError(t, store.CreateProduct(ctx, p))
	assert.ErrorIs(t, store.CreateProduct(ctx, p), models.ErrProductExists)

	found, err := store.FindByFingerprint(ctx, p.Fingerprint())
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = store.FindByFingerprint(ctx, models.ProductFingerprint{Name: "Widget", Brand: "Acme", Price: 9.5, Description: "rouge"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestUserStore_EmailUnique(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	require.NoError(t, store.CreateUser(ctx, models.User{Email: "Ana@example.com", Name: "Ana"}))
	assert.ErrorIs(t, store.CreateUser(ctx, models.User{Email: "ana@example.com"}), models.ErrEmailTaken)

	u, err := store.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)

	_, err = store.GetUserByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestProductStore_StockOnMissingProduct(t *testing.T) {
	store := NewProductStore()
	key := models.ProductKey{ID: gofakeit.UUID(), Name: gofakeit.ProductName()}

	assert.ErrorIs(t, store.DecrementStock(context.Background(), key, 1), models.ErrProductNotFound)
	assert.ErrorIs(t, store.IncrementStock(context.Background(), key, 1), models.ErrProductNotFound)
}
