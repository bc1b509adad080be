package product

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

// Catalog regroupe les opérations produit utilisées par les routes
type Catalog interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, ownerID string, in services.NewProduct) (models.Product, error)
	ProductExists(ctx context.Context, fp models.ProductFingerprint) (bool, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
}

type Handler struct {
	catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

//
// 📦 GET /products
//
func (h *Handler) GetAllProducts(c *gin.Context) {
	ctx, cancel := handlers.Context(c)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		log.Printf("❌ Erreur lecture produits: %v", err)
		handlers.Error(c, http.StatusInternalServerError, "Erreur lecture produits", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

type createProductRequest struct {
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Description string   `json:"description"`
}

//
// ➕ POST /products
//
func (h *Handler) CreateProduct(c *gin.Context) {
	ownerID := middleware.UserID(c)
	if ownerID == "" {
		handlers.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var input createProductRequest
	if !handlers.BindOrAbort(c, &input) {
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Brand = strings.TrimSpace(input.Brand)
	if input.Name == "" || input.Brand == "" || input.Price == nil || *input.Price <= 0 {
		handlers.Error(c, http.StatusBadRequest, "Champs requis manquants (name, brand, price)", nil)
		return
	}

	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}
	if stock < 0 {
		handlers.Error(c, http.StatusBadRequest, "Le stock ne peut pas être négatif", nil)
		return
	}

	ctx, cancel := handlers.Context(c)
	defer cancel()

	product, err := h.catalog.CreateProduct(ctx, ownerID, services.NewProduct{
		Name:        input.Name,
		Brand:       input.Brand,
		Price:       *input.Price,
		Stock:       stock,
		Description: input.Description,
	})
	switch {
	case errors.Is(err, models.ErrDuplicateProduct), errors.Is(err, models.ErrProductExists):
		handlers.Error(c, http.StatusConflict, "Le produit existe déjà", nil)
		return
	case err != nil:
		log.Printf("❌ Erreur création produit: %v", err)
		handlers.Error(c, http.StatusInternalServerError, "Erreur création produit", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Produit créé avec succès",
		"data":    product,
	})
}

type validateProductRequest struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

//
// 🔍 POST /products/validate
//
func (h *Handler) ValidateProduct(c *gin.Context) {
	var input validateProductRequest
	if !handlers.BindOrAbort(c, &input) {
		return
	}

	ctx, cancel := handlers.Context(c)
	defer cancel()

	exists, err := h.catalog.ProductExists(ctx, models.ProductFingerprint{
		Name:        input.Name,
		Brand:       input.Brand,
		Price:       input.Price,
		Description: input.Description,
	})
	if err != nil {
		handlers.Error(c, http.StatusInternalServerError, "Erreur vérification doublons", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

//
// 🔎 GET /products/search?q=
//
func (h *Handler) SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		handlers.Error(c, http.StatusBadRequest, "Paramètre q requis", nil)
		return
	}

	ctx, cancel := handlers.Context(c)
	defer cancel()

	results, err := h.catalog.SearchProducts(ctx, query)
	if err != nil {
		handlers.Error(c, http.StatusInternalServerError, "Erreur recherche", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": results, "count": len(results)})
}
