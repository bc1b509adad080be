package user

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

// Accounts regroupe les opérations de compte utilisées par les routes
type Accounts interface {
	Register(ctx context.Context, in services.Registration) (string, error)
	Confirm(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (models.AuthTokens, error)
	Profile(ctx context.Context, email string) (models.User, error)
}

type Handler struct {
	accounts Accounts
}

func NewHandler(accounts Accounts) *Handler {
	return &Handler{accounts: accounts}
}

// ================== INSCRIPTION ==================

func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if !handlers.BindOrAbort(c, &input) {
		return
	}
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" || strings.TrimSpace(input.Phone) == "" {
		handlers.Error(c, http.StatusBadRequest, "Tous les champs sont obligatoires", nil)
		return
	}

	ctx, cancel := handlers.Context(c)
	defer cancel()

	userSub, err := h.accounts.Register(ctx, services.Registration{
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Password: input.Password,
		Phone:    strings.TrimSpace(input.Phone),
	})
	if err != nil {
		respondIdentityError(c, "Erreur lors de l'inscription", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Utilisateur inscrit", "userSub": userSub})
}

// ================== CONFIRMATION ==================

func (h *Handler) Confirm(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if !handlers.BindOrAbort(c, &input) {
		return
	}
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Code) == "" {
		handlers.Error(c, http.StatusBadRequest, "Email et code sont obligatoires", nil)
		return
	}

	ctx, cancel := handlers.Context(c)
	defer cancel()

	if err := h.accounts.Confirm(ctx, input.Email, strings.TrimSpace(input.Code)); err != nil {
		respondIdentityError(c, "Erreur lors de la confirmation", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur confirmé avec succès"})
}

// ================== CONNEXION ==================

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !handlers.BindOrAbort(c, &input) {
		return
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		handlers.Error(c, http.StatusBadRequest, "Email et mot de passe sont obligatoires", nil)
		return
	}

	ctx, cancel := handlers.Context(c)
	defer cancel()

	tokens, err := h.accounts.Login(ctx, input.Email, input.Password)
	if err != nil {
		respondIdentityError(c, "Erreur lors de la connexion", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Connexion réussie", "tokens": tokens})
}

// ================== PROFIL ==================

func (h *Handler) Me(c *gin.Context) {
	ctx, cancel := handlers.Context(c)
	defer cancel()

	user, err := h.accounts.Profile(ctx, middleware.Email(c))
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		handlers.Error(c, http.StatusNotFound, "Profil introuvable", nil)
		return
	case err != nil:
		handlers.Error(c, http.StatusInternalServerError, "Erreur lecture profil", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

func respondIdentityError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidSignUp), errors.Is(err, models.ErrInvalidCode):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrUserNotConfirmed):
		status = http.StatusForbidden
	default:
		log.Printf("❌ %s: %v", message, err)
	}
	handlers.Error(c, status, message, err)
}
