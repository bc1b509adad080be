package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/models"
)

// Registration est la saisie d'une inscription
type Registration struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// AccountService relie le fournisseur d'identité et les profils utilisateurs
type AccountService struct {
	identity IdentityProvider
	users    UserStore
	now      func() time.Time
}

func NewAccountService(identity IdentityProvider, users UserStore) *AccountService {
	return &AccountService{
		identity: identity,
		users:    users,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register crée le compte puis, au mieux, le profil associé
func (s *AccountService) Register(ctx context.Context, in Registration) (string, error) {
	email := strings.TrimSpace(in.Email)
	userSub, err := s.identity.SignUp(ctx, auth.SignUpInput{
		Email:    email,
		Password: in.Password,
		Phone:    in.Phone,
		Name:     in.Name,
	})
	if err != nil {
		return "", err
	}

	if s.users != nil {
		err := s.users.CreateUser(ctx, models.User{
			ID:        userSub,
			Name:      in.Name,
			Email:     email,
			Phone:     in.Phone,
			CreatedAt: s.now(),
		})
		if err != nil {
			log.Printf("⚠️ Profil non enregistré pour %s: %v", email, err)
		}
	}

	log.Printf("✅ Utilisateur inscrit: %s", userSub)
	return userSub, nil
}

func (s *AccountService) Confirm(ctx context.Context, email, code string) error {
	return s.identity.ConfirmSignUp(ctx, strings.TrimSpace(email), code)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (models.AuthTokens, error) {
	return s.identity.Login(ctx, strings.TrimSpace(email), password)
}

// Profile retourne le profil associé à l'email du jeton
func (s *AccountService) Profile(ctx context.Context, email string) (models.User, error) {
	if s.users == nil || email == "" {
		return models.User{}, models.ErrUserNotFound
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		log.Printf("❌ Lecture profil %s: %v", email, err)
	}
	return user, err
}
