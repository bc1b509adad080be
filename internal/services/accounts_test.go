package services

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository/memory"
)

func TestRegister_WritesProfile(t *testing.T) {
	users := memory.NewUserStore()
	svc := NewAccountService(&fakeIdentity{}, users)

	email := gofakeit.Email()
	sub, err := svc.Register(context.Background(), Registration{
		Name: gofakeit.Name(), Email: " " + email + " ", Password: "Secret123!", Phone: gofakeit.Phone(),
	})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub)

	user, err := svc.Profile(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", user.ID)
	assert.Equal(t, email, user.Email)
}

func TestRegister_ProfileFailureIsNotFatal(t *testing.T) {
	users := memory.NewUserStore()
	email := gofakeit.Email()
	require.NoError(t, users.CreateUser(context.Background(), models.User{ID: "old", Email: email}))

	svc := NewAccountService(&fakeIdentity{}, users)
	sub, err := svc.Register(context.Background(), Registration{Name: "Ada", Email: email, Password: "x", Phone: "+1"})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub)
}

func TestRegister_IdentityError(t *testing.T) {
	users := memory.NewUserStore()
	svc := NewAccountService(&fakeIdentity{signUpErr: models.ErrUserExists}, users)

	_, err := svc.Register(context.Background(), Registration{Email: "ada@example.com"})
	assert.ErrorIs(t, err, models.ErrUserExists)

	_, err = svc.Profile(context.Background(), "ada@example.com")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestConfirmAndLogin(t *testing.T) {
	identity := &fakeIdentity{tokens: models.AuthTokens{AccessToken: "a", IDToken: "i"}}
	svc := NewAccountService(identity, nil)

	require.NoError(t, svc.Confirm(context.Background(), " ada@example.com", "123456"))
	assert.Equal(t, []string{"ada@example.com"}, identity.confirmed)

	tokens, err := svc.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "a", tokens.AccessToken)

	_, err = svc.Profile(context.Background(), "ada@example.com")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
