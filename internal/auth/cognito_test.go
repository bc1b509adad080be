package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/models"
)

type fakeCognito struct {
	signUpIn   *cip.SignUpInput
	confirmIn  *cip.ConfirmSignUpInput
	initiateIn *cip.InitiateAuthInput

	err     error
	authOut *cip.InitiateAuthOutput
}

func (f *fakeCognito) SignUp(_ context.Context, in *cip.SignUpInput, _ ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	f.signUpIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &cip.SignUpOutput{UserSub: aws.String("sub-42")}, nil
}

func (f *fakeCognito) ConfirmSignUp(_ context.Context, in *cip.ConfirmSignUpInput, _ ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error) {
	f.confirmIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &cip.ConfirmSignUpOutput{}, nil
}

func (f *fakeCognito) InitiateAuth(_ context.Context, in *cip.InitiateAuthInput, _ ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	f.initiateIn = in
	if f.err != nil {
		return nil, f.err
	}
	return f.authOut, nil
}

func TestCognito_SignUp(t *testing.T) {
	fake := &fakeCognito{}
	c := NewCognito(fake, "client-id")

	sub, err := c.SignUp(context.Background(), SignUpInput{
		Email: "ada@example.com", Password: "Secret123!", Phone: "+33600000000", Name: "Ada",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub-42", sub)

	require.NotNil(t, fake.signUpIn)
	assert.Equal(t, "client-id", aws.ToString(fake.signUpIn.ClientId))
	assert.Equal(t, "ada@example.com", aws.ToString(fake.signUpIn.Username))

	attrs := map[string]string{}
	for _, a := range fake.signUpIn.UserAttributes {
		attrs[aws.ToString(a.Name)] = aws.ToString(a.Value)
	}
	assert.Equal(t, map[string]string{
		"email":        "ada@example.com",
		"phone_number": "+33600000000",
		"name":         "Ada",
	}, attrs)
}

func TestCognito_Login(t *testing.T) {
	fake := &fakeCognito{authOut: &cip.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{
			AccessToken:  aws.String("access"),
			IdToken:      aws.String("id"),
			RefreshToken: aws.String("refresh"),
			ExpiresIn:    3600,
			TokenType:    aws.String("Bearer"),
		},
	}}
	c := NewCognito(fake, "client-id")

	tokens, err := c.Login(context.Background(), "ada@example.com", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, models.AuthTokens{
		AccessToken: "access", IDToken: "id", RefreshToken: "refresh", ExpiresIn: 3600, TokenType: "Bearer",
	}, tokens)

	assert.Equal(t, types.AuthFlowTypeUserPasswordAuth, fake.initiateIn.AuthFlow)
	assert.Equal(t, "ada@example.com", fake.initiateIn.AuthParameters["USERNAME"])
	assert.Equal(t, "Secret123!", fake.initiateIn.AuthParameters["PASSWORD"])
}

func TestCognito_LoginChallengeRejected(t *testing.T) {
	fake := &fakeCognito{authOut: &cip.InitiateAuthOutput{ChallengeName: types.ChallengeNameTypeNewPasswordRequired}}
	c := NewCognito(fake, "client-id")

	_, err := c.Login(context.Background(), "ada@example.com", "x")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestMapCognitoError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"utilisateur existant", &types.UsernameExistsException{}, models.ErrUserExists},
		{"mot de passe faible", &types.InvalidPasswordException{}, models.ErrInvalidSignUp},
		{"paramètre invalide", &types.InvalidParameterException{}, models.ErrInvalidSignUp},
		{"code erroné", &types.CodeMismatchException{}, models.ErrInvalidCode},
		{"code expiré", &types.ExpiredCodeException{}, models.ErrInvalidCode},
		{"identifiants", &types.NotAuthorizedException{}, models.ErrInvalidCredentials},
		{"utilisateur inconnu", &types.UserNotFoundException{}, models.ErrInvalidCredentials},
		{"non confirmé", &types.UserNotConfirmedException{}, models.ErrUserNotConfirmed},
		{"limite atteinte", &types.TooManyRequestsException{}, models.ErrIdentityUnavailable},
		{"réseau", errors.New("dial tcp: timeout"), models.ErrIdentityUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCognito{err: tt.err}
			err := NewCognito(fake, "client-id").ConfirmSignUp(context.Background(), "ada@example.com", "123456")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
