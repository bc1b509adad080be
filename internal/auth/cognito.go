package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"

	"storefront_back_end/internal/models"
)

// CognitoAPI est le sous-ensemble du client Cognito utilisé
type CognitoAPI interface {
	SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
}

var _ CognitoAPI = (*cip.Client)(nil)

// SignUpInput regroupe les attributs envoyés au pool
type SignUpInput struct {
	Email    string
	Password string
	Phone    string
	Name     string
}

// Cognito est le fournisseur d'identité (app client sans secret)
type Cognito struct {
	client   CognitoAPI
	clientID string
}

func NewCognito(client CognitoAPI, clientID string) *Cognito {
	return &Cognito{client: client, clientID: clientID}
}

// SignUp crée le compte et retourne son identifiant (sub)
func (c *Cognito) SignUp(ctx context.Context, in SignUpInput) (string, error) {
	out, err := c.client.SignUp(ctx, &cip.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(in.Email),
		Password: aws.String(in.Password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(in.Email)},
			{Name: aws.String("phone_number"), Value: aws.String(in.Phone)},
			{Name: aws.String("name"), Value: aws.String(in.Name)},
		},
	})
	if err != nil {
		return "", mapCognitoError(err)
	}
	return aws.ToString(out.UserSub), nil
}

func (c *Cognito) ConfirmSignUp(ctx context.Context, email, code string) error {
	_, err := c.client.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		return mapCognitoError(err)
	}
	return nil
}

// Login authentifie par mot de passe (flux USER_PASSWORD_AUTH)
func (c *Cognito) Login(ctx context.Context, email, password string) (models.AuthTokens, error) {
	out, err := c.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return models.AuthTokens{}, mapCognitoError(err)
	}

	result := out.AuthenticationResult
	if result == nil {
		// Un challenge (MFA, nouveau mot de passe...) n'est pas géré ici
		return models.AuthTokens{}, fmt.Errorf("%w: challenge %s non supporté", models.ErrInvalidCredentials, out.ChallengeName)
	}

	return models.AuthTokens{
		AccessToken:  aws.ToString(result.AccessToken),
		IDToken:      aws.ToString(result.IdToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		ExpiresIn:    result.ExpiresIn,
		TokenType:    aws.ToString(result.TokenType),
	}, nil
}

// mapCognitoError traduit les exceptions Cognito en erreurs du domaine,
// en gardant l'erreur d'origine dans la chaîne.
func mapCognitoError(err error) error {
	var (
		usernameExists *types.UsernameExistsException
		invalidPwd     *types.InvalidPasswordException
		invalidParam   *types.InvalidParameterException
		codeMismatch   *types.CodeMismatchException
		expiredCode    *types.ExpiredCodeException
		notAuthorized  *types.NotAuthorizedException
		userNotFound   *types.UserNotFoundException
		notConfirmed   *types.UserNotConfirmedException
	)

	switch {
	case errors.As(err, &usernameExists):
		return fmt.Errorf("%w: %v", models.ErrUserExists, err)
	case errors.As(err, &invalidPwd), errors.As(err, &invalidParam):
		return fmt.Errorf("%w: %v", models.ErrInvalidSignUp, err)
	case errors.As(err, &codeMismatch), errors.As(err, &expiredCode):
		return fmt.Errorf("%w: %v", models.ErrInvalidCode, err)
	case errors.As(err, &notAuthorized), errors.As(err, &userNotFound):
		return fmt.Errorf("%w: %v", models.ErrInvalidCredentials, err)
	case errors.As(err, &notConfirmed):
		return fmt.Errorf("%w: %v", models.ErrUserNotConfirmed, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: %s", models.ErrIdentityUnavailable, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("%w: %v", models.ErrIdentityUnavailable, err)
}
