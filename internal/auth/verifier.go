package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("token invalide")

// Claims sont les claims utiles d'un jeton Cognito
type Claims struct {
	Email    string `json:"email,omitempty"`
	TokenUse string `json:"token_use,omitempty"`
	Username string `json:"cognito:username,omitempty"`
	jwt.RegisteredClaims
}

// Verifier valide les jetons bearer contre le jeu de clés publié
type Verifier struct {
	keys   *KeySet
	issuer string
}

// NewVerifier ; issuer vide désactive la vérification de l'émetteur
func NewVerifier(keys *KeySet, issuer string) *Verifier {
	return &Verifier{keys: keys, issuer: issuer}
}

type tokenHeader struct {
	Kid string `json:"kid"`
	Alg string `json:"alg"`
}

// Verify vérifie la signature RS256 et les claims du jeton
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	sections := strings.Split(token, ".")
	if len(sections) < 3 {
		return nil, fmt.Errorf("%w: format compact attendu", ErrInvalidToken)
	}

	rawHeader, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(sections[0], "="))
	if err != nil {
		return nil, fmt.Errorf("%w: en-tête illisible", ErrInvalidToken)
	}
	var header tokenHeader
	if err := json.Unmarshal(rawHeader, &header); err != nil {
		return nil, fmt.Errorf("%w: en-tête illisible", ErrInvalidToken)
	}

	key, err := v.keys.Key(ctx, header.Kid)
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, opts...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub manquant", ErrInvalidToken)
	}
	return claims, nil
}
