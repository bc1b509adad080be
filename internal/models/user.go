package models

import "time"

// User est le profil applicatif stocké à côté du compte du fournisseur d'identité
type User struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Email     string    `json:"email" dynamodbav:"email"`
	Phone     string    `json:"phone" dynamodbav:"phone"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

// AuthTokens est le jeu de jetons renvoyé après authentification
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int32  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}
