package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const RequestTimeout = 10 * time.Second

var (
	ErrMalformedJSON = errors.New("body invalide, JSON mal formé")
	ErrInvalidBody   = errors.New("invalid request body")
)

// BindJSON décode le body en distinguant le JSON mal formé
// (ErrMalformedJSON) d'un JSON valide au mauvais type (ErrInvalidBody).
func BindJSON(c *gin.Context, dst interface{}) error {
	if c.Request.Body == nil {
		return ErrMalformedJSON
	}

	err := json.NewDecoder(c.Request.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return ErrInvalidBody
	}
	// Erreur de syntaxe, body vide ou tronqué
	return ErrMalformedJSON
}

// BindOrAbort répond 400 quand le body ne peut pas être décodé
func BindOrAbort(c *gin.Context, dst interface{}) bool {
	if err := BindJSON(c, dst); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return false
	}
	return true
}

// Error écrit {message, error}; error est omis quand err est nil
func Error(c *gin.Context, status int, message string, err error) {
	body := gin.H{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}

// Context borne les appels externes d'une requête
func Context(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), RequestTimeout)
}
