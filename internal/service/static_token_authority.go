package service

import (
	"context"
	"crypto/subtle"

	"github.com/noah-isme/vidrios-leads-api/internal/models"
	appErrors "github.com/noah-isme/vidrios-leads-api/pkg/errors"
)

// StaticTokenAuthority accepts a single shared bearer token as administrator credential.
type StaticTokenAuthority struct {
	token []byte
	email string
}

// NewStaticTokenAuthority builds the authority. An empty token rejects every request.
func NewStaticTokenAuthority(token, adminEmail string) *StaticTokenAuthority {
	return &StaticTokenAuthority{token: []byte(token), email: adminEmail}
}

// Verify compares the presented token with the configured one in constant time.
func (a *StaticTokenAuthority) Verify(_ context.Context, token string) (*models.SessionClaims, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "No autorizado: falta token")
	}
	if len(a.token) == 0 || subtle.ConstantTimeCompare([]byte(token), a.token) != 1 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "No autorizado")
	}
	return &models.SessionClaims{Email: a.email, Role: models.RoleAdmin}, nil
}
