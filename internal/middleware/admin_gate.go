package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vidrios-leads-api/internal/models"
	"github.com/noah-isme/vidrios-leads-api/pkg/logger"
	"github.com/noah-isme/vidrios-leads-api/pkg/response"
)

// ContextUserKey is the gin context key storing the verified session claims.
const ContextUserKey = "currentUser"

type sessionVerifier interface {
	Verify(ctx context.Context, token string) (*models.SessionClaims, error)
}

// CredentialSource extracts the raw administrator credential from a request.
type CredentialSource func(c *gin.Context) string

// CookieCredential reads the session credential from the named cookie.
func CookieCredential(name string) CredentialSource {
	return func(c *gin.Context) string {
		value, err := c.Cookie(name)
		if err != nil {
			return ""
		}
		return value
	}
}

// BearerCredential reads an "Authorization: Bearer <token>" header.
func BearerCredential() CredentialSource {
	return func(c *gin.Context) string {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
}

// AdminGate rejects requests without a valid administrator credential before any handler runs.
func AdminGate(verifier sessionVerifier, source CredentialSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifier.Verify(c.Request.Context(), source(c))
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(logger.ActorKey, claims.Email)
		c.Next()
	}
}

// CurrentAdmin returns the claims stored by AdminGate.
func CurrentAdmin(c *gin.Context) (*models.SessionClaims, bool) {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*models.SessionClaims)
	return claims, ok
}
