package middlewares

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/panscience/chat-server/internal/domain/user"
	"github.com/panscience/chat-server/internal/infrastructure/auth"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

const principalKey = "principal"

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UserID   string
	Email    string
	Username string
}

// UserLookup resolves a verified token subject to a stored account.
type UserLookup interface {
	GetByPublicID(ctx context.Context, publicID string) (*user.User, error)
}

// BearerAuth verifies the Authorization header and attaches the caller's
// identity to the gin context. Tokens whose subject no longer exists are
// rejected the same way as invalid tokens.
func BearerAuth(tokens *auth.TokenIssuer, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" || !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			unauthorized(c, "missing bearer token")
			return
		}
		token := strings.TrimSpace(raw[len("bearer "):])

		claims, err := tokens.Verify(c.Request.Context(), token)
		if err != nil {
			unauthorized(c, "invalid authentication credentials")
			return
		}

		u, err := users.GetByPublicID(c.Request.Context(), claims.UserID)
		if err != nil {
			unauthorized(c, "user not found")
			return
		}

		c.Set(principalKey, Principal{UserID: u.PublicID, Email: u.Email, Username: u.Username})
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(c *gin.Context) (Principal, bool) {
	if val, ok := c.Get(principalKey); ok {
		if p, ok := val.(Principal); ok {
			return p, true
		}
	}
	return Principal{}, false
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(
		platformerrors.ErrorTypeToHTTPStatus(platformerrors.ErrorTypeUnauthorized),
		gin.H{"error": message},
	)
}
