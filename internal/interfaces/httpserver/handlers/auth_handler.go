package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/user"
	"github.com/panscience/chat-server/internal/infrastructure/auth"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/middlewares"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/requests"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/responses"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// AuthHandler exposes HTTP entrypoints for registration and token issuance.
type AuthHandler struct {
	users  *user.Service
	tokens *auth.TokenIssuer
	log    zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users *user.Service, tokens *auth.TokenIssuer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		log:    log.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req requests.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid register payload", "auth-register-bind")
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		responses.HandleError(c, err, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, responses.FromUser(u))
}

// Token handles POST /auth/token. It follows the OAuth2 password flow shape:
// form fields username (the email) and password, returning a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req requests.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid token payload", "auth-token-bind")
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		responses.HandleError(c, err, "incorrect email or password")
		return
	}

	token, err := h.tokens.Issue(u.PublicID, u.Email)
	if err != nil {
		responses.HandleError(c, err, "failed to issue token")
		return
	}

	c.JSON(http.StatusOK, responses.TokenPayload{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "auth-me-principal")
		return
	}

	c.JSON(http.StatusOK, responses.UserPayload{
		ID:       principal.UserID,
		Email:    principal.Email,
		Username: principal.Username,
	})
}
