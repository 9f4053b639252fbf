package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/panscience/chat-server/internal/interfaces/httpserver/handlers"
)

// Provider coordinates all route registrations.
type Provider struct {
	handlers *handlers.Provider
}

// NewProvider constructs the route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{handlers: handlerProvider}
}

// RegisterPublic attaches unauthenticated routes.
func (p *Provider) RegisterPublic(engine *gin.Engine) {
	auth := engine.Group("/auth")
	auth.POST("/register", p.handlers.Auth.Register)
	auth.POST("/token", p.handlers.Auth.Token)
}

// RegisterProtected attaches routes behind bearer authentication.
func (p *Provider) RegisterProtected(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	me := engine.Group("/auth", authMiddleware)
	me.GET("/me", p.handlers.Auth.Me)

	api := engine.Group("/api", authMiddleware)

	api.GET("/conversations", p.handlers.Conversation.List)
	api.POST("/conversations", p.handlers.Conversation.Create)
	api.GET("/conversations/:conversation_id", p.handlers.Conversation.Get)
	api.DELETE("/conversations/:conversation_id", p.handlers.Conversation.Delete)

	api.POST("/chat", p.handlers.Chat.Chat)

	api.POST("/media/transcribe", p.handlers.Media.Transcribe)
	api.GET("/media/transcripts", p.handlers.Media.List)
	api.GET("/media/transcripts/:transcript_id", p.handlers.Media.Get)
	api.POST("/media/answer", p.handlers.Media.Answer)

	api.POST("/documents/parse", p.handlers.Document.Parse)
	api.GET("/documents", p.handlers.Document.List)
	api.GET("/documents/:document_id", p.handlers.Document.Get)
}
