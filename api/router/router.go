package router

import (
	"github.com/gin-gonic/gin"

	"nyaya-sahayak/api/handler"
	"nyaya-sahayak/api/middleware"
	"nyaya-sahayak/logging"
)

type Handlers struct {
	Legal        *handler.LegalHandler
	Conversation *handler.ConversationHandler
	Feedback     *handler.FeedbackHandler
	Health       *handler.HealthHandler
}

// RegisterRoutes mounts the API. The rate limiter guards everything except
// the health check.
func RegisterRoutes(r *gin.Engine, h Handlers, limiter *middleware.RateLimiter) {
	r.Use(middleware.Logger(logging.New("http")))

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)

	limited := api.Group("")
	if limiter != nil {
		limited.Use(limiter.Middleware(handler.UserIDHeader))
	}
	{
		legal := limited.Group("/legal")
		{
			legal.POST("/query", h.Legal.Query)
			legal.GET("/search", h.Legal.Search)
			legal.POST("/documents", h.Legal.Upload)
		}
		conversations := limited.Group("/conversations")
		{
			conversations.GET("", h.Conversation.List)
			conversations.POST("", h.Conversation.Create)
			conversations.GET("/:id", h.Conversation.Get)
			conversations.PUT("/:id", h.Conversation.Update)
			conversations.DELETE("/:id", h.Conversation.Delete)
		}
		feedback := limited.Group("/feedback")
		{
			feedback.POST("", h.Feedback.Submit)
			feedback.GET("/response/:responseId", h.Feedback.ForResponse)
		}
	}
}
