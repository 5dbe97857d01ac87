package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with CORS and all API routes.
func NewRouter(handler *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsCfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(corsCfg))

	r.GET("/", handler.Health)

	api := r.Group("/api")
	{
		api.GET("/devices", handler.Devices)
		api.GET("/plans", handler.Plans)
		api.GET("/bundles", handler.Bundles)
		api.GET("/conversation-history", handler.ConversationHistory)
		api.POST("/chat", handler.Chat)
		api.POST("/clear-conversation", handler.ClearConversation)
		api.POST("/voice-command", handler.VoiceCommand)
		api.POST("/speak", handler.Speak)
	}

	return r
}
