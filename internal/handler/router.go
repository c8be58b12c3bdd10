package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterBackendRoutes mounts the travel backend API
func RegisterBackendRoutes(router gin.IRouter, chat *ChatHandler, health *HealthHandler, catalog *CatalogHandler) {
	router.GET("/", health.Home)

	// Health - with and without trailing slash so clients never hit a redirect
	router.GET("/health", health.Health)
	router.GET("/health/", health.Health)

	api := router.Group("/api")
	{
		api.GET("/health/", health.Health)

		// Both chat paths serve the same travel pipeline
		api.POST("/chat/", chat.TravelChat)
		api.POST("/intelligent_travel_chat/", chat.TravelChat)
		api.POST("/llama_chat/", chat.LlamaChat)

		api.GET("/destinations/", catalog.Destinations)
		api.GET("/recommendations/", catalog.Recommendations)
		api.GET("/collect-external-data/", catalog.CollectExternalData)
	}
}

// RegisterModelRoutes mounts the model server API
func RegisterModelRoutes(router gin.IRouter, assistant *AssistantHandler) {
	router.POST("/api/chat/", assistant.Chat)
	router.POST("/generate", assistant.Generate)
	router.POST("/generate/stream", assistant.GenerateStream)
	router.GET("/health", assistant.Health)
	router.POST("/reset", assistant.Reset)
}
