package handler

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	"apptravel/internal/model"
	"apptravel/internal/service"

	"github.com/gin-gonic/gin"
)

// Pinger checks a dependency's availability
type Pinger interface {
	Ping(ctx context.Context) error
}

var backendEndpoints = map[string]string{
	"chat":                  "POST /api/chat/",
	"intelligent_chat":      "POST /api/intelligent_travel_chat/",
	"llama_chat":            "POST /api/llama_chat/",
	"destinations":          "GET /api/destinations/",
	"recommendations":       "GET /api/recommendations/",
	"collect_external_data": "GET /api/collect-external-data/",
	"health":                "GET /api/health/",
}

// HealthHandler serves the status endpoints of the travel backend
type HealthHandler struct {
	chatService *service.ChatService
	db          Pinger // nil when the database is disabled
}

// NewHealthHandler creates a new health handler. db may be nil.
func NewHealthHandler(chatService *service.ChatService, db Pinger) *HealthHandler {
	return &HealthHandler{
		chatService: chatService,
		db:          db,
	}
}

// Health handles GET /api/health/, /health and /health/
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	response := model.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Llama:     h.chatService.LlamaStatus(ctx),
		Endpoints: backendEndpoints,
		Database:  "disabled",
	}

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			response.Database = "unavailable"
		} else {
			response.Database = "connected"
		}
	}

	c.JSON(http.StatusOK, response)
}

// Home handles GET / with a small HTML status page
func (h *HealthHandler) Home(c *gin.Context) {
	llamaURL := "Aucune (mode simulation)"
	if status := h.chatService.LlamaStatus(c.Request.Context()); status.URL != nil {
		llamaURL = *status.URL
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>App-Travel</title></head>
<body>
<h1>🚀 App-Travel - Métamoteur Voyage</h1>
<p>Backend Go avec Llama API et offres de voyage</p>
<p><strong>URL Llama détectée:</strong> %s</p>
<ul>
<li><a href="/api/health/">Health Check</a></li>
<li>Endpoint Chat: POST /api/chat/</li>
</ul>
</body>
</html>`, html.EscapeString(llamaURL))

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
