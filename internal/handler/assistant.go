package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"apptravel/internal/model"
	"apptravel/internal/service"

	"github.com/gin-gonic/gin"
)

const modelNotLoaded = "Modele non charge"

// AssistantHandler serves the model server endpoints
type AssistantHandler struct {
	assistant *service.Assistant
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistant *service.Assistant) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Chat handles POST /api/chat/ on the model server
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.assistant.Chat(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Generate handles POST /generate
func (h *AssistantHandler) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	text, err := h.assistant.Generate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, model.GenerateResponse{Response: text})
}

// GenerateStream handles POST /generate/stream - SSE streaming generation
func (h *AssistantHandler) GenerateStream(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if !h.assistant.Health(c.Request.Context()).ModelLoaded {
		c.JSON(http.StatusInternalServerError, gin.H{"error": modelNotLoaded})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sendSSE(c, "start", nil)
	flusher.Flush()

	err := h.assistant.GenerateStream(c.Request.Context(), req, func(content string) error {
		sendSSE(c, "token", map[string]string{"content": content})
		flusher.Flush()
		return nil
	})
	if err != nil {
		log.Printf("❌ Streaming generation failed: %v", err)
		sendSSE(c, "error", map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}

	sendSSE(c, "done", nil)
	flusher.Flush()
}

// Health handles GET /health on the model server
func (h *AssistantHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.assistant.Health(c.Request.Context()))
}

// Reset handles POST /reset
func (h *AssistantHandler) Reset(c *gin.Context) {
	var req model.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	userID := req.UserID.OrDefault()
	if err := h.assistant.Reset(c.Request.Context(), userID); err != nil {
		log.Printf("❌ Failed to reset conversation %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset conversation"})
		return
	}

	c.JSON(http.StatusOK, model.ResetResponse{Status: "reset", UserID: userID})
}

func (h *AssistantHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrModelNotLoaded) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": modelNotLoaded})
		return
	}
	log.Printf("❌ Assistant error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}
