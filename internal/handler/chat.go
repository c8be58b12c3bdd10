package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"apptravel/internal/model"
	"apptravel/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles the travel chat endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// TravelChat handles POST /api/chat/ and POST /api/intelligent_travel_chat/
func (h *ChatHandler) TravelChat(c *gin.Context) {
	req, ok := bindChatRequest(c)
	if !ok {
		return
	}

	response, err := h.chatService.Chat(c.Request.Context(), req.Message, req.UserID.OrDefault())
	if errors.Is(err, service.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message vide"})
		return
	}
	if err != nil {
		log.Printf("❌ Travel chat failed (request %s): %v", c.GetString("request_id"), err)
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// LlamaChat handles POST /api/llama_chat/ - forwards the message to the model as is
func (h *ChatHandler) LlamaChat(c *gin.Context) {
	req, ok := bindChatRequest(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.chatService.SimpleChat(c.Request.Context(), req.Message))
}

// bindChatRequest decodes the body and rejects blank messages
func bindChatRequest(c *gin.Context) (model.ChatRequest, bool) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return req, false
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message vide"})
		return req, false
	}

	return req, true
}
