// Package httpapi exposes the shopping assistant over HTTP.
package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/shopping-assistant/internal/domain/entity"
	"github.com/yourusername/shopping-assistant/internal/domain/repository"
	"github.com/yourusername/shopping-assistant/internal/usecase"
)

// Handler holds the HTTP endpoint implementations.
type Handler struct {
	chatUseCase usecase.ChatUseCase
	catalogRepo repository.CatalogRepository
}

// NewHandler creates the API handler.
func NewHandler(chatUseCase usecase.ChatUseCase, catalogRepo repository.CatalogRepository) *Handler {
	return &Handler{
		chatUseCase: chatUseCase,
		catalogRepo: catalogRepo,
	}
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Shopping Assistant API is running",
	})
}

// Devices returns the device catalog.
func (h *Handler) Devices(c *gin.Context) {
	devices, err := h.catalogRepo.Devices(c.Request.Context())
	if err != nil || devices == nil {
		devices = []entity.Device{}
	}
	c.JSON(http.StatusOK, devices)
}

// Plans returns the plan catalog.
func (h *Handler) Plans(c *gin.Context) {
	plans, err := h.catalogRepo.Plans(c.Request.Context())
	if err != nil || plans == nil {
		plans = []entity.Plan{}
	}
	c.JSON(http.StatusOK, plans)
}

// Bundles returns every device+plan combination with combined pricing.
func (h *Handler) Bundles(c *gin.Context) {
	ctx := c.Request.Context()
	devices, err := h.catalogRepo.Devices(ctx)
	if err != nil {
		devices = nil
	}
	plans, err := h.catalogRepo.Plans(ctx)
	if err != nil {
		plans = nil
	}

	bundles := []entity.Bundle{}
	for _, device := range devices {
		for _, plan := range plans {
			bundles = append(bundles, entity.Bundle{
				Device:      device.Name,
				Plan:        plan.Name,
				Price:       device.Price + plan.Price,
				DeviceImage: device.Image,
			})
		}
	}
	c.JSON(http.StatusOK, bundles)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	Reset     bool   `json:"reset"`
}

// Chat runs one conversation turn. The use case never fails past the
// turn boundary, so this always answers 200 with a well-formed result.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.chatUseCase.HandleTurn(c.Request.Context(), req.SessionID, req.Message, req.Reset)
	c.JSON(http.StatusOK, result)
}

type clearConversationRequest struct {
	SessionID string `json:"session_id"`
}

// ClearConversation drops a session's history and profile.
func (h *Handler) ClearConversation(c *gin.Context) {
	var req clearConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	if req.SessionID == "" || !h.chatUseCase.ClearSession(c.Request.Context(), req.SessionID) {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid session ID"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Conversation cleared"})
}

// ConversationHistory returns a session's turn records.
func (h *Handler) ConversationHistory(c *gin.Context) {
	sessionID := c.Query("session_id")
	history, ok := h.chatUseCase.History(c.Request.Context(), sessionID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid session ID", "history": []entity.TurnRecord{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}

type voiceCommandRequest struct {
	Command   string `json:"command"`
	SessionID string `json:"session_id"`
}

// VoiceCommand handles literal navigation commands from the voice UI.
func (h *Handler) VoiceCommand(c *gin.Context) {
	var req voiceCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	command := strings.ToLower(req.Command)
	switch {
	case strings.Contains(command, "cart"):
		c.JSON(http.StatusOK, gin.H{
			"action":   "navigate",
			"route":    "/cart",
			"response": "Taking you to your shopping cart now!",
		})
	case strings.Contains(command, "checkout"):
		c.JSON(http.StatusOK, gin.H{
			"action":   "navigate",
			"route":    "/cart",
			"response": "Let's proceed to checkout!",
		})
	case strings.Contains(command, "home"), strings.Contains(command, "catalog"):
		c.JSON(http.StatusOK, gin.H{
			"action":   "navigate",
			"route":    "/",
			"response": "Returning to the product catalog!",
		})
	case strings.Contains(command, "help"):
		c.JSON(http.StatusOK, gin.H{
			"action":   "continue_conversation",
			"response": "I can help you find phones, compare plans, add items to cart, or guide you through checkout. What would you like to do?",
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"action":   "continue_conversation",
			"response": "I didn't understand that command. Try saying 'go to cart', 'checkout', or 'help'.",
		})
	}
}

type speakRequest struct {
	Text string `json:"text"`
}

// Speak returns the text for browser-side speech synthesis. Actual
// audio generation is not part of this service.
func (h *Handler) Speak(c *gin.Context) {
	var req speakRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": req.Text, "audio_url": nil})
}
