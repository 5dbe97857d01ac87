// Package telegram is an alternative frontend: the same conversation
// core served through a Telegram bot instead of the HTTP API.
package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/shopping-assistant/internal/domain/entity"
	"github.com/yourusername/shopping-assistant/internal/usecase"
)

const welcomeMessage = "Hi! I'm your phone shopping assistant. Tell me what you're looking for and I'll help you pick a phone and a plan."

// BotHandler receives Telegram updates and feeds them through the
// conversation orchestrator. Each chat maps to one session.
type BotHandler struct {
	bot         *tgbotapi.BotAPI
	chatUseCase usecase.ChatUseCase
	pool        *workerPool
}

// NewBotHandler creates the bot and its worker pool.
func NewBotHandler(token string, chatUseCase usecase.ChatUseCase, workerCount int) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	handler := &BotHandler{
		bot:         bot,
		chatUseCase: chatUseCase,
	}
	handler.pool = newWorkerPool(handler, workerCount)
	return handler, nil
}

// Username returns the authorized bot account name.
func (h *BotHandler) Username() string {
	return h.bot.Self.UserName
}

// Start runs the update loop until the context is cancelled.
func (h *BotHandler) Start(ctx context.Context) error {
	h.pool.start(ctx)
	defer h.pool.shutdown()

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := h.bot.GetUpdatesChan(updateCfg)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	sessionID := sessionIDForChat(chatID)

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			h.sendMessage(chatID, welcomeMessage)
		case "reset":
			result := h.chatUseCase.HandleTurn(ctx, sessionID, "", true)
			h.sendMessage(chatID, result.Response)
		case "history":
			h.sendHistory(ctx, chatID, sessionID)
		default:
			h.sendMessage(chatID, "Unknown command. Just type what you're looking for, use /history to review the conversation, or /reset to start over.")
		}
		return
	}

	h.pool.submit(&turnRequest{
		ctx:       ctx,
		chatID:    chatID,
		sessionID: sessionID,
		text:      message.Text,
	})
}

// processTurn runs one turn; called from the worker pool.
func (h *BotHandler) processTurn(ctx context.Context, req *turnRequest) {
	typing := tgbotapi.NewChatAction(req.chatID, tgbotapi.ChatTyping)
	if _, err := h.bot.Request(typing); err != nil {
		log.Printf("failed to send typing action to chat %d: %v", req.chatID, err)
	}

	result := h.chatUseCase.HandleTurn(ctx, req.sessionID, req.text, false)
	h.sendMessage(req.chatID, formatResult(result))
}

// sendHistory renders the conversation so far. Assistant turns are
// stored raw, so each one goes back through the reply parser to show
// the narrative text instead of the wire payload.
func (h *BotHandler) sendHistory(ctx context.Context, chatID int64, sessionID string) {
	history, ok := h.chatUseCase.History(ctx, sessionID)
	if !ok || len(history) == 0 {
		h.sendMessage(chatID, "No conversation yet. Just type what you're looking for!")
		return
	}

	var sb strings.Builder
	for _, turn := range history {
		switch turn.Role {
		case entity.RoleAssistant:
			sb.WriteString("Assistant: " + usecase.ExtractResult(turn.Text).Response + "\n")
		default:
			sb.WriteString("You: " + turn.Text + "\n")
		}
	}
	h.sendMessage(chatID, sb.String())
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	if text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("failed to send message to chat %d: %v", chatID, err)
	}
}

// formatResult renders a turn result as a plain-text chat message with
// the recommended devices and plans listed underneath.
func formatResult(result entity.RecommendationResult) string {
	var sb strings.Builder
	sb.WriteString(result.Response)

	if len(result.Devices) > 0 {
		sb.WriteString("\n\nRecommended devices:\n")
		for i, device := range result.Devices {
			sb.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, device.Name, device.Reasoning))
		}
	}
	if len(result.Plans) > 0 {
		sb.WriteString("\nRecommended plans:\n")
		for i, plan := range result.Plans {
			sb.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, plan.Name, plan.Reasoning))
		}
	}
	if result.Question != "" && !strings.Contains(result.Response, result.Question) {
		sb.WriteString("\n" + result.Question)
	}
	return sb.String()
}

func sessionIDForChat(chatID int64) string {
	return "tg-" + strconv.FormatInt(chatID, 10)
}
