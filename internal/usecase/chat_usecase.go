// Package usecase contains the conversational core: attribute
// extraction, stage control, AI reply parsing and the per-turn
// orchestration that ties them together.
package usecase

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
	"github.com/yourusername/shopping-assistant/internal/domain/repository"
)

// Fixed user-visible texts. Any internal failure resolves to one of
// these instead of surfacing an error past the turn boundary.
const (
	resetAcknowledgement = "New conversation started! How can I help you find the perfect phone and plan?"
	unknownSessionReply  = "No active conversation found for that session."
	emptyMessageReply    = "Please tell me what you're looking for, and I'll help you find the perfect phone and plan."
	collaboratorApology  = "I'm sorry, I couldn't process that right now. Please try again."
	assistantUnavailable = "I'm here to help you find the perfect phone and plan! What are you looking for?"
)

// ChatUseCase drives one conversation turn end to end.
type ChatUseCase interface {
	// HandleTurn processes one turn. It always returns a well-formed
	// result; failures of the AI collaborator or the parser degrade
	// into fixed fallback responses and never propagate as errors.
	HandleTurn(ctx context.Context, sessionID, message string, reset bool) entity.RecommendationResult

	// ClearSession deletes a session. Reports whether it existed.
	ClearSession(ctx context.Context, sessionID string) bool

	// History returns the session's turn records, if the session exists.
	History(ctx context.Context, sessionID string) ([]entity.TurnRecord, bool)
}

type chatUseCase struct {
	aiRepo          repository.AIRepository
	sessionRepo     repository.SessionRepository
	catalogRepo     repository.CatalogRepository
	maxContextTurns int
	historyWindow   int
}

// NewChatUseCase creates the conversation orchestrator. aiRepo may be
// nil when no AI credentials are configured; turns then resolve to a
// fixed fallback response.
func NewChatUseCase(
	aiRepo repository.AIRepository,
	sessionRepo repository.SessionRepository,
	catalogRepo repository.CatalogRepository,
	maxContextTurns int,
	historyWindow int,
) ChatUseCase {
	return &chatUseCase{
		aiRepo:          aiRepo,
		sessionRepo:     sessionRepo,
		catalogRepo:     catalogRepo,
		maxContextTurns: maxContextTurns,
		historyWindow:   historyWindow,
	}
}

func (u *chatUseCase) HandleTurn(ctx context.Context, sessionID, message string, reset bool) entity.RecommendationResult {
	if reset {
		return u.handleReset(ctx, sessionID)
	}

	message = strings.TrimSpace(message)

	id, session, err := u.sessionRepo.GetOrCreate(ctx, sessionID)
	if err != nil {
		log.Printf("session lookup failed for %q: %v", sessionID, err)
		return entity.RecommendationResult{
			Response:           collaboratorApology,
			VoiceResponse:      collaboratorApology,
			NextAction:         entity.ActionContinueConversation,
			NeedsClarification: true,
			SessionID:          sessionID,
		}
	}

	// Serialize turns for this session: concurrent turns for different
	// sessions proceed in parallel, but one session's read-modify-write
	// must not interleave. Even the short-circuit branches below read
	// the profile stage, so the lock covers the whole turn.
	session.Lock()
	defer session.Unlock()

	if message == "" {
		return entity.RecommendationResult{
			Response:           emptyMessageReply,
			VoiceResponse:      emptyMessageReply,
			Stage:              session.Profile.Stage,
			NextAction:         entity.ActionAskClarification,
			NeedsClarification: true,
			SessionID:          id,
		}
	}

	if u.aiRepo == nil {
		return entity.RecommendationResult{
			Response:      assistantUnavailable,
			VoiceResponse: assistantUnavailable,
			Stage:         session.Profile.Stage,
			NextAction:    entity.ActionContinueConversation,
			SessionID:     id,
		}
	}

	instruction := u.buildSystemInstruction(ctx, session.Profile)
	history := lastTurns(session.HistoryCopy(), u.historyWindow)

	raw, err := u.aiRepo.Generate(ctx, instruction, message, history)
	if err != nil {
		// Profile and stage stay untouched on a failed collaborator call.
		log.Printf("AI request failed for session %s: %v", id, err)
		return entity.RecommendationResult{
			Response:           collaboratorApology,
			VoiceResponse:      collaboratorApology,
			Stage:              session.Profile.Stage,
			NextAction:         entity.ActionContinueConversation,
			NeedsClarification: true,
			SessionID:          id,
		}
	}

	session.Append(entity.RoleUser, message, u.maxContextTurns)
	session.Append(entity.RoleAssistant, raw, u.maxContextTurns)

	result := ExtractResult(raw)
	ExtractAttributes(session.Profile, message)
	session.Profile.Stage = AdvanceStage(session.Profile.Stage, string(result.Stage))
	u.recordRecommendations(session.Profile, result)

	result.Stage = session.Profile.Stage
	result.SessionID = id
	return result
}

func (u *chatUseCase) handleReset(ctx context.Context, sessionID string) entity.RecommendationResult {
	if !u.sessionRepo.Reset(ctx, sessionID) {
		return entity.RecommendationResult{
			Response:  unknownSessionReply,
			SessionID: sessionID,
		}
	}
	return entity.RecommendationResult{
		Response:  resetAcknowledgement,
		SessionID: sessionID,
		Reset:     true,
	}
}

// ClearSession deletes a session. Reports whether it existed.
func (u *chatUseCase) ClearSession(ctx context.Context, sessionID string) bool {
	return u.sessionRepo.Reset(ctx, sessionID)
}

// History returns the session's turn records, if the session exists.
func (u *chatUseCase) History(ctx context.Context, sessionID string) ([]entity.TurnRecord, bool) {
	session, exists := u.sessionRepo.Get(ctx, sessionID)
	if !exists {
		return nil, false
	}
	session.Lock()
	defer session.Unlock()
	return session.HistoryCopy(), true
}

// recordRecommendations remembers which devices were already shown and,
// when the AI sends the shopper to the cart, which device and plan were
// chosen.
func (u *chatUseCase) recordRecommendations(profile *entity.ShopperProfile, result entity.RecommendationResult) {
	for _, device := range result.Devices {
		profile.NoteRecommendedDevice(device.ID)
	}
	if result.NextAction == entity.ActionNavigateToCart {
		if len(result.Devices) > 0 {
			profile.SelectedDevice = result.Devices[0].ID
		}
		if len(result.Plans) > 0 {
			profile.SelectedPlan = result.Plans[0].ID
		}
	}
}

const responseFormatInstruction = `IMPORTANT INSTRUCTIONS:
1. Be natural and conversational
2. Ask only ONE question at a time
3. Show genuine interest in their needs
4. Provide specific recommendations with reasoning
5. Only recommend products from the available list, and include device ID and plan ID
6. Guide the conversation naturally toward the next stage

Respond in JSON format:
{
  "response": "Your conversational response",
  "question": "Specific question to ask (if any)",
  "devices": [
    {
      "id": "device_id",
      "name": "device_name",
      "reasoning": "why this device fits their needs"
    }
  ],
  "plans": [
    {
      "id": "plan_id",
      "name": "plan_name",
      "reasoning": "why this plan fits their needs"
    }
  ],
  "conversation_stage": "current_stage",
  "voice_response": "Optimized response for speech synthesis",
  "next_action": "continue_conversation|show_products|navigate_to_cart|ask_clarification"
}`

// buildSystemInstruction assembles the stage template, the serialized
// catalog and the response-format contract into one system instruction.
// Catalog read failures degrade to an empty catalog section.
func (u *chatUseCase) buildSystemInstruction(ctx context.Context, profile *entity.ShopperProfile) string {
	devices, err := u.catalogRepo.Devices(ctx)
	if err != nil {
		log.Printf("failed to load devices for prompt: %v", err)
	}
	plans, err := u.catalogRepo.Plans(ctx)
	if err != nil {
		log.Printf("failed to load plans for prompt: %v", err)
	}

	var sb strings.Builder
	sb.WriteString(StageInstruction(profile))
	sb.WriteString("\n\n")
	sb.WriteString(formatDevicesContext(devices))
	sb.WriteString("\n")
	sb.WriteString(formatPlansContext(plans))
	sb.WriteString("\n")
	sb.WriteString(responseFormatInstruction)
	return sb.String()
}

// formatDevicesContext serializes devices as compact line-per-item
// records for the prompt.
func formatDevicesContext(devices []entity.Device) string {
	var sb strings.Builder
	sb.WriteString("AVAILABLE DEVICES:\n")
	for _, d := range devices {
		sb.WriteString("ID:" + d.ID + " | " + d.Name + " (" + d.Brand + ") | €" + formatPrice(d.Price) +
			" | " + d.Storage + " | Features: " + strings.Join(d.Features, ", ") + "\n")
	}
	return sb.String()
}

// formatPlansContext serializes plans the same way.
func formatPlansContext(plans []entity.Plan) string {
	var sb strings.Builder
	sb.WriteString("AVAILABLE PLANS:\n")
	for _, p := range plans {
		sb.WriteString("ID:" + p.ID + " | " + p.Name + " (" + p.Type + ") | €" + formatPrice(p.Price) +
			"/month | " + p.Data + " | Features: " + strings.Join(p.Features, ", ") + "\n")
	}
	return sb.String()
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func lastTurns(history []entity.TurnRecord, window int) []entity.TurnRecord {
	if window > 0 && len(history) > window {
		return history[len(history)-window:]
	}
	return history
}
