package usecase

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

// The AI is instructed to reply with a JSON object, usually inside a
// ```json fence, but nothing guarantees well-formed output. Extraction
// is layered: a fenced block is preferred, then the first balanced
// brace span, and anything unparseable resolves to a degraded result
// built from the raw text verbatim. No input can make it fail.

var fencedBlockRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// parsedReply mirrors the JSON contract the AI is asked to follow.
type parsedReply struct {
	Response           string                   `json:"response"`
	VoiceResponse      string                   `json:"voice_response"`
	Question           string                   `json:"question"`
	Devices            []entity.RecommendedItem `json:"devices"`
	Plans              []entity.RecommendedItem `json:"plans"`
	ConversationStage  string                   `json:"conversation_stage"`
	NextAction         string                   `json:"next_action"`
	NeedsClarification bool                     `json:"needs_clarification"`
}

// ExtractResult recovers a structured recommendation from the raw AI
// reply. Deterministic and side-effect free; every failure path yields
// the degraded result, never an error.
func ExtractResult(raw string) entity.RecommendationResult {
	candidate, found := extractFencedBlock(raw)
	if !found {
		candidate, found = extractBraceSpan(raw)
	}
	if !found {
		return degradedResult(raw)
	}

	var reply parsedReply
	if err := json.Unmarshal([]byte(candidate), &reply); err != nil {
		return degradedResult(raw)
	}

	result := entity.RecommendationResult{
		Response:           reply.Response,
		VoiceResponse:      reply.VoiceResponse,
		Question:           reply.Question,
		Devices:            reply.Devices,
		Plans:              reply.Plans,
		NeedsClarification: reply.NeedsClarification,
		NextAction:         entity.ActionContinueConversation,
	}
	if result.Response == "" {
		result.Response = raw
	}
	if stage, ok := entity.ParseStage(reply.ConversationStage); ok {
		result.Stage = stage
	}
	if action, ok := entity.ParseNextAction(reply.NextAction); ok {
		result.NextAction = action
	}
	return result
}

// extractFencedBlock finds a ```json fenced block and returns its body.
func extractFencedBlock(raw string) (string, bool) {
	match := fencedBlockRe.FindStringSubmatch(raw)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// extractBraceSpan returns the first top-level balanced {...} span,
// tracking string literals and escapes so braces inside values do not
// break the balance.
func extractBraceSpan(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false // unterminated span
}

// degradedResult is the fixed fallback: the raw text becomes the
// narrative and voice response, and the turn asks for clarification.
// The stage is left unset so the caller keeps its prior value.
func degradedResult(raw string) entity.RecommendationResult {
	return entity.RecommendationResult{
		Response:           raw,
		VoiceResponse:      raw,
		NextAction:         entity.ActionContinueConversation,
		NeedsClarification: true,
	}
}
