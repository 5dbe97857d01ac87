// Package gemini implements the text-generation collaborator on top of
// the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/yourusername/shopping-assistant/internal/domain/constants"
	"github.com/yourusername/shopping-assistant/internal/domain/entity"
	"github.com/yourusername/shopping-assistant/internal/domain/repository"
	"google.golang.org/api/option"
)

type geminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates the Gemini AI client.
func NewGeminiClient(ctx context.Context, apiKey string) (repository.AIRepository, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiClient{client: client}, nil
}

// Generate runs one completion request. The system instruction changes
// every turn (it carries the stage template and catalog context), so a
// model handle is configured per call rather than once at startup.
func (g *geminiClient) Generate(ctx context.Context, systemInstruction, userMessage string, history []entity.TurnRecord) (string, error) {
	model := g.client.GenerativeModel(constants.GeminiModelName)
	model.SetTemperature(constants.AITemperature)
	model.SetTopK(constants.AITopK)
	model.SetTopP(constants.AITopP)

	if systemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemInstruction)},
		}
	}

	var parts []genai.Part
	for _, turn := range history {
		if turn.Text == "" {
			continue
		}
		switch turn.Role {
		case entity.RoleAssistant:
			parts = append(parts, genai.Text(fmt.Sprintf("Assistant: %s", turn.Text)))
		default:
			parts = append(parts, genai.Text(fmt.Sprintf("Customer: %s", turn.Text)))
		}
	}
	parts = append(parts, genai.Text(userMessage))

	maxRetries := constants.MaxRetries
	retryDelay := constants.RetryDelaySeconds * time.Second
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		resp, err := model.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			log.Printf("gemini attempt %d/%d failed: %v", attempt, maxRetries, err)
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(retryDelay):
				}
			}
			continue
		}

		if len(resp.Candidates) == 0 {
			lastErr = fmt.Errorf("no response candidates")
			log.Printf("gemini attempt %d/%d: no candidates", attempt, maxRetries)
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(retryDelay):
				}
			}
			continue
		}

		if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
			log.Printf("gemini response blocked by safety filter")
			return "", fmt.Errorf("response blocked by safety filter")
		}

		responseText := extractText(resp)
		if strings.TrimSpace(responseText) == "" {
			lastErr = fmt.Errorf("empty response")
			log.Printf("gemini attempt %d/%d: empty response", attempt, maxRetries)
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(retryDelay):
				}
			}
			continue
		}

		return responseText, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("AI request failed after %d attempts: %w", maxRetries, lastErr)
	}
	return "", fmt.Errorf("no AI response after %d attempts", maxRetries)
}

// extractText concatenates the text parts of every candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				result.WriteString(fmt.Sprintf("%v", part))
			}
		}
	}
	return result.String()
}

// Close shuts down the underlying client.
func (g *geminiClient) Close() error {
	return g.client.Close()
}
