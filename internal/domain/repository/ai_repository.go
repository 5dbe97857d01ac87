package repository

import (
	"context"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

// AIRepository is the text-generation collaborator. It takes system
// instructions, the current user message and prior turns, and returns
// raw text with no structural guarantee. It may fail with an opaque
// error (timeout, auth, quota); callers must recover locally.
type AIRepository interface {
	// Generate runs one completion request.
	Generate(ctx context.Context, systemInstruction, userMessage string, history []entity.TurnRecord) (string, error)

	// Close releases the underlying client.
	Close() error
}
