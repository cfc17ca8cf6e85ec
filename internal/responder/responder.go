// Package responder produces assistant replies for a conversation history.
package responder

import (
	"context"

	"zenchat/internal/models"
)

// Responder generates the content of the next assistant message.
// Implementations must be safe for concurrent use.
type Responder interface {
	Reply(ctx context.Context, history []models.Message) (string, error)
}

// Func adapts an ordinary function to the Responder interface
type Func func(ctx context.Context, history []models.Message) (string, error)

// Reply calls f
func (f Func) Reply(ctx context.Context, history []models.Message) (string, error) {
	return f(ctx, history)
}
