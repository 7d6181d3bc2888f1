package llm

import (
	"context"
	"errors"

	"ai-fitness-coach/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// Completion failure classes. Callers match them with errors.Is; the
// client never retries internally.
var (
	// ErrCompletionUnavailable marks transport failures, including
	// context cancellation and deadline expiry. Retryable by caller policy.
	ErrCompletionUnavailable = errors.New("completion provider unavailable")

	// ErrCompletionRejected marks an explicit error response from the
	// provider. The provider's payload is attached to the wrapped error.
	ErrCompletionRejected = errors.New("completion rejected by provider")

	// ErrCompletionMalformed marks a reply missing the expected text field.
	ErrCompletionMalformed = errors.New("completion reply malformed")
)
