package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// PipelineMeta holds operational metadata for one pipeline execution.
type PipelineMeta struct {
	Pipeline string
	Usage    TokenUsage
	Latency  time.Duration
}
