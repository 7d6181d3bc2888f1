package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ai-fitness-coach/internal/config"
	"ai-fitness-coach/internal/shared"
)

const openRouterAPIURL = "https://openrouter.ai/api/v1/chat/completions"

// systemPreamble is sent as a fixed system-role message ahead of every
// user prompt. It frames the assistant for the plan pipelines.
const systemPreamble = "You are part of a health and fitness app that builds weekly meal and " +
	"exercise plans for its users. Follow the output format in the user message exactly and " +
	"do not add any commentary around it."

// openRouterClient is a client for an OpenAI-compatible chat completions API.
type openRouterClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenRouterClient creates a new OpenRouter chat completions client.
// The caller owns timeouts: the client honours the request context and
// applies no deadline of its own.
func NewOpenRouterClient(cfg *config.Config) TextGenerator {
	return &openRouterClient{
		apiKey:     cfg.OpenRouterAPIKey,
		model:      cfg.OpenRouterModel,
		baseURL:    openRouterAPIURL,
		httpClient: &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error json.RawMessage `json:"error"`
}

// GenerateContent sends exactly one user message, preceded by the fixed
// system preamble, and returns the reply text. It performs no parsing of
// domain semantics.
func (c *openRouterClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPreamble},
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Covers network failures and caller-imposed timeouts alike.
		return ContentResponse{}, fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("%w: reading response body: %v", ErrCompletionUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return ContentResponse{}, fmt.Errorf("%w: status=%d body=%s", ErrCompletionRejected, resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return ContentResponse{}, fmt.Errorf("%w: decoding response: %v", ErrCompletionMalformed, err)
	}

	if len(chatResp.Error) > 0 && string(chatResp.Error) != "null" {
		return ContentResponse{}, fmt.Errorf("%w: %s", ErrCompletionRejected, string(chatResp.Error))
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return ContentResponse{}, fmt.Errorf("%w: no content generated", ErrCompletionMalformed)
	}

	return ContentResponse{
		Content: chatResp.Choices[0].Message.Content,
		Usage: shared.TokenUsage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
			Model:            c.model,
		},
	}, nil
}
