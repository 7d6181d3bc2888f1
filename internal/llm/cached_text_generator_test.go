package llm

import (
	"context"
	"fmt"
	"testing"
)

type countingGenerator struct {
	calls       int
	shouldError bool
}

func (g *countingGenerator) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	g.calls++
	if g.shouldError {
		return ContentResponse{}, fmt.Errorf("mock ai error")
	}
	return ContentResponse{Content: "reply for " + prompt}, nil
}

func TestCachedTextGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("CacheHit", func(t *testing.T) {
		real := &countingGenerator{}
		cached, err := NewCachedTextGenerator(real, 8)
		if err != nil {
			t.Fatalf("Failed to create cached generator: %v", err)
		}

		first, err := cached.GenerateContent(ctx, "extract keywords")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		second, err := cached.GenerateContent(ctx, "extract keywords")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if real.calls != 1 {
			t.Errorf("Expected 1 call to real generator, got %d", real.calls)
		}
		if first.Content != second.Content {
			t.Errorf("Expected identical cached content, got '%s' and '%s'", first.Content, second.Content)
		}
	})

	t.Run("DistinctPromptsMiss", func(t *testing.T) {
		real := &countingGenerator{}
		cached, _ := NewCachedTextGenerator(real, 8)

		cached.GenerateContent(ctx, "prompt a")
		cached.GenerateContent(ctx, "prompt b")

		if real.calls != 2 {
			t.Errorf("Expected 2 calls to real generator, got %d", real.calls)
		}
	})

	t.Run("ErrorsNotCached", func(t *testing.T) {
		real := &countingGenerator{shouldError: true}
		cached, _ := NewCachedTextGenerator(real, 8)

		if _, err := cached.GenerateContent(ctx, "prompt"); err == nil {
			t.Fatal("Expected an error, got nil")
		}

		real.shouldError = false
		resp, err := cached.GenerateContent(ctx, "prompt")
		if err != nil {
			t.Fatalf("Expected recovery after failure, got %v", err)
		}
		if resp.Content == "" {
			t.Error("Expected content after retry")
		}
		if real.calls != 2 {
			t.Errorf("Expected 2 calls, got %d", real.calls)
		}
	})
}
