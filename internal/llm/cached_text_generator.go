package llm

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedTextGenerator wraps a TextGenerator with an in-memory LRU cache
// keyed by the exact prompt text. Intended for the keyword-extraction
// path, where identical feedback text yields identical keyword lists;
// plan generation should not be cached.
type CachedTextGenerator struct {
	realGen TextGenerator
	cache   *lru.Cache[string, ContentResponse]
}

// NewCachedTextGenerator creates a CachedTextGenerator holding up to
// size entries.
func NewCachedTextGenerator(realGen TextGenerator, size int) (*CachedTextGenerator, error) {
	cache, err := lru.New[string, ContentResponse](size)
	if err != nil {
		return nil, err
	}
	return &CachedTextGenerator{realGen: realGen, cache: cache}, nil
}

// GenerateContent checks the cache first. On a miss it calls the real
// generator and stores the result. Failures are never cached.
func (c *CachedTextGenerator) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	if resp, ok := c.cache.Get(prompt); ok {
		return resp, nil
	}

	resp, err := c.realGen.GenerateContent(ctx, prompt)
	if err != nil {
		return ContentResponse{}, err
	}

	c.cache.Add(prompt, resp)
	return resp, nil
}
