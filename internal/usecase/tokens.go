package usecase

import (
	"lorevec/internal/adapter/cache"
)

// TokenCounter approximates token counts for text.
type TokenCounter interface {
	CountTokens(text string) int
}

// TokenBudget fronts a token counter with the context cache, keyed by model
// and a cheap fingerprint of the text.
type TokenBudget struct {
	counter TokenCounter
	cache   *cache.ContextCache
}

func NewTokenBudget(counter TokenCounter, c *cache.ContextCache) *TokenBudget {
	return &TokenBudget{counter: counter, cache: c}
}

// CountTokens returns the (possibly cached) token count for text under the
// given model name.
func (b *TokenBudget) CountTokens(model, text string) int {
	key := cache.TokenCountKey(model, text)
	if b.cache != nil {
		if v, ok := b.cache.Get(key); ok {
			return v.(int)
		}
	}

	n := b.counter.CountTokens(text)
	if b.cache != nil {
		b.cache.Set(key, n)
	}
	return n
}
