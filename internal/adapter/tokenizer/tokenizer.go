package tokenizer

import (
	"strings"
	"unicode"
)

// Estimator approximates LLM token counts for prompt budgeting. Counts are
// heuristic, not model-exact; the context cache in front of it makes the
// imprecision cheap to tolerate.
type Estimator struct{}

func NewEstimator() *Estimator {
	return &Estimator{}
}

// CountTokens returns an approximate token count for the text.
// Rough estimate: the average word is about 1.3 subword tokens.
func (e *Estimator) CountTokens(text string) int {
	words := splitWords(text)
	if len(words) == 0 {
		return 0
	}
	return int(float64(len(words)) * 1.3)
}

// splitWords splits text into words using unicode word boundaries.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}
