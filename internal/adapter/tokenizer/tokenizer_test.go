package tokenizer

import "testing"

func TestCountTokens(t *testing.T) {
	e := NewEstimator()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"punctuation only", "!!! ... ???", 0},
		{"single word", "hello", 1},
		{"ten words", "the quick brown fox jumps over the lazy dog again", 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CountTokens(tt.text); got != tt.want {
				t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCountTokensMonotonicity(t *testing.T) {
	e := NewEstimator()

	short := e.CountTokens("a short message")
	long := e.CountTokens("a considerably longer message with many more words in it than the other one")
	if long <= short {
		t.Errorf("expected longer text to count more tokens: short=%d long=%d", short, long)
	}
}
