package embedding

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lorevec/internal/domain"
)

func TestNewMissingAPIKey(t *testing.T) {
	_, err := New(Options{APIKeyEnv: "LOREVEC_TEST_NO_SUCH_KEY", Model: "text-embedding-3-small"})
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestEmbedBatchOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}

		// Respond out of order to exercise index-based placement.
		resp := embeddingResponse{}
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, embeddingData{
				Index:     i,
				Embedding: []float32{float32(i), float32(i)},
			})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	t.Setenv("LOREVEC_TEST_KEY", "test-key")
	e, err := New(Options{
		APIKeyEnv: "LOREVEC_TEST_KEY",
		Model:     "text-embedding-3-small",
		BaseURL:   srv.URL,
		Dimension: 2,
		BatchSize: 2,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := e.Embed([]string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(got))
	}
	// Batches are [a b] and [c]; within each batch, index i maps to vector {i, i}.
	if got[0][0] != 0 || got[1][0] != 1 || got[2][0] != 0 {
		t.Errorf("embeddings not in input order: %v", got)
	}
}

func TestEmbedUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	t.Setenv("LOREVEC_TEST_KEY", "test-key")
	e, err := New(Options{
		APIKeyEnv: "LOREVEC_TEST_KEY",
		Model:     "text-embedding-3-small",
		BaseURL:   srv.URL,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = e.Embed([]string{"hello"})
	if !errors.Is(err, domain.ErrProviderRequestFailed) {
		t.Fatalf("expected ErrProviderRequestFailed, got %v", err)
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	e := NewOllama("nomic-embed-text", "")
	got, err := e.Embed(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(8)

	a, err := e.Embed([]string{"dragon"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed([]string{"dragon"})
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 1 || len(a[0]) != 8 {
		t.Fatalf("unexpected shape: %v", a)
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatal("mock embedder not deterministic")
		}
	}
}
