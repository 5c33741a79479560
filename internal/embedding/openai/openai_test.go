package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankdocs/internal/domain"
)

const keyEnv = "TEST_EMBED_API_KEY"

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	t.Setenv(keyEnv, "test-key")
	c, err := NewClient(Config{BaseURL: url, APIKeyEnv: keyEnv, Model: "test-model"})
	require.NoError(t, err)
	return c
}

func embeddingsResponse(vectors ...[]float64) map[string]any {
	data := make([]map[string]any, len(vectors))
	for i, v := range vectors {
		data[i] = map[string]any{"embedding": v, "index": i}
	}
	return map[string]any{"data": data}
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv(keyEnv, "")
	_, err := NewClient(Config{APIKeyEnv: keyEnv})
	require.Error(t, err)
	assert.Contains(t, err.Error(), keyEnv)
}

func TestEmbedBatch_SingleRequestPreservesOrder(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"alpha", "beta"}, body.Input)
		assert.Equal(t, "test-model", body.Model)

		// reversed order in the payload, indices restore it
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"embedding": []float64{2, 2}, "index": 1},
			{"embedding": []float64{1, 1}, "index": 0},
		}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	vecs, err := c.EmbedBatch(context.Background(), []string{"alpha", "beta"})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float64{1, 1}, vecs[0])
	assert.Equal(t, []float64{2, 2}, vecs[1])
	assert.Equal(t, 2, c.Dimension())
}

func TestEmbed_WrapsBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embeddingsResponse([]float64{0.5, 0.25}))
	}))
	defer srv.Close()

	vec, err := newTestClient(t, srv.URL).Embed(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25}, vec)
}

func TestEmbedBatch_RetriesOnRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(embeddingsResponse([]float64{1}))
	}))
	defer srv.Close()

	vecs, err := newTestClient(t, srv.URL).EmbedBatch(context.Background(), []string{"text"})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, vecs, 1)
}

func TestEmbedBatch_ExhaustedRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).EmbedBatch(context.Background(), []string{"text"})

	assert.ErrorIs(t, err, domain.ErrEmbeddingService)
	assert.Equal(t, 4, calls)
}

func TestEmbedBatch_ClientErrorNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).EmbedBatch(context.Background(), []string{"text"})

	assert.ErrorIs(t, err, domain.ErrEmbeddingService)
	assert.Equal(t, 1, calls)
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embeddingsResponse([]float64{1}))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).EmbedBatch(context.Background(), []string{"a", "b"})

	assert.ErrorIs(t, err, domain.ErrEmbeddingService)
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	c := newTestClient(t, "http://localhost:1")
	vecs, err := c.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedBatch_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(t, srv.URL).EmbedBatch(ctx, []string{"text"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmbeddingService)
}
