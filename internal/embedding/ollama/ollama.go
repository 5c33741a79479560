// Package ollama is an embeddings client for a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bankdocs/internal/domain"
)

type Client struct {
	host      string
	model     string
	dimension int
	client    *http.Client
}

type Config struct {
	Host    string
	Model   string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.Host == "" {
		cfg.Host = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "nomic-embed-text"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 120 * time.Second
	}
	return &Client{
		host:   cfg.Host,
		model:  cfg.Model,
		client: &http.Client{Timeout: t},
	}
}

// Dimension returns the vector size, or 0 before the first embed.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns the embedding vector for one text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds several texts with one /api/embed call.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	type reqBody struct {
		Model string   `json:"model"`
		Input []string `json:"input"`
	}
	data, err := json.Marshal(reqBody{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/embed", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingService, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrEmbeddingService, resp.StatusCode)
	}

	var out struct {
		Embeddings [][]float64 `json:"embeddings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrEmbeddingService, err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", domain.ErrEmbeddingService, len(out.Embeddings), len(texts))
	}
	for _, v := range out.Embeddings {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty embedding returned", domain.ErrEmbeddingService)
		}
	}
	if c.dimension == 0 {
		c.dimension = len(out.Embeddings[0])
	}
	return out.Embeddings, nil
}

// IsHealthy reports whether the Ollama server is reachable.
func (c *Client) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
