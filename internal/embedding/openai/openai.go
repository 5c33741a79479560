// Package openai is an OpenAI-compatible embeddings client.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"bankdocs/internal/domain"
)

// Client calls the /embeddings endpoint with a fixed model. The vector
// dimensionality is set lazily from the first successful call.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	dimension  int
	client     *http.Client
	maxRetries int
}

// Config configures the embeddings client. The API key is read from the
// environment variable named by APIKeyEnv.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		model:      cfg.Model,
		client:     &http.Client{Timeout: t},
		maxRetries: 3,
	}, nil
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

// EmbedBatch embeds several texts in one request, preserving input order.
// Transient failures (transport errors, 429, 5xx) are retried with
// exponential backoff, honouring Retry-After.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	type reqBody struct {
		Input []string `json:"input"`
		Model string   `json:"model"`
	}
	data, _ := json.Marshal(reqBody{Input: texts, Model: c.model})
	url := c.baseURL + "/embeddings"

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingService, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if attempt < c.maxRetries {
				if err := sleep(ctx, retryDelay(attempt)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingService, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			delay := retryDelay(attempt)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			_ = resp.Body.Close()
			if attempt < c.maxRetries {
				if err := sleep(ctx, delay); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("%w: %s", domain.ErrEmbeddingService, resp.Status)
		}

		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: %s", domain.ErrEmbeddingService, resp.Status)
		}

		var out struct {
			Data []struct {
				Embedding []float64 `json:"embedding"`
				Index     int       `json:"index"`
			} `json:"data"`
		}
		err = json.NewDecoder(resp.Body).Decode(&out)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domain.ErrEmbeddingService, err)
		}
		if len(out.Data) != len(texts) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", domain.ErrEmbeddingService, len(out.Data), len(texts))
		}

		vecs := make([][]float64, len(texts))
		for _, d := range out.Data {
			if d.Index < 0 || d.Index >= len(texts) || len(d.Embedding) == 0 {
				return nil, fmt.Errorf("%w: malformed embedding at index %d", domain.ErrEmbeddingService, d.Index)
			}
			vecs[d.Index] = d.Embedding
		}
		if c.dimension == 0 {
			c.dimension = len(vecs[0])
		}
		return vecs, nil
	}
}

func retryDelay(attempt int) time.Duration {
	d := 500 * time.Millisecond << attempt
	if d > 8*time.Second {
		d = 8 * time.Second
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
