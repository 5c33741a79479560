// Package openai is an OpenAI-compatible chat completions client.
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
	"bankdocs/internal/llm"
)

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	client     *http.Client
	maxRetries int
}

// Config configures the chat client. The API key is read from the
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
		cfg.Model = "gpt-4-turbo"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 120 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		model:      cfg.Model,
		client:     &http.Client{Timeout: t},
		maxRetries: 3,
	}, nil
}

// chatRequest is the /chat/completions request format. Temperature is
// always sent so that 0 reaches the service.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat issues one chat completion. Transient failures (transport errors,
// 429, 5xx) are retried with exponential backoff, honouring Retry-After.
func (c *Client) Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	data, _ := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	url := c.baseURL + "/chat/completions"

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrGenerationService, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if attempt < c.maxRetries {
				if err := sleep(ctx, retryDelay(attempt)); err != nil {
					return "", err
				}
				continue
			}
			return "", fmt.Errorf("%w: %v", domain.ErrGenerationService, err)
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
					return "", err
				}
				continue
			}
			return "", fmt.Errorf("%w: %s", domain.ErrGenerationService, resp.Status)
		}

		var out chatResponse
		err = json.NewDecoder(resp.Body).Decode(&out)
		_ = resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("%w: decode response: %v", domain.ErrGenerationService, err)
		}
		if out.Error != nil {
			return "", fmt.Errorf("%w: %s", domain.ErrGenerationService, out.Error.Message)
		}
		if resp.StatusCode >= 300 {
			return "", fmt.Errorf("%w: %s", domain.ErrGenerationService, resp.Status)
		}
		if len(out.Choices) == 0 {
			return "", fmt.Errorf("%w: no choices returned", domain.ErrGenerationService)
		}
		return out.Choices[0].Message.Content, nil
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
