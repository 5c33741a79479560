// Package ollama is a chat client for a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bankdocs/internal/domain"
	"bankdocs/internal/llm"
)

type Client struct {
	host   string
	model  string
	client *http.Client
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
		cfg.Model = "llama3.2"
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

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Message llm.Message `json:"message"`
	Done    bool        `json:"done"`
}

// Chat issues one /api/chat call with streaming disabled.
func (c *Client) Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  &chatOptions{Temperature: opts.Temperature, NumPredict: opts.MaxTokens},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationService, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrGenerationService, resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrGenerationService, err)
	}
	return out.Message.Content, nil
}
