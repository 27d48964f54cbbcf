package deepseek

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("deepseek: api key is required")

// Options configures the DeepSeek chat-completions client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	Retries        int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the DeepSeek chat-completions API. Transient
// failures (network errors, non-2xx statuses, empty content) are retried a
// fixed number of times before the call is given up.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
	retries    int
	retryDelay time.Duration
}

// SendOptions captures per-call parameters.
type SendOptions struct {
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	Model        string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.deepseek.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "deepseek-chat"
	}
	retries := opts.Retries
	if retries <= 0 {
		retries = 2
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 600 * time.Millisecond
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
		retries:    retries,
		retryDelay: retryDelay,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Send posts a prompt and returns the full completion text.
func (c *Client) Send(ctx context.Context, prompt string, opts SendOptions) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			infra.LLMRetries.Inc()
			c.logger.Warn().Err(lastErr).Int("attempt", attempt).Msg("deepseek: retrying request")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
		content, err := c.sendOnce(ctx, prompt, opts)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("deepseek: request failed after %d attempt(s): %w", c.retries+1, lastErr)
}

func (c *Client) sendOnce(ctx context.Context, prompt string, opts SendOptions) (string, error) {
	resp, err := c.post(ctx, prompt, opts, false)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return "", fmt.Errorf("deepseek: http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("deepseek: decode response: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", errors.New("deepseek: empty content in response")
	}
	return out.Choices[0].Message.Content, nil
}

// SendStream posts a prompt with streaming enabled, invoking onChunk for each
// incremental piece of text, and returns the concatenated completion.
func (c *Client) SendStream(ctx context.Context, prompt string, opts SendOptions, onChunk func(string)) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			infra.LLMRetries.Inc()
			c.logger.Warn().Err(lastErr).Int("attempt", attempt).Msg("deepseek: retrying streaming request")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
		content, err := c.streamOnce(ctx, prompt, opts, onChunk)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("deepseek: streaming request failed after %d attempt(s): %w", c.retries+1, lastErr)
}

func (c *Client) streamOnce(ctx context.Context, prompt string, opts SendOptions, onChunk func(string)) (string, error) {
	resp, err := c.post(ctx, prompt, opts, true)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return "", fmt.Errorf("deepseek: http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			return full.String(), nil
		}
		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Incomplete frame; the next line carries the rest.
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			full.WriteString(content)
			if onChunk != nil {
				onChunk(content)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("deepseek: read stream: %w", err)
	}
	return full.String(), nil
}

func (c *Client) post(ctx context.Context, prompt string, opts SendOptions, stream bool) (*http.Response, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = c.model
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.75
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	messages := make([]chatMessage, 0, 2)
	if opts.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: opts.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	payload := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      stream,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("deepseek: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("deepseek: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepseek: http request: %w", err)
	}
	return resp, nil
}
