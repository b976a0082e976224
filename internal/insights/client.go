package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 500 * time.Millisecond

	maxBodySize = 1 << 20 // 1 MB
)

var (
	// ErrNoAPIKey indicates that no API key is configured.
	ErrNoAPIKey = errors.New("insights: API key is not configured")
	// ErrEmptyResponse indicates a 2xx answer without any content.
	ErrEmptyResponse = errors.New("insights: empty response")
)

// HTTPError is a non-2xx answer of the completion endpoint.
type HTTPError struct {
	Body       string
	StatusCode int
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("insights: http %d", e.StatusCode)
	}
	return fmt.Sprintf("insights: http %d: %s", e.StatusCode, e.Body)
}

// Config configures the completion endpoint. Zero values take the defaults.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration // per attempt
	MaxAttempts int
	RetryDelay  time.Duration // doubled after every failed attempt
}

// Client requests insights from an OpenAI compatible chat completion API.
type Client struct {
	http   *http.Client
	logger *slog.Logger
	cfg    Config
}

// NewClient creates a client, filling unset config fields with defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: logger,
	}
}

// FinancialInsights asks the model for insights about snap. It never fails:
// after the attempts are exhausted, or as soon as a request times out, it
// returns a single fallback insight naming the reason.
func (c *Client) FinancialInsights(ctx context.Context, snap Snapshot) []Insight {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return Fallback(ErrNoAPIKey.Error())
	}

	prompt := BuildPrompt(snap)
	delay := c.cfg.RetryDelay

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		list, err := c.request(ctx, prompt)
		if err == nil {
			c.logger.Debug("Insights received", "attempt", attempt, "count", len(list))
			return list
		}
		lastErr = err

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
			c.logger.Warn("Insights request aborted", "attempt", attempt, "error", err)
			return Fallback("request timed out")
		}

		c.logger.Warn("Insights attempt failed", "attempt", attempt, "max_attempts", c.cfg.MaxAttempts, "error", err)

		if attempt < c.cfg.MaxAttempts {
			if err := waitWithContext(ctx, delay); err != nil {
				return Fallback("request timed out")
			}
			delay *= 2
		}
	}

	return Fallback(lastErr.Error())
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// request performs one completion call and parses the answer.
func (c *Client) request(ctx context.Context, prompt string) ([]Insight, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("insights: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("insights: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("insights: request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("insights: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyResponse
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, &ParseError{Reason: ReasonMalformed, Raw: string(body)}
	}
	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	return Parse(chat.Choices[0].Message.Content)
}

func waitWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
