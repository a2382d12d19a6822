package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

type AnthropicClient struct {
	apiKey         string
	baseURL        string
	model          string
	maxTokens      int
	requestTimeout time.Duration
	maxRetries     int
	retryBase      time.Duration
	http           *http.Client
}

func NewAnthropicClient(apiKey, baseURL, model string, maxTokens int, requestTimeout time.Duration, maxRetries int, retryBase time.Duration) *AnthropicClient {
	if maxTokens <= 0 {
		maxTokens = 300
	}
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if maxRetries > 5 {
		maxRetries = 5
	}
	if retryBase <= 0 {
		retryBase = 400 * time.Millisecond
	}

	return &AnthropicClient{
		apiKey:         apiKey,
		baseURL:        strings.TrimRight(baseURL, "/"),
		model:          model,
		maxTokens:      maxTokens,
		requestTimeout: requestTimeout,
		maxRetries:     maxRetries,
		retryBase:      retryBase,
		http: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("ANTHROPIC_API_KEY is required for anthropic provider")
	}
	ctx, cancel := contextWithDefaultTimeout(ctx, c.requestTimeout)
	defer cancel()

	requestBody := map[string]any{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.8,
		"top_p":       0.9,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")

		text, retryable, err := c.messagesOnce(req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable || attempt >= c.maxRetries {
			break
		}

		wait := retryDelay(c.retryBase, attempt)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", lastErr
}

func (c *AnthropicClient) messagesOnce(req *http.Request) (string, bool, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", false, err
		}
		return "", true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodySnippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		message := strings.TrimSpace(string(bodySnippet))
		if message == "" {
			message = fmt.Sprintf("status %d", resp.StatusCode)
		}
		err := fmt.Errorf("anthropic provider error: status=%d body=%s", resp.StatusCode, message)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", true, err
		}
		return "", false, err
	}

	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", true, err
	}
	if len(out.Content) == 0 {
		return "", true, errors.New("anthropic provider returned no content")
	}

	text := strings.TrimSpace(out.Content[0].Text)
	if text == "" {
		return "", true, errors.New("anthropic provider returned empty text")
	}
	return text, false, nil
}

func contextWithDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), timeout)
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func retryDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 400 * time.Millisecond
	}
	if attempt < 0 {
		attempt = 0
	}
	delay := base * time.Duration(1<<attempt)
	jitterScale := 0.8 + (rand.Float64() * 0.4)
	jittered := time.Duration(float64(delay) * jitterScale)
	if jittered < 50*time.Millisecond {
		return 50 * time.Millisecond
	}
	return jittered
}
