// internal/llm/client.go
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"blogforge/internal/common/config"
	apperrors "blogforge/internal/common/errors"
	"blogforge/internal/common/logger"
	"blogforge/internal/common/observability"
)

var (
	ErrLLMTimeout     = errors.New("LLM_TIMEOUT")
	ErrLLMCallFailed  = errors.New("LLM_CALL_FAILED")
	ErrLLMParseFailed = errors.New("LLM_PARSE_FAILED")
)

// Client talks to an OpenAI-compatible chat completions API. Requests are
// streamed with a per-chunk watchdog; a stalled stream is aborted and retried
// once without streaming before the error taxonomy applies.
type Client struct {
	cfg    config.LLMConfig
	apiKey string
	client *http.Client
	logger logger.Logger
}

// NewClient reads the API key from the environment variable named in the
// config. A missing key is a credential error, not a degraded mode.
func NewClient(cfg config.LLMConfig, log logger.Logger) (*Client, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, apperrors.NewCredentialMissingError(cfg.APIKeyEnv)
	}

	return &Client{
		cfg:    cfg,
		apiKey: apiKey,
		client: &http.Client{
			// No HTTP client timeout - rely only on context
		},
		logger: log.WithFields(map[string]interface{}{"component": "llm"}),
	}, nil
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

// Complete sends a system+user prompt and returns the model's text. It first
// tries a streaming request guarded by the stall watchdog; if the stream
// stalls it falls back to a single non-streaming call.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(c.cfg.Timeout))
	defer cancel()

	text, err := c.completeStreaming(ctx, system, user)
	if err == nil {
		observability.RecordLLMCall("ok")
		return text, nil
	}

	if errors.Is(err, errStreamStalled) {
		c.logger.Warn("stream stalled, retrying without streaming", map[string]interface{}{
			"model": c.cfg.Model,
		})
		text, err = c.completeOnce(ctx, system, user)
		if err == nil {
			observability.RecordLLMCall("ok")
			return text, nil
		}
	}

	if errors.Is(err, ErrLLMTimeout) {
		observability.RecordLLMCall("timeout")
	} else {
		observability.RecordLLMCall("error")
	}
	return "", err
}

var errStreamStalled = errors.New("stream stalled")

func (c *Client) completeStreaming(ctx context.Context, system, user string) (string, error) {
	streamCtx, abort := context.WithCancel(ctx)
	defer abort()

	req, err := c.buildRequest(streamCtx, system, user, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLLMCallFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrLLMTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrLLMCallFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrLLMCallFailed, resp.StatusCode)
	}

	// Watchdog: abort the stream if no chunk arrives within the window.
	watchdog := time.AfterFunc(config.GetDuration(c.cfg.StreamWatchdog), abort)
	defer watchdog.Stop()

	var buf strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) > 0 {
			buf.WriteString(chunk.Choices[0].Delta.Content)
		}
		watchdog.Reset(config.GetDuration(c.cfg.StreamWatchdog))
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrLLMTimeout
		}
		if streamCtx.Err() != nil {
			return "", errStreamStalled
		}
		return "", fmt.Errorf("%w: %v", ErrLLMCallFailed, err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		if streamCtx.Err() != nil && ctx.Err() == nil {
			return "", errStreamStalled
		}
		return "", fmt.Errorf("%w: empty response", ErrLLMCallFailed)
	}
	return text, nil
}

func (c *Client) completeOnce(ctx context.Context, system, user string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			// Apply exponential backoff
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
				// Continue with retry
			case <-ctx.Done():
				return "", ErrLLMTimeout
			}
		}

		req, err := c.buildRequest(ctx, system, user, false)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrLLMCallFailed, err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ErrLLMTimeout
			}
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			if ctx.Err() != nil {
				return "", ErrLLMTimeout
			}
			continue
		}

		var apiResponse chatResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&apiResponse)
		resp.Body.Close()
		if decodeErr != nil {
			lastErr = fmt.Errorf("decode error: %v", decodeErr)
			continue
		}

		if len(apiResponse.Choices) == 0 {
			lastErr = errors.New("no choices in response")
			continue
		}

		text := strings.TrimSpace(apiResponse.Choices[0].Message.Content)
		if text == "" {
			lastErr = errors.New("empty completion")
			continue
		}
		return text, nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return "", ErrLLMTimeout
	}
	return "", fmt.Errorf("%w: %v", ErrLLMCallFailed, lastErr)
}

func (c *Client) buildRequest(ctx context.Context, system, user string, stream bool) (*http.Request, error) {
	body, _ := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Stream:      stream,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/v1/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}
