package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shelfsafe/pkg/logger"
)

// Client calls the Gemini generateContent endpoint. One instance is shared
// across requests; it holds no per-call state.
type Client struct {
	apiKey          string
	baseURL         string
	model           string
	temperature     float64
	maxOutputTokens int
	httpClient      *http.Client
	log             logger.Logger
}

type ClientConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
}

func NewClient(cfg ClientConfig, log logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 2048
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		apiKey:          cfg.APIKey,
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		model:           cfg.Model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		log:             log,
	}
}

// Retry policy: one initial call plus maxRetries on 429.
const (
	maxRetries      = 2
	backoffBase     = 600 * time.Millisecond
	backoffJitterMs = 250
)

// retryDelay computes the wait before retry number attempt (0-based).
// A server-supplied Retry-After hint (seconds) wins; otherwise exponential
// backoff from the base, doubling per attempt, plus up to 250ms jitter.
// Kept free of transport concerns so it is testable on its own.
func retryDelay(attempt int, serverHint string) time.Duration {
	if hint := strings.TrimSpace(serverHint); hint != "" {
		if secs, err := strconv.Atoi(hint); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	delay := backoffBase * time.Duration(1<<uint(attempt))
	return delay + time.Duration(rand.Intn(backoffJitterMs))*time.Millisecond
}

// generate posts the parts as a single user turn and returns the joined
// candidate text. Never returns partial output: either the full text or a
// classified error.
func (c *Client) generate(ctx context.Context, parts []geminiPart) (string, error) {
	if c.apiKey == "" {
		return "", serviceErr(KindUnavailable, "extraction service is not configured")
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	start := time.Now()
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Warnf("gemini request failed: %v", err)
			return "", serviceErr(KindUnavailable, "extraction service temporarily unavailable")
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return "", serviceErr(KindUnavailable, "extraction service temporarily unavailable")
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = serviceErr(KindBusy, "extraction service is busy, try again shortly")
			if attempt == maxRetries {
				break
			}
			delay := retryDelay(attempt, resp.Header.Get("Retry-After"))
			c.log.Debugf("gemini rate limited, retrying in %v (attempt %d)", delay, attempt+1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return "", classifyStatus(resp.StatusCode, body)
		}

		var gr geminiResponse
		if err := json.Unmarshal(body, &gr); err != nil {
			return "", serviceErr(KindMalformed, "malformed model output")
		}
		if gr.Error != nil {
			if gr.Error.Status == "RESOURCE_EXHAUSTED" {
				return "", serviceErr(KindBusy, "extraction service is busy, try again shortly")
			}
			return "", serviceErr(KindUpstream, "extraction failed (%d): %s", gr.Error.Code, gr.Error.Message)
		}
		if len(gr.Candidates) == 0 {
			return "", serviceErr(KindMalformed, "malformed model output")
		}

		texts := make([]string, 0, len(gr.Candidates[0].Content.Parts))
		for _, p := range gr.Candidates[0].Content.Parts {
			texts = append(texts, p.Text)
		}
		out := strings.TrimSpace(strings.Join(texts, "\n"))
		c.log.Debugf("gemini call completed in %v, response_len=%d", time.Since(start), len(out))
		return out, nil
	}

	c.log.Warnf("gemini retries exhausted after %v: %v", time.Since(start), lastErr)
	return "", lastErr
}

// classifyStatus maps a fatal non-2xx response to a user-safe error.
func classifyStatus(status int, body []byte) error {
	if status == http.StatusTooManyRequests || strings.Contains(string(body), "RESOURCE_EXHAUSTED") {
		return serviceErr(KindBusy, "extraction service is busy, try again shortly")
	}
	if status >= 500 {
		return serviceErr(KindUnavailable, "extraction service temporarily unavailable")
	}
	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return serviceErr(KindUpstream, "extraction failed with status %d: %s", status, detail)
}
