package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultGeminiModel is the model used when none is configured.
	DefaultGeminiModel = "gemini-2.5-flash"
	// DefaultMaxRPM caps Gemini calls per minute.
	DefaultMaxRPM = 30
	// defaultMinDelay spaces consecutive calls.
	defaultMinDelay = 500 * time.Millisecond

	generationTemperature = 0.05
	generationMaxTokens   = 16384
)

// GeminiClient talks to the Gemini generateContent REST API. Calls are
// serialized through a min-delay limiter and a per-minute sliding window.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string

	httpClient *http.Client
	minDelay   *rate.Limiter
	window     *SlidingWindowLimiter
	log        *slog.Logger
}

// GeminiOption customizes the client.
type GeminiOption func(*GeminiClient)

// WithGeminiModel overrides the model name.
func WithGeminiModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithGeminiBaseURL points the client at a different endpoint. Used by
// tests to target a local server.
func WithGeminiBaseURL(baseURL string) GeminiOption {
	return func(c *GeminiClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithGeminiMaxRPM overrides the per-minute call cap.
func WithGeminiMaxRPM(maxRPM int) GeminiOption {
	return func(c *GeminiClient) {
		if maxRPM > 0 {
			c.window = NewSlidingWindowLimiter(maxRPM)
		}
	}
}

// WithGeminiHTTPClient swaps the HTTP client.
func WithGeminiHTTPClient(hc *http.Client) GeminiOption {
	return func(c *GeminiClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewGeminiClient creates a Gemini REST client.
func NewGeminiClient(apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	c := &GeminiClient{
		apiKey:     apiKey,
		model:      DefaultGeminiModel,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		minDelay:   rate.NewLimiter(rate.Every(defaultMinDelay), 1),
		window:     NewSlidingWindowLimiter(DefaultMaxRPM),
		log:        slog.Default().With("component", "gemini"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements Provider.
func (c *GeminiClient) Name() string { return "gemini" }

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateJSON implements Provider. Both limiters are consulted before the
// request goes out.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	if err := c.minDelay.Wait(ctx); err != nil {
		return "", err
	}
	if err := c.window.Wait(ctx); err != nil {
		return "", err
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      generationTemperature,
			MaxOutputTokens:  generationMaxTokens,
			ResponseMimeType: "application/json",
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("gemini: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr geminiResponse
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil {
			msg = apiErr.Error.Message
		}
		return "", fmt.Errorf("gemini: API error %d: %s", resp.StatusCode, msg)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}

	c.log.Debug("generate complete",
		"model", c.model,
		"duration_ms", time.Since(started).Milliseconds(),
		"response_bytes", len(text),
	)
	return text, nil
}
