package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// KeyEnv names the environment variable holding the Stability API key. It is
// read on every call, never cached.
const KeyEnv = "STABILITY_KEY"

var ErrMissingKey = errors.New(KeyEnv + " is not set")

const defaultImageTimeout = 120 * time.Second

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type textToImageRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Samples     int          `json:"samples"`
}

type textToImageResponse struct {
	Artifacts []Artifact `json:"artifacts"`
}

type apiError struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// StabilityClient calls the Stability AI REST text-to-image endpoint.
type StabilityClient struct {
	host   string
	engine string
	client *http.Client
}

func NewStabilityClient(host, engine string) *StabilityClient {
	return &StabilityClient{
		host:   strings.TrimRight(host, "/"),
		engine: engine,
		client: &http.Client{Timeout: defaultImageTimeout},
	}
}

func (c *StabilityClient) Generate(ctx context.Context, req Request) ([]Artifact, error) {
	key := os.Getenv(KeyEnv)
	if key == "" {
		return nil, ErrMissingKey
	}

	body, err := json.Marshal(textToImageRequest{
		TextPrompts: []textPrompt{{Text: req.Prompt, Weight: 1}},
		Height:      req.Height,
		Width:       req.Width,
		Samples:     req.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/generation/%s/text-to-image", c.host, c.engine)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("stability: %s: %s (status %d)", apiErr.Name, apiErr.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("stability: request failed with status %d: %s", resp.StatusCode, string(raw))
	}

	var result textToImageResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Artifacts, nil
}
