// internal/workflows/synthesis/imagegen/client.go
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"siteforge/internal/common/errors"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Client talks to the generative image provider. It is the primary image
// source; callers treat any failure here as a signal to fall back, never as
// a fatal error.
type Client struct {
	config *Config
	client *http.Client
	logger Logger
}

func NewClient(config *Config, log Logger) *Client {
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: log.With(map[string]interface{}{
			"provider": "image-gen",
		}),
	}
}

type generateRequest struct {
	Contents         []contentBlock `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

type contentBlock struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate produces one image for the prompt and returns it as a data URI.
// Returns an empty string with an error on any failure.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var body generateRequest
	body.Contents = []contentBlock{{Parts: []requestPart{{Text: prompt}}}}
	body.GenerationConfig.ResponseModalities = []string{"IMAGE"}

	payload, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.config.BaseURL, c.config.Model, c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return "", c.failure(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.failure(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.failure(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", c.failure(fmt.Errorf("status %d", resp.StatusCode))
	}

	var apiResp generateResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", c.failure(err)
	}

	for _, cand := range apiResp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				mime := part.InlineData.MimeType
				if mime == "" {
					mime = "image/png"
				}
				return fmt.Sprintf("data:%s;base64,%s", mime, part.InlineData.Data), nil
			}
		}
	}

	return "", c.failure(fmt.Errorf("no image in response"))
}

func (c *Client) failure(err error) *errors.StandardError {
	c.logger.Warn("image generation failed", map[string]interface{}{
		"error": err.Error(),
	})
	return &errors.StandardError{
		Code:      errors.ErrCodeImageGenerationFailed,
		Message:   "Generative image provider failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
