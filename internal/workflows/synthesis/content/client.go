// internal/workflows/synthesis/content/client.go
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"siteforge/internal/common/errors"
	"siteforge/internal/models"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

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
			"provider": "content",
		}),
	}
}

// Providers sometimes wrap the JSON payload in prose or code fences.
var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Generate asks the content provider for a complete site document and
// validates it before returning. Transport failures are retryable; a
// response that cannot be parsed into a valid document is not.
func (c *Client) Generate(ctx context.Context, req *models.GenerationRequest) (*models.SiteDocument, error) {
	prompt := buildPrompt(req)

	body, _ := json.Marshal(generateRequest{
		Contents: []contentBlock{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      c.config.Temperature,
			ResponseMimeType: "application/json",
		},
	})

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.config.BaseURL, c.config.Model, c.config.APIKey)

	raw, err := c.callWithRetry(ctx, url, body)
	if err != nil {
		return nil, err
	}

	doc, err := c.parseDocument(raw)
	if err != nil {
		return nil, err
	}

	doc.CompanyName = req.CompanyName
	doc.BrandColor = req.BrandColor
	doc.Industry = req.Industry
	doc.Location = req.ServiceArea
	doc.Phone = req.Phone

	if err := checkContract(doc); err != nil {
		return nil, errors.NewContentMalformedError(err.Error())
	}

	c.logger.Info("content document generated", map[string]interface{}{
		"companyName": req.CompanyName,
		"faqCount":    len(doc.FAQs),
	})
	return doc, nil
}

func (c *Client) callWithRetry(ctx context.Context, url string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(200*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, errors.NewContentCallFailedError(ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
		if err != nil {
			return nil, errors.NewContentCallFailedError(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.NewContentCallFailedError(ctx.Err())
			}
			lastErr = err
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
			c.logger.Warn("content provider call failed", map[string]interface{}{
				"attempt": attempt,
				"status":  resp.StatusCode,
			})
			continue
		}

		return respBody, nil
	}

	return nil, errors.NewContentCallFailedError(lastErr)
}

// parseDocument extracts the JSON document from the provider response.
// Any failure past a successful transport is a malformed-response error.
func (c *Client) parseDocument(raw []byte) (*models.SiteDocument, error) {
	var apiResp generateResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, errors.NewContentMalformedError(fmt.Sprintf("decode envelope: %v", err))
	}

	text := apiResp.text()
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewContentMalformedError("empty candidate text")
	}

	block := jsonBlockPattern.FindString(text)
	if block == "" {
		return nil, errors.NewContentMalformedError("no JSON object in candidate text")
	}

	if err := validateDocument([]byte(block)); err != nil {
		return nil, errors.NewContentMalformedError(err.Error())
	}

	var doc models.SiteDocument
	if err := json.Unmarshal([]byte(block), &doc); err != nil {
		return nil, errors.NewContentMalformedError(fmt.Sprintf("decode document: %v", err))
	}
	return &doc, nil
}

func buildPrompt(req *models.GenerationRequest) string {
	var parts []string

	parts = append(parts, fmt.Sprintf(
		"Generate complete marketing website copy for %s, a %s business serving %s.",
		req.CompanyName, req.Industry, req.ServiceArea))
	parts = append(parts, "Return ONLY a JSON object matching the agreed structure. No markdown, no commentary.")

	parts = append(parts, "\nStrict content rules:")
	parts = append(parts, "- Never mention contact forms, email addresses, or online booking. The business takes phone calls only.")
	parts = append(parts, fmt.Sprintf("- Every call to action directs visitors to call %s.", req.Phone))
	parts = append(parts, "- Avoid superlatives like best, number one, top-rated, or guaranteed.")
	parts = append(parts, fmt.Sprintf("- Mention the company name %s 3 to 4 times across the whole document, no more.", req.CompanyName))
	parts = append(parts, "- Write exactly 4 FAQ entries covering: service area coverage, pricing and estimates, scheduling and availability, licensing and insurance.")
	parts = append(parts, "- ctaVariations holds short action phrases only. Do NOT include the phone number in them; it is appended separately.")
	parts = append(parts, "- Keep the tone confident and local, grounded in the trade. No generic filler.")

	parts = append(parts, "\nStructure notes:")
	parts = append(parts, "- hero.headline has three short lines that read as one sentence.")
	parts = append(parts, "- services.cards: 6 cards, each with an icon keyword, title, and one-sentence description.")
	parts = append(parts, "- processSteps.steps: 3 steps from first call to finished job.")
	parts = append(parts, "- benefits.items: 5 short phrases.")
	parts = append(parts, "- credentials.items: 4 short phrases.")

	return strings.Join(parts, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
