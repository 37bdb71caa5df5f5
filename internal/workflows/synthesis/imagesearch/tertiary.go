// internal/workflows/synthesis/imagesearch/tertiary.go
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"siteforge/internal/common/errors"
	"siteforge/internal/common/httpx"
)

// TertiaryClient queries the unsplash-style stock photo API, the last
// remote tier of the image fallback chain. Results go through the relevance
// scoring pass before use.
type TertiaryClient struct {
	config *Config
	client *httpx.Client
	logger Logger
}

func NewTertiaryClient(config *Config, log Logger) *TertiaryClient {
	return &TertiaryClient{
		config: config,
		client: httpx.NewClient(config.Timeout),
		logger: log.With(map[string]interface{}{
			"provider": "image-search-tertiary",
		}),
	}
}

type tertiaryResponse struct {
	Results []struct {
		ID   string `json:"id"`
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
		Description    string `json:"description"`
		AltDescription string `json:"alt_description"`
		Tags           []struct {
			Title string `json:"title"`
		} `json:"tags"`
	} `json:"results"`
}

// Search returns raw hits for the query in provider order. Callers rank
// them with RankHits.
func (c *TertiaryClient) Search(ctx context.Context, query string) ([]Hit, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(c.config.PageSize))
	params.Set("orientation", "landscape")

	reqURL := fmt.Sprintf("%s/search/photos?%s", c.config.TertiaryBaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, c.failure(err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.config.TertiaryAPIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failure(fmt.Errorf("status %d", resp.StatusCode))
	}

	var apiResp tertiaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, c.failure(err)
	}

	hits := make([]Hit, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		if r.URLs.Regular == "" {
			continue
		}
		desc := r.Description
		if desc == "" {
			desc = r.AltDescription
		}
		tags := make([]string, 0, len(r.Tags))
		for _, tag := range r.Tags {
			tags = append(tags, tag.Title)
		}
		hits = append(hits, Hit{
			ID:          r.ID,
			URL:         r.URLs.Regular,
			Description: desc,
			Tags:        tags,
		})
	}
	return hits, nil
}

func (c *TertiaryClient) failure(err error) *errors.StandardError {
	c.logger.Warn("tertiary image search failed", map[string]interface{}{
		"error": err.Error(),
	})
	return &errors.StandardError{
		Code:      errors.ErrCodeImageSearchFailed,
		Message:   "Tertiary image search failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
