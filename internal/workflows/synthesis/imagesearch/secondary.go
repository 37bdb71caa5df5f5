// internal/workflows/synthesis/imagesearch/secondary.go
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

// SecondaryClient queries the pixabay-style stock photo API, the second tier
// of the image fallback chain.
type SecondaryClient struct {
	config *Config
	client *httpx.Client
	logger Logger
}

func NewSecondaryClient(config *Config, log Logger) *SecondaryClient {
	return &SecondaryClient{
		config: config,
		client: httpx.NewClient(config.Timeout),
		logger: log.With(map[string]interface{}{
			"provider": "image-search-secondary",
		}),
	}
}

type secondaryResponse struct {
	Hits []struct {
		ID            int64  `json:"id"`
		LargeImageURL string `json:"largeImageURL"`
		Tags          string `json:"tags"`
	} `json:"hits"`
}

// Search returns the first matching photo URL, or an empty string when the
// provider has nothing for the query.
func (c *SecondaryClient) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("key", c.config.SecondaryAPIKey)
	params.Set("q", query)
	params.Set("image_type", "photo")
	params.Set("orientation", "horizontal")
	params.Set("per_page", strconv.Itoa(c.config.PageSize))

	reqURL := fmt.Sprintf("%s/api/?%s", c.config.SecondaryBaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", c.failure(err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.failure(fmt.Errorf("status %d", resp.StatusCode))
	}

	var apiResp secondaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", c.failure(err)
	}

	for _, hit := range apiResp.Hits {
		if hit.LargeImageURL != "" {
			return hit.LargeImageURL, nil
		}
	}
	return "", nil
}

func (c *SecondaryClient) failure(err error) *errors.StandardError {
	c.logger.Warn("secondary image search failed", map[string]interface{}{
		"error": err.Error(),
	})
	return &errors.StandardError{
		Code:      errors.ErrCodeImageSearchFailed,
		Message:   "Secondary image search failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
