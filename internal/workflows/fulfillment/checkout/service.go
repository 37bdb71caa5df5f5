// internal/workflows/fulfillment/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"siteforge/internal/common/errors"
	"siteforge/internal/models"
)

// StagedChecker verifies a pending site exists before money changes hands.
type StagedChecker interface {
	GetHTML(ctx context.Context, pendingID string) (string, error)
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Service creates hosted checkout sessions with the payment provider. The
// context envelope rides in session metadata; the provider is never used
// as a data store beyond that.
type Service struct {
	config *Config
	staged StagedChecker
	client *http.Client
	logger Logger
}

func NewService(config *Config, staged StagedChecker, log Logger) *Service {
	return &Service{
		config: config,
		staged: staged,
		client: &http.Client{Timeout: config.Timeout},
		logger: log.With(map[string]interface{}{
			"component": "checkout",
		}),
	}
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateSession verifies the staged bundle, then opens a subscription
// checkout session and returns its redirect URL.
func (s *Service) CreateSession(ctx context.Context, envelope models.CheckoutContext) (string, error) {
	if envelope.PendingID == "" {
		return "", errors.NewMissingReferenceError("pendingId is required")
	}
	if _, err := s.staged.GetHTML(ctx, envelope.PendingID); err != nil {
		return "", errors.NewMissingReferenceError(
			fmt.Sprintf("no staged site for pendingId %s: %v", envelope.PendingID, err))
	}

	productName := fmt.Sprintf("%s Website Hosting", envelope.CompanyName)
	successURL := fmt.Sprintf(
		"%s?status=success&pendingId=%s&companyName=%s&session_id={CHECKOUT_SESSION_ID}",
		s.config.AppBaseURL, url.QueryEscape(envelope.PendingID), url.QueryEscape(envelope.CompanyName))
	cancelURL := fmt.Sprintf("%s?status=cancelled", s.config.AppBaseURL)

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", s.config.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(s.config.PriceCents, 10))
	form.Set("line_items[0][price_data][recurring][interval]", "month")
	form.Set("line_items[0][price_data][product_data][name]", productName)
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	for k, v := range envelope.ToMetadata() {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		s.config.BaseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.NewCheckoutFailedError(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.config.SecretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.NewCheckoutFailedError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewCheckoutFailedError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.NewCheckoutFailedError(
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return "", errors.NewCheckoutFailedError(err)
	}
	if session.URL == "" {
		return "", errors.NewCheckoutFailedError(fmt.Errorf("session %s has no redirect url", session.ID))
	}

	s.logger.Info("checkout session created", map[string]interface{}{
		"pendingId": envelope.PendingID,
		"sessionId": session.ID,
	})
	return session.URL, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
