// internal/workflows/fulfillment/analytics/client.go

// Package analytics reports purchase conversions to the ad platform's
// server-side events endpoint. Strictly best-effort: nothing here may fail
// a fulfillment.
package analytics

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"siteforge/internal/models"
)

type Config struct {
	Enabled     bool
	BaseURL     string
	PixelID     string
	AccessToken string
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BaseURL: "https://graph.facebook.com/v18.0",
		Timeout: 10 * time.Second,
	}
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
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
			"component": "analytics",
		}),
	}
}

type eventsRequest struct {
	Data []conversionEvent `json:"data"`
}

type conversionEvent struct {
	EventName    string   `json:"event_name"`
	EventTime    int64    `json:"event_time"`
	ActionSource string   `json:"action_source"`
	UserData     userData `json:"user_data"`
	CustomData   struct {
		Currency string  `json:"currency"`
		Value    float64 `json:"value"`
	} `json:"custom_data"`
}

type userData struct {
	EmailHashes     []string `json:"em,omitempty"`
	ClientIPAddress string   `json:"client_ip_address,omitempty"`
	ClientUserAgent string   `json:"client_user_agent,omitempty"`
}

// ReportPurchase sends one Purchase event for a completed payment. The
// email is normalized and hashed before it leaves the process. Errors are
// logged and swallowed.
func (c *Client) ReportPurchase(ctx context.Context, event *models.PaymentEvent) {
	if !c.config.Enabled || c.config.PixelID == "" {
		return
	}

	var conv conversionEvent
	conv.EventName = "Purchase"
	conv.EventTime = time.Now().Unix()
	conv.ActionSource = "website"
	conv.UserData = userData{
		ClientIPAddress: event.ClientIP,
		ClientUserAgent: event.UserAgent,
	}
	if event.CustomerEmail != "" {
		conv.UserData.EmailHashes = []string{HashEmail(event.CustomerEmail)}
	}
	conv.CustomData.Currency = "USD"
	conv.CustomData.Value = event.Amount

	payload, _ := json.Marshal(eventsRequest{Data: []conversionEvent{conv}})
	url := fmt.Sprintf("%s/%s/events?access_token=%s", c.config.BaseURL, c.config.PixelID, c.config.AccessToken)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		c.logger.Warn("conversion report skipped", map[string]interface{}{"error": err.Error()})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("conversion report failed", map[string]interface{}{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("conversion report rejected", map[string]interface{}{"status": resp.StatusCode})
		return
	}

	c.logger.Info("purchase reported", map[string]interface{}{
		"pendingId": event.PendingID,
		"value":     event.Amount,
	})
}

// HashEmail normalizes and hashes an email the way the events endpoint
// expects: trimmed, lowercased, SHA-256 hex.
func HashEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
