// internal/workflows/fulfillment/checkout/config.go
package checkout

import "time"

type Config struct {
	BaseURL    string
	SecretKey  string
	AppBaseURL string
	PriceCents int64
	Currency   string
	Timeout    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:    "https://api.stripe.com",
		PriceCents: 2000,
		Currency:   "usd",
		Timeout:    20 * time.Second,
	}
}
