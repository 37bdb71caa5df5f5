// internal/workflows/fulfillment/deploy/config.go
package deploy

import "time"

type Config struct {
	BaseURL string
	Token   string
	TeamID  string
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BaseURL: "https://api.vercel.com",
		Timeout: 60 * time.Second,
	}
}
