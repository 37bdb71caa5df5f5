// internal/workflows/synthesis/content/config.go
package content

import "time"

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64
}

func LoadConfig() *Config {
	return &Config{
		Model:       "gemini-2.0-flash",
		Timeout:     60 * time.Second,
		MaxRetries:  2,
		Temperature: 0.7,
	}
}
