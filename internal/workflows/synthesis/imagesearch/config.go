// internal/workflows/synthesis/imagesearch/config.go
package imagesearch

import "time"

type Config struct {
	SecondaryBaseURL string
	SecondaryAPIKey  string
	TertiaryBaseURL  string
	TertiaryAPIKey   string
	Timeout          time.Duration
	PageSize         int
}

func LoadConfig() *Config {
	return &Config{
		SecondaryBaseURL: "https://pixabay.com",
		TertiaryBaseURL:  "https://api.unsplash.com",
		Timeout:          15 * time.Second,
		PageSize:         20,
	}
}
