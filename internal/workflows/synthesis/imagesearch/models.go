// internal/workflows/synthesis/imagesearch/models.go
package imagesearch

// Hit is a single stock-photo search result, normalized across providers.
type Hit struct {
	ID          string
	URL         string
	Description string
	Tags        []string
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}
