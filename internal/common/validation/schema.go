// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateJSON validates a raw JSON document against a JSON schema string.
// Returns a single error listing every violated constraint.
func ValidateJSON(schemaJSON string, document []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("schema violations: %s", strings.Join(messages, "; "))
	}

	return nil
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// ContainsEmail reports whether text contains anything that looks like an
// email address.
func ContainsEmail(text string) bool {
	return emailPattern.MatchString(text)
}

var phoneStripPattern = regexp.MustCompile(`[^\d]`)

// ContainsPhone reports whether text contains the given phone number,
// comparing digits only so formatting differences do not hide a match.
func ContainsPhone(text, phone string) bool {
	digits := phoneStripPattern.ReplaceAllString(phone, "")
	if len(digits) < 7 {
		return false
	}
	textDigits := phoneStripPattern.ReplaceAllString(text, "")
	return strings.Contains(textDigits, digits)
}

// ValidatePhone validates basic phone number format
func ValidatePhone(phone string) bool {
	phonePattern := regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
	return phonePattern.MatchString(phone)
}

// ValidateURL validates URL format
func ValidateURL(url string) bool {
	urlPattern := regexp.MustCompile(`^(https?)://[^\s/$.?#].[^\s]*$`)
	return urlPattern.MatchString(url)
}
