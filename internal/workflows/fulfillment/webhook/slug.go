// internal/workflows/fulfillment/webhook/slug.go
package webhook

import (
	"math/rand"
	"regexp"
	"strings"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	nonWordPattern    = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRunPattern  = regexp.MustCompile(`-+`)
)

// Slugify turns a company name into a URL-safe project slug: lowercase,
// spaces to hyphens, everything else stripped, hyphen runs collapsed.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = whitespacePattern.ReplaceAllString(slug, "-")
	slug = nonWordPattern.ReplaceAllString(slug, "")
	slug = hyphenRunPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
const suffixLength = 4

// ProjectName derives a hosting project name from the company name plus a
// short random suffix, so repeat purchases of the same name cannot collide.
func ProjectName(companyName string) string {
	slug := Slugify(companyName)
	if slug == "" {
		slug = "site"
	}

	suffix := make([]byte, suffixLength)
	for i := range suffix {
		suffix[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return slug + "-" + string(suffix)
}
