// internal/workflows/synthesis/content/contract.go
package content

import (
	"encoding/json"
	"fmt"

	"siteforge/internal/common/validation"
	"siteforge/internal/models"
)

// checkContract enforces the content rules the prompt states but the schema
// cannot express: no email addresses anywhere, and CTA phrases that do not
// already embed the phone number the renderer appends.
func checkContract(doc *models.SiteDocument) error {
	flat, _ := json.Marshal(doc)
	if validation.ContainsEmail(string(flat)) {
		return fmt.Errorf("document contains an email address")
	}

	ctas := []string{
		doc.CTAVariations.RequestQuote,
		doc.CTAVariations.GetEstimate,
		doc.CTAVariations.SpeakWithTeam,
		doc.CTAVariations.CallAndText,
	}
	for _, phrase := range ctas {
		if validation.ContainsPhone(phrase, doc.Phone) {
			return fmt.Errorf("CTA phrase embeds the phone number: %q", phrase)
		}
	}
	return nil
}
