// internal/workflows/synthesis/content/schema.go
package content

import "siteforge/internal/common/validation"

// documentSchema pins down the shape the renderer depends on. Sections the
// renderer reads unconditionally are required; string lengths are left to
// the prompt.
const documentSchema = `{
	"type": "object",
	"required": ["hero", "services", "industryValue", "featureHighlight", "benefits", "processSteps", "faqs", "ourWork", "emergencyCTA", "credentials", "ctaVariations"],
	"properties": {
		"hero": {
			"type": "object",
			"required": ["badge", "headline", "subtext", "trustIndicators"],
			"properties": {
				"headline": {
					"type": "object",
					"required": ["line1", "line2", "line3"]
				},
				"trustIndicators": {
					"type": "array",
					"minItems": 1,
					"items": {
						"type": "object",
						"required": ["icon", "label", "sublabel"]
					}
				}
			}
		},
		"services": {
			"type": "object",
			"required": ["badge", "title", "subtitle", "cards"],
			"properties": {
				"cards": {
					"type": "array",
					"minItems": 1,
					"items": {
						"type": "object",
						"required": ["icon", "title", "description"]
					}
				}
			}
		},
		"industryValue": {
			"type": "object",
			"required": ["title", "content", "subtext"]
		},
		"featureHighlight": {
			"type": "object",
			"required": ["badge", "headline", "cards"]
		},
		"benefits": {
			"type": "object",
			"required": ["title", "intro", "items"],
			"properties": {
				"items": {"type": "array", "minItems": 1, "items": {"type": "string"}}
			}
		},
		"processSteps": {
			"type": "object",
			"required": ["badge", "title", "subtitle", "steps"],
			"properties": {
				"steps": {
					"type": "array",
					"minItems": 1,
					"items": {
						"type": "object",
						"required": ["title", "description", "icon"]
					}
				}
			}
		},
		"faqs": {
			"type": "array",
			"minItems": 4,
			"maxItems": 4,
			"items": {
				"type": "object",
				"required": ["question", "answer"]
			}
		},
		"ourWork": {
			"type": "object",
			"required": ["title", "subtitle"]
		},
		"emergencyCTA": {
			"type": "object",
			"required": ["headline", "subtext", "buttonText"]
		},
		"credentials": {
			"type": "object",
			"required": ["badge", "headline", "description", "items", "certificationText"]
		},
		"ctaVariations": {
			"type": "object",
			"required": ["requestQuote", "getEstimate", "speakWithTeam", "callAndText"]
		}
	}
}`

func validateDocument(document []byte) error {
	return validation.ValidateJSON(documentSchema, document)
}
