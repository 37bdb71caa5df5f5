// internal/workflows/synthesis/render/renderer_test.go
package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteforge/internal/models"
)

func testDocument() *models.SiteDocument {
	return &models.SiteDocument{
		CompanyName: "Apex Plumbing",
		BrandColor:  "#1d4ed8",
		Industry:    "Plumbing",
		Location:    "Denver, CO",
		Phone:       "(303) 555-0142",
		Hero: models.Hero{
			Badge:    "Licensed and Insured",
			Headline: models.Headline{Line1: "Plumbing done", Line2: "right the", Line3: "first time"},
			Subtext:  "Serving Denver homes.",
			TrustIndicators: []models.TrustIndicator{
				{Icon: "shield", Label: "Licensed", Sublabel: "Colorado"},
			},
		},
		Services: models.Services{
			Badge: "What We Do", Title: "Our Services", Subtitle: "Leaks to remodels.",
			Cards: []models.Card{{Icon: "wrench", Title: "Drain Cleaning", Description: "Clear any clog."}},
		},
		IndustryValue:    models.IndustryValue{Title: "Why it matters", Content: "Water damage is costly.", Subtext: "Act early."},
		FeatureHighlight: models.FeatureHighlight{Badge: "Featured", Headline: "Emergency service"},
		Benefits:         models.Benefits{Title: "Why us", Intro: "Straight talk.", Items: []string{"Upfront pricing"}},
		ProcessSteps: models.ProcessSteps{
			Badge: "Process", Title: "Three steps", Subtitle: "Call to done.",
			Steps: []models.ProcessStep{{Title: "Call", Description: "Tell us the problem.", Icon: "phone"}},
		},
		FAQs: []models.FAQ{
			{Question: "What areas do you serve?", Answer: "Denver metro."},
			{Question: "How do estimates work?", Answer: "Free by phone."},
			{Question: "How soon can you come?", Answer: "Same day."},
			{Question: "Licensed and insured?", Answer: "Fully."},
		},
		OurWork:      models.OurWork{Title: "Our Work", Subtitle: "Recent jobs."},
		EmergencyCTA: models.EmergencyCTA{Headline: "Pipe burst?", Subtext: "We answer.", ButtonText: "Call Now"},
		Credentials: models.Credentials{
			Badge: "Credentials", Headline: "Trusted locally", Description: "A decade in.",
			Items: []string{"Master plumber"}, CertificationText: "License #12345",
		},
		CTAVariations: models.CTAVariations{
			RequestQuote:  "Request a quote",
			GetEstimate:   "Get your estimate",
			SpeakWithTeam: "Speak with our team",
			CallAndText:   "Call or text us",
		},
	}
}

func testImages() *models.ImageSet {
	return &models.ImageSet{
		HeroBackground:      "data:image/png;base64,iVBORw0KGgo=",
		IndustryValue:       "https://img.example/value.jpg",
		CredentialsShowcase: "https://img.example/creds.jpg",
		OurWork:             [models.OurWorkSlots]string{"https://img.example/w1.jpg", "", "", ""},
	}
}

func TestRenderer_Render_CompletePage(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	html, err := renderer.Render(testDocument(), testImages())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "Apex Plumbing")
	assert.Contains(t, html, "--brand: #1d4ed8")
	assert.Contains(t, html, "Drain Cleaning")
	assert.Contains(t, html, "What areas do you serve?")
	assert.Contains(t, html, "Pipe burst?")
}

func TestRenderer_Render_PreservesDataURIs(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	html, err := renderer.Render(testDocument(), testImages())
	require.NoError(t, err)

	assert.Contains(t, html, "data:image/png;base64,iVBORw0KGgo=")
	assert.NotContains(t, html, "ZgotmplZ", "template engine must not reject any image URI")
}

func TestRenderer_Render_CTAsCarryPhone(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	html, err := renderer.Render(testDocument(), testImages())
	require.NoError(t, err)

	assert.Contains(t, html, `href="tel:(303) 555-0142"`)
	assert.Contains(t, html, "Request a quote (303) 555-0142")
	assert.Contains(t, html, "Call or text us (303) 555-0142")
}

func TestRenderer_Render_SkipsEmptyWorkSlots(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	html, err := renderer.Render(testDocument(), testImages())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(html, `alt="Completed project"`))
}

func TestRenderer_Render_EscapesUserContent(t *testing.T) {
	doc := testDocument()
	doc.Hero.Subtext = `<script>alert("x")</script>`
	renderer, err := NewRenderer()
	require.NoError(t, err)

	html, err := renderer.Render(doc, testImages())
	require.NoError(t, err)

	assert.NotContains(t, html, `<script>alert`)
}
