// internal/workflows/synthesis/render/renderer.go

// Package render turns a generated site document into the single-page HTML
// bundle that gets staged and later deployed.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"siteforge/internal/models"
)

type pageData struct {
	Doc *models.SiteDocument

	// Image URIs and the brand color are typed so the template engine does
	// not reject generated data URIs or hex colors.
	Brand       template.CSS
	Tel         template.URL
	Hero        template.URL
	Industry    template.URL
	Credentials template.URL
	Work        []template.URL
}

// Renderer renders staged sites. Safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("site").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse site template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the complete HTML page for a site.
func (r *Renderer) Render(doc *models.SiteDocument, images *models.ImageSet) (string, error) {
	data := pageData{
		Doc:         doc,
		Brand:       template.CSS(doc.BrandColor),
		Tel:         template.URL("tel:" + doc.Phone),
		Hero:        template.URL(images.HeroBackground),
		Industry:    template.URL(images.IndustryValue),
		Credentials: template.URL(images.CredentialsShowcase),
	}
	for _, uri := range images.OurWork {
		if uri != "" {
			data.Work = append(data.Work, template.URL(uri))
		}
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render site: %w", err)
	}
	return buf.String(), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Doc.CompanyName}} | {{.Doc.Industry}} in {{.Doc.Location}}</title>
<style>
:root { --brand: {{.Brand}}; }
body { margin: 0; font-family: 'Segoe UI', system-ui, sans-serif; color: #1a202c; }
a.cta { background: var(--brand); color: #fff; padding: 14px 28px; border-radius: 8px; text-decoration: none; display: inline-block; font-weight: 600; }
section { padding: 64px 24px; max-width: 1100px; margin: 0 auto; }
.badge { color: var(--brand); text-transform: uppercase; letter-spacing: 2px; font-size: 13px; font-weight: 700; }
.hero { background: linear-gradient(rgba(0,0,0,.55), rgba(0,0,0,.55)), url('{{.Hero}}') center/cover; color: #fff; text-align: center; padding: 120px 24px; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(280px, 1fr)); gap: 24px; }
.card { border: 1px solid #e2e8f0; border-radius: 12px; padding: 24px; }
.emergency { background: var(--brand); color: #fff; text-align: center; }
.emergency a.cta { background: #fff; color: var(--brand); }
img.section-photo { width: 100%; border-radius: 12px; object-fit: cover; max-height: 420px; }
.work-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(240px, 1fr)); gap: 16px; }
.work-grid img { width: 100%; border-radius: 8px; aspect-ratio: 4/3; object-fit: cover; }
footer { text-align: center; padding: 32px; color: #718096; font-size: 14px; }
</style>
</head>
<body>

<header class="hero">
  <span class="badge">{{.Doc.Hero.Badge}}</span>
  <h1>{{.Doc.Hero.Headline.Line1}}<br>{{.Doc.Hero.Headline.Line2}}<br>{{.Doc.Hero.Headline.Line3}}</h1>
  <p>{{.Doc.Hero.Subtext}}</p>
  <a class="cta" href="{{.Tel}}">{{.Doc.CTAVariations.RequestQuote}} {{.Doc.Phone}}</a>
  <div class="cards">
  {{range .Doc.Hero.TrustIndicators}}
    <div><strong>{{.Label}}</strong><br><small>{{.Sublabel}}</small></div>
  {{end}}
  </div>
</header>

<section id="services">
  <span class="badge">{{.Doc.Services.Badge}}</span>
  <h2>{{.Doc.Services.Title}}</h2>
  <p>{{.Doc.Services.Subtitle}}</p>
  <div class="cards">
  {{range .Doc.Services.Cards}}
    <div class="card"><h3>{{.Title}}</h3><p>{{.Description}}</p></div>
  {{end}}
  </div>
</section>

<section id="industry-value">
  <img class="section-photo" src="{{.Industry}}" alt="{{.Doc.Industry}} work">
  <h2>{{.Doc.IndustryValue.Title}}</h2>
  <p>{{.Doc.IndustryValue.Content}}</p>
  <p><em>{{.Doc.IndustryValue.Subtext}}</em></p>
</section>

<section id="feature">
  <span class="badge">{{.Doc.FeatureHighlight.Badge}}</span>
  <h2>{{.Doc.FeatureHighlight.Headline}}</h2>
  <div class="cards">
  {{range .Doc.FeatureHighlight.Cards}}
    <div class="card"><h3>{{.Title}}</h3><p>{{.Description}}</p></div>
  {{end}}
  </div>
</section>

<section id="benefits">
  <h2>{{.Doc.Benefits.Title}}</h2>
  <p>{{.Doc.Benefits.Intro}}</p>
  <ul>
  {{range .Doc.Benefits.Items}}<li>{{.}}</li>{{end}}
  </ul>
  <a class="cta" href="{{.Tel}}">{{.Doc.CTAVariations.GetEstimate}} {{.Doc.Phone}}</a>
</section>

<section id="process">
  <span class="badge">{{.Doc.ProcessSteps.Badge}}</span>
  <h2>{{.Doc.ProcessSteps.Title}}</h2>
  <p>{{.Doc.ProcessSteps.Subtitle}}</p>
  <div class="cards">
  {{range $i, $step := .Doc.ProcessSteps.Steps}}
    <div class="card"><h3>{{$step.Title}}</h3><p>{{$step.Description}}</p></div>
  {{end}}
  </div>
</section>

<section id="faq">
  <h2>Frequently Asked Questions</h2>
  {{range .Doc.FAQs}}
  <div class="card"><h3>{{.Question}}</h3><p>{{.Answer}}</p></div>
  {{end}}
</section>

<section id="our-work">
  <h2>{{.Doc.OurWork.Title}}</h2>
  <p>{{.Doc.OurWork.Subtitle}}</p>
  <div class="work-grid">
  {{range .Work}}<img src="{{.}}" alt="Completed project">{{end}}
  </div>
</section>

<section class="emergency">
  <h2>{{.Doc.EmergencyCTA.Headline}}</h2>
  <p>{{.Doc.EmergencyCTA.Subtext}}</p>
  <a class="cta" href="{{.Tel}}">{{.Doc.EmergencyCTA.ButtonText}} {{.Doc.Phone}}</a>
</section>

<section id="credentials">
  <img class="section-photo" src="{{.Credentials}}" alt="Our team">
  <span class="badge">{{.Doc.Credentials.Badge}}</span>
  <h2>{{.Doc.Credentials.Headline}}</h2>
  <p>{{.Doc.Credentials.Description}}</p>
  <ul>
  {{range .Doc.Credentials.Items}}<li>{{.}}</li>{{end}}
  </ul>
  <p><small>{{.Doc.Credentials.CertificationText}}</small></p>
  <a class="cta" href="{{.Tel}}">{{.Doc.CTAVariations.SpeakWithTeam}} {{.Doc.Phone}}</a>
</section>

<footer>
  <p>{{.Doc.CompanyName}} &middot; {{.Doc.Location}} &middot; <a href="{{.Tel}}">{{.Doc.CTAVariations.CallAndText}} {{.Doc.Phone}}</a></p>
</footer>

</body>
</html>
`
