// internal/models/site.go
package models

// SiteDocument is the complete generated content for one marketing site.
// Produced once by the synthesis orchestrator and owned by its caller;
// downstream steps never mutate it.
type SiteDocument struct {
	CompanyName string `json:"companyName"`
	BrandColor  string `json:"brandColor"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
	Phone       string `json:"phone"`

	Hero             Hero             `json:"hero"`
	Services         Services         `json:"services"`
	IndustryValue    IndustryValue    `json:"industryValue"`
	FeatureHighlight FeatureHighlight `json:"featureHighlight"`
	Benefits         Benefits         `json:"benefits"`
	ProcessSteps     ProcessSteps     `json:"processSteps"`
	FAQs             []FAQ            `json:"faqs"`
	OurWork          OurWork          `json:"ourWork"`
	EmergencyCTA     EmergencyCTA     `json:"emergencyCTA"`
	Credentials      Credentials      `json:"credentials"`
	CTAVariations    CTAVariations    `json:"ctaVariations"`
}

type Hero struct {
	Badge           string           `json:"badge"`
	Headline        Headline         `json:"headline"`
	Subtext         string           `json:"subtext"`
	TrustIndicators []TrustIndicator `json:"trustIndicators"`
}

type Headline struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
	Line3 string `json:"line3"`
}

type TrustIndicator struct {
	Icon     string `json:"icon"`
	Label    string `json:"label"`
	Sublabel string `json:"sublabel"`
}

type Services struct {
	Badge    string `json:"badge"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Cards    []Card `json:"cards"`
}

type Card struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type IndustryValue struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Subtext string `json:"subtext"`
}

type FeatureHighlight struct {
	Badge    string `json:"badge"`
	Headline string `json:"headline"`
	Cards    []Card `json:"cards"`
}

type Benefits struct {
	Title string   `json:"title"`
	Intro string   `json:"intro"`
	Items []string `json:"items"`
}

type ProcessSteps struct {
	Badge    string        `json:"badge"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Steps    []ProcessStep `json:"steps"`
}

type ProcessStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type OurWork struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type EmergencyCTA struct {
	Headline   string `json:"headline"`
	Subtext    string `json:"subtext"`
	ButtonText string `json:"buttonText"`
}

type Credentials struct {
	Badge             string   `json:"badge"`
	Headline          string   `json:"headline"`
	Description       string   `json:"description"`
	Items             []string `json:"items"`
	CertificationText string   `json:"certificationText"`
}

// CTAVariations holds the four action phrasings. Action phrase only; the
// renderer appends the phone number.
type CTAVariations struct {
	RequestQuote  string `json:"requestQuote"`
	GetEstimate   string `json:"getEstimate"`
	SpeakWithTeam string `json:"speakWithTeam"`
	CallAndText   string `json:"callAndText"`
}

// OurWorkSlots is the fixed-size portfolio slot count.
const OurWorkSlots = 4

// ImageSet holds every resolved image reference for a site. The three named
// slots are required and always resolve to some URI; the portfolio slots are
// optional and may stay empty until the user uploads replacements.
type ImageSet struct {
	HeroBackground      string               `json:"heroBackground"`
	IndustryValue       string               `json:"industryValue"`
	CredentialsShowcase string               `json:"credentialsShowcase"`
	OurWork             [OurWorkSlots]string `json:"ourWorkImages"`
}

// StagedSite pairs a generated document with its rendered markup, keyed by
// the generation identifier, awaiting payment before permanent deployment.
type StagedSite struct {
	PendingID string       `json:"pendingId"`
	Document  SiteDocument `json:"document"`
	Images    ImageSet     `json:"images"`
	HTML      string       `json:"-"`
}
