// Package insight extracts structured business insights and conversational
// answers from website content using an LLM.
package insight

// ContactInfo holds contact details discovered in page content.
type ContactInfo struct {
	Emails      []string `json:"emails,omitempty"`
	Phones      []string `json:"phones,omitempty"`
	SocialMedia []string `json:"social_media,omitempty"`
}

// BusinessInsights is the seven-field business summary extracted by default.
// Missing fields carry the "Not specified" sentinel or are empty.
type BusinessInsights struct {
	Industry         string       `json:"industry,omitempty"`
	CompanySize      string       `json:"company_size,omitempty"`
	Location         string       `json:"location,omitempty"`
	USP              string       `json:"usp,omitempty"`
	ProductsServices string       `json:"products_services,omitempty"`
	TargetAudience   string       `json:"target_audience,omitempty"`
	ContactInfo      *ContactInfo `json:"contact_info,omitempty"`
}

// ResultKind discriminates the variants of an extraction Result.
type ResultKind string

const (
	// KindStructured means the model returned the parsed insight shape.
	KindStructured ResultKind = "structured"
	// KindRaw means the default-mode response failed JSON parsing and the
	// raw model text is carried instead.
	KindRaw ResultKind = "raw"
	// KindAnswers means custom questions were asked and the free-text
	// answers are carried verbatim.
	KindAnswers ResultKind = "answers"
)

// Result is the outcome of an extraction call. Exactly one variant is set,
// indicated by Kind, so callers handle the fallback shapes explicitly.
type Result struct {
	Kind       ResultKind
	Structured *BusinessInsights
	Raw        string
	Answers    string
}

// Turn is one prior query/response pair of a conversation.
type Turn struct {
	Query    string
	Response string
}
