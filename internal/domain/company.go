package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// ProjectType separates new facilities from expansions of existing ones.
type ProjectType string

const (
	Greenfield         ProjectType = "Greenfield"
	Brownfield         ProjectType = "Brownfield"
	ProjectTypeUnknown ProjectType = "Unknown"
)

// ParseProjectType maps free-form model output onto a ProjectType.
func ParseProjectType(value string) ProjectType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "greenfield":
		return Greenfield
	case "brownfield":
		return Brownfield
	default:
		return ProjectTypeUnknown
	}
}

// Typed reports whether the project type is known.
func (p ProjectType) Typed() bool {
	return p == Greenfield || p == Brownfield
}

// Confidence is the model's certainty about an extracted record.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Defaults for optional extracted fields.
const (
	DefaultCoreIntent = "Construction Project"
	DefaultStage      = "Under Construction"
	DefaultTimeline   = "Not specified"
	DefaultSector     = "Other"
	DefaultDate       = "Recent"
	DefaultConfidence = ConfidenceMedium
)

// companyKeyIntentRunes bounds the core intent prefix in the company identity key.
const companyKeyIntentRunes = 30

// ExtractedCompany is one company record pulled out of an article.
type ExtractedCompany struct {
	CompanyName     string
	SourceLink      string
	CoreIntent      string
	Stage           string
	Timeline        string
	ProjectType     ProjectType
	Sector          string
	Confidence      Confidence
	IsPrivateSector bool
	ArticleTitle    string
	Source          string
	Date            string
}

// Admissible reports whether the record may enter ranking: a real company name
// and a private-sector project.
func (c ExtractedCompany) Admissible() bool {
	return ValidCompanyName(c.CompanyName) && c.IsPrivateSector
}

// ValidCompanyName rejects empty names and the literal "null" placeholder.
func ValidCompanyName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && !strings.EqualFold(name, "null")
}

// CompanyKey identifies the same lead across articles.
type CompanyKey struct {
	Name         string
	IntentPrefix string
}

// Key returns the de-duplication identity of the record.
func (c ExtractedCompany) Key() CompanyKey {
	intent := fold(c.CoreIntent)
	return CompanyKey{
		Name:         fold(c.CompanyName),
		IntentPrefix: prefixRunes(intent, companyKeyIntentRunes),
	}
}

// RankedCompany is an extracted record with its relevance score.
type RankedCompany struct {
	ExtractedCompany
	RelevanceScore int
}

// fold trims and case-folds a value. Casers carry state, so one is built per call.
func fold(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}
