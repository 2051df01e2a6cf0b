package usecase

import (
	"strconv"
	"strings"
	"time"

	"CompanyScout/internal/domain"
)

const (
	// NoResultsTSV is returned instead of an empty document.
	NoResultsTSV = "No companies found"
	// MIMEType of the exported artifact.
	MIMEType = "text/tab-separated-values"
)

// TSVOptions toggles optional export columns.
type TSVOptions struct {
	IncludeTimeline bool
}

type column struct {
	header string
	value  func(c domain.RankedCompany) string
}

var (
	timelineColumn = column{"Detailed Timeline", func(c domain.RankedCompany) string { return c.Timeline }}

	leadingColumns = []column{
		{"Company Name", func(c domain.RankedCompany) string { return c.CompanyName }},
		{"Source Link", func(c domain.RankedCompany) string { return c.SourceLink }},
		{"Core Intent", func(c domain.RankedCompany) string { return c.CoreIntent }},
		{"Stage", func(c domain.RankedCompany) string { return c.Stage }},
	}
	trailingColumns = []column{
		{"Project Type", func(c domain.RankedCompany) string { return string(c.ProjectType) }},
		{"Sector", func(c domain.RankedCompany) string { return c.Sector }},
		{"Confidence", func(c domain.RankedCompany) string { return string(c.Confidence) }},
		{"Private Sector", func(c domain.RankedCompany) string { return yesNo(c.IsPrivateSector) }},
		{"Relevance Score", func(c domain.RankedCompany) string { return strconv.Itoa(c.RelevanceScore) }},
		{"Article Title", func(c domain.RankedCompany) string { return c.ArticleTitle }},
		{"Source", func(c domain.RankedCompany) string { return c.Source }},
		{"Date", func(c domain.RankedCompany) string { return c.Date }},
	}

	fieldSanitizer = strings.NewReplacer("\r\n", " ", "\t", " ", "\n", " ", "\r", " ")
)

// TSVHeader lists the export columns in order.
func TSVHeader(opts TSVOptions) []string {
	cols := columns(opts)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.header
	}
	return header
}

// ToTSV renders ranked companies as a tab-separated document. Tabs and line
// breaks inside values become single spaces so every row keeps its shape.
func ToTSV(companies []domain.RankedCompany, opts TSVOptions) string {
	if len(companies) == 0 {
		return NoResultsTSV
	}

	cols := columns(opts)
	lines := make([]string, 0, len(companies)+1)
	lines = append(lines, strings.Join(TSVHeader(opts), "\t"))

	fields := make([]string, len(cols))
	for _, c := range companies {
		for i, col := range cols {
			fields[i] = fieldSanitizer.Replace(col.value(c))
		}
		lines = append(lines, strings.Join(fields, "\t"))
	}
	return strings.Join(lines, "\n")
}

// ExportFileName stamps the artifact name with the run time.
func ExportFileName(t time.Time) string {
	return "discovered_companies_" + t.Format("20060102_1504") + ".tsv"
}

func columns(opts TSVOptions) []column {
	cols := make([]column, 0, len(leadingColumns)+len(trailingColumns)+1)
	cols = append(cols, leadingColumns...)
	if opts.IncludeTimeline {
		cols = append(cols, timelineColumn)
	}
	return append(cols, trailingColumns...)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
