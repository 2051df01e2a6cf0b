package catalog

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

// Priority ranks a sector for outreach.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

var (
	defaultSectors = []string{
		"Manufacturing",
		"Warehouse",
		"Logistics Park",
		"Data Centre",
		"Industrial Park",
		"Hospital",
		"IT Park",
		"Corporate Campus",
		"Office Tower",
		"Hotel",
		"Shopping Mall",
		"Educational Campus",
		"Residential Township",
	}

	defaultLeadSignals = []string{
		"groundbreaking",
		"foundation stone",
		"near completion",
		"nearing completion",
		"construction begins",
		"under construction",
		"topping out",
		"set to open",
		"inauguration",
		"commissioning",
		"bhoomi pujan",
		"land acquired",
		"capacity expansion",
		"final phase",
	}

	defaultHighPriority   = []string{"manufacturing", "warehouse", "logistics park", "data centre", "industrial park"}
	defaultMediumPriority = []string{"hospital", "it park", "corporate campus", "office tower"}
	defaultTimelineYears  = []string{"2024", "2025"}

	monthNames = []string{
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}
)

// Catalog holds the domain vocabulary shared by planning, extraction and scoring.
// It is built once and never mutated; callers share a single *Catalog.
type Catalog struct {
	sectors        []string
	leadSignals    []string
	highPriority   []string
	mediumPriority []string
	timelineExpr   *regexp.Regexp
}

// Options overrides parts of the default vocabulary. Empty fields keep defaults.
type Options struct {
	Sectors       []string
	LeadSignals   []string
	TimelineYears []string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(Options{})
}

// New builds a catalog from overrides, falling back to built-in lists.
func New(opts Options) *Catalog {
	years := nonEmptyOr(opts.TimelineYears, defaultTimelineYears)
	return &Catalog{
		sectors:        nonEmptyOr(opts.Sectors, defaultSectors),
		leadSignals:    lowered(nonEmptyOr(opts.LeadSignals, defaultLeadSignals)),
		highPriority:   slices.Clone(defaultHighPriority),
		mediumPriority: slices.Clone(defaultMediumPriority),
		timelineExpr:   timelinePattern(years),
	}
}

// Sectors yields sector names in catalog order.
func (c *Catalog) Sectors() iter.Seq[string] {
	return slices.Values(c.sectors)
}

// LeadSignals yields lead-signal phrases in catalog order.
func (c *Catalog) LeadSignals() iter.Seq[string] {
	return slices.Values(c.leadSignals)
}

// LeadSignalPrefix yields at most n lead signals from the head of the catalog.
func (c *Catalog) LeadSignalPrefix(n int) iter.Seq[string] {
	n = min(max(n, 0), len(c.leadSignals))
	return slices.Values(c.leadSignals[:n])
}

// CanonicalSector returns the catalog spelling of a sector, matched
// case-insensitively. ok is false when the sector is not in the catalog.
func (c *Catalog) CanonicalSector(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, s := range c.sectors {
		if strings.EqualFold(s, name) {
			return s, true
		}
	}
	return name, false
}

// HasLeadSignal reports whether text contains any lead-signal phrase.
func (c *Catalog) HasLeadSignal(text string) bool {
	text = strings.ToLower(text)
	for _, signal := range c.leadSignals {
		if strings.Contains(text, signal) {
			return true
		}
	}
	return false
}

// HasTimelineMarker reports whether text mentions a tracked year, a quarter
// token (q1..q4) or a month name.
func (c *Catalog) HasTimelineMarker(text string) bool {
	return c.timelineExpr.MatchString(text)
}

// SectorPriority classifies a sector label into the outreach tiers.
func (c *Catalog) SectorPriority(sector string) Priority {
	sector = strings.ToLower(strings.TrimSpace(sector))
	if sector == "" {
		return PriorityLow
	}
	for _, s := range c.highPriority {
		if strings.Contains(sector, s) {
			return PriorityHigh
		}
	}
	for _, s := range c.mediumPriority {
		if strings.Contains(sector, s) {
			return PriorityMedium
		}
	}
	return PriorityLow
}

// timelinePattern matches month names as whole words. Years and quarter
// tokens may be glued to letters, as in "FY2025" or "Q3FY25", but not to digits.
func timelinePattern(years []string) *regexp.Regexp {
	quoted := make([]string, 0, len(years))
	for _, y := range years {
		quoted = append(quoted, regexp.QuoteMeta(y))
	}

	alternatives := []string{
		`\b(?:` + strings.Join(monthNames, "|") + `)\b`,
		`(?:^|[^a-z])q[1-4](?:[^0-9]|$)`,
	}
	if len(quoted) > 0 {
		alternatives = append(alternatives, `(?:^|[^0-9])(?:`+strings.Join(quoted, "|")+`)(?:[^0-9]|$)`)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(alternatives, "|") + `)`)
}

func nonEmptyOr(values, fallback []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return slices.Clone(fallback)
	}
	return out
}

func lowered(values []string) []string {
	for i, v := range values {
		values[i] = strings.ToLower(v)
	}
	return values
}
