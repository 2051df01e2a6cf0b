package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"CompanyScout/internal/catalog"
	"CompanyScout/internal/domain"
	"CompanyScout/internal/logging"
	"CompanyScout/internal/ports"
	"CompanyScout/internal/retry"
)

const defaultMaxContentChars = 3000

const systemPromptTemplate = `You are an expert Indian business analyst. Extract ALL companies mentioned in news articles that are building, expanding or completing physical facilities in India.

Focus on these sectors: %s.
Projects showing these signals are the most valuable: %s.

For every company return:
- company_name: the company's name exactly as written
- core_intent: what they are building or expanding, in one sentence
- stage: the current project stage, quoting the article's wording where possible
- timeline: completion or opening timeline if mentioned (year, quarter or month)
- project_type: "Greenfield" for an entirely new facility, "Brownfield" for expansion or modernisation of an existing one, "Unknown" otherwise
- sector: one of the sectors above, or "Other"
- confidence: "high", "medium" or "low" depending on how explicit the article is
- is_private_sector: true for private companies, false for government bodies and public sector undertakings

Return JSON only:
{"companies": [{"company_name": "", "core_intent": "", "stage": "", "timeline": "", "project_type": "", "sector": "", "confidence": "", "is_private_sector": true}]}

If no companies are found, return {"companies": []}`

const userPromptTemplate = `Analyze this Indian business/construction news article and extract every company involved in construction, infrastructure, buildings, factories or facility projects in India.

TITLE: %s
CONTENT: %s`

// ProgressFunc receives one tick per processed article.
type ProgressFunc func(done, total int)

// ExtractionStats counts outcomes of an extraction pass.
type ExtractionStats struct {
	Attempted       int
	ServiceFailures int
	ParseFailures   int
	Admitted        int
	Rejected        int
}

// ExtractorConfig bounds extraction requests.
type ExtractorConfig struct {
	MaxContentChars int
	Retry           retry.Policy
}

// Extractor turns articles into company records through a language model,
// one article at a time.
type Extractor struct {
	chat         ports.ChatClient
	catalog      *catalog.Catalog
	maxChars     int
	policy       retry.Policy
	systemPrompt string
	logger       *slog.Logger
}

// NewExtractor builds the fixed system prompt from the catalog once.
func NewExtractor(chat ports.ChatClient, cat *catalog.Catalog, cfg ExtractorConfig, log *slog.Logger) *Extractor {
	if log == nil {
		log = logging.Discard()
	}
	if cfg.MaxContentChars <= 0 {
		cfg.MaxContentChars = defaultMaxContentChars
	}

	policy := cfg.Retry
	if policy.OnRetry == nil {
		policy.OnRetry = func(attempt int, err error) {
			log.Warn("extraction call failed, retrying", "attempt", attempt, "error", err)
		}
	}

	return &Extractor{
		chat:         chat,
		catalog:      cat,
		maxChars:     cfg.MaxContentChars,
		policy:       policy,
		systemPrompt: buildSystemPrompt(cat),
		logger:       log,
	}
}

// Extract processes articles[start:end] (clamped to the slice). A failing
// article is skipped; it never aborts the batch.
func (e *Extractor) Extract(ctx context.Context, articles []domain.Article, start, end int, progress ProgressFunc) ([]domain.ExtractedCompany, ExtractionStats) {
	start, end = clampRange(start, end, len(articles))
	batch := articles[start:end]

	var (
		stats     ExtractionStats
		companies []domain.ExtractedCompany
	)

	for i, article := range batch {
		if ctx.Err() != nil {
			e.logger.Warn("extraction interrupted", "processed", i, "total", len(batch))
			break
		}

		stats.Attempted++
		found, err := e.extractArticle(ctx, article, &stats)
		if err != nil {
			e.logger.Warn("article skipped", "link", article.Link, "error", err)
		}
		companies = append(companies, found...)

		if progress != nil {
			progress(i+1, len(batch))
		}
	}

	e.logger.Info("extraction done",
		"attempted", stats.Attempted,
		"service_failures", stats.ServiceFailures,
		"parse_failures", stats.ParseFailures,
		"admitted", stats.Admitted,
		"rejected", stats.Rejected)
	return companies, stats
}

func (e *Extractor) extractArticle(ctx context.Context, article domain.Article, stats *ExtractionStats) ([]domain.ExtractedCompany, error) {
	user := fmt.Sprintf(userPromptTemplate, article.Title, truncateRunes(article.Content(), e.maxChars))

	reply, err := retry.Do(ctx, e.policy, func(ctx context.Context) (string, error) {
		return e.chat.Complete(ctx, e.systemPrompt, user)
	})
	if err != nil {
		stats.ServiceFailures++
		return nil, fmt.Errorf("language model: %w", err)
	}

	raws, err := parseCompanies(reply, e.logger)
	if err != nil {
		stats.ParseFailures++
		return nil, err
	}

	var admitted []domain.ExtractedCompany
	for _, raw := range raws {
		company := raw.normalize(article, e.catalog)
		if !company.Admissible() {
			stats.Rejected++
			continue
		}
		stats.Admitted++
		admitted = append(admitted, company)
	}
	return admitted, nil
}

type extractionReply struct {
	Companies []json.RawMessage `json:"companies"`
}

type rawCompany struct {
	CompanyName     string   `json:"company_name"`
	CoreIntent      string   `json:"core_intent"`
	Stage           string   `json:"stage"`
	Timeline        string   `json:"timeline"`
	ProjectType     string   `json:"project_type"`
	Sector          string   `json:"sector"`
	Confidence      string   `json:"confidence"`
	IsPrivateSector flexBool `json:"is_private_sector"`
}

// parseCompanies decodes the reply envelope. Entries that do not decode are
// logged and returned as zero values so they count as rejected rather than
// sinking the article.
func parseCompanies(reply string, log *slog.Logger) ([]rawCompany, error) {
	var envelope extractionReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &envelope); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}

	raws := make([]rawCompany, 0, len(envelope.Companies))
	for i, item := range envelope.Companies {
		var raw rawCompany
		if err := json.Unmarshal(item, &raw); err != nil {
			log.Debug("company entry undecodable", "index", i, "entry", string(item), "error", err)
			raw = rawCompany{}
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// normalize fills every optional field so downstream code never checks presence.
func (r rawCompany) normalize(article domain.Article, cat *catalog.Catalog) domain.ExtractedCompany {
	sector := strings.TrimSpace(r.Sector)
	if canonical, ok := cat.CanonicalSector(sector); ok {
		sector = canonical
	}

	return domain.ExtractedCompany{
		CompanyName:     strings.TrimSpace(r.CompanyName),
		SourceLink:      article.Link,
		CoreIntent:      orDefault(r.CoreIntent, domain.DefaultCoreIntent),
		Stage:           orDefault(r.Stage, domain.DefaultStage),
		Timeline:        orDefault(r.Timeline, domain.DefaultTimeline),
		ProjectType:     domain.ParseProjectType(r.ProjectType),
		Sector:          orDefault(sector, domain.DefaultSector),
		Confidence:      parseConfidence(r.Confidence),
		IsPrivateSector: bool(r.IsPrivateSector),
		ArticleTitle:    article.Title,
		Source:          article.Source,
		Date:            orDefault(article.Published, domain.DefaultDate),
	}
}

func parseConfidence(value string) domain.Confidence {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return domain.DefaultConfidence
	}
	c := domain.Confidence(value)
	if slices.Contains([]domain.Confidence{domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow}, c) {
		return c
	}
	return domain.ConfidenceLow
}

// flexBool accepts true/false, "true"/"yes"/"1" strings and numbers.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			*b = true
		default:
			*b = false
		}
	case float64:
		*b = t != 0
	default:
		*b = false
	}
	return nil
}

func buildSystemPrompt(cat *catalog.Catalog) string {
	var sectors, signals []string
	for s := range cat.Sectors() {
		sectors = append(sectors, s)
	}
	for s := range cat.LeadSignals() {
		signals = append(signals, s)
	}
	return fmt.Sprintf(systemPromptTemplate, strings.Join(sectors, ", "), strings.Join(signals, ", "))
}

func clampRange(start, end, n int) (int, int) {
	start = min(max(start, 0), n)
	end = min(max(end, 0), n)
	if end < start {
		end = start
	}
	return start, end
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// orDefault treats blanks and the model's "null" placeholder as missing.
func orDefault(value, fallback string) string {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "null") {
		return fallback
	}
	return v
}
