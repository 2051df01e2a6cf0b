package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"CompanyScout/internal/catalog"
	"CompanyScout/internal/domain"
	"CompanyScout/internal/logging"
	"CompanyScout/internal/ports"
	"CompanyScout/internal/source"
)

var (
	// ErrInvalidSelection reports an unusable sector, project type, source or mode choice.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrMissingCredential reports that no language model API key is configured.
	ErrMissingCredential = errors.New("missing language model credential")
)

const defaultDigestSize = 5

// Selection is the user's choice for a single discovery run.
type Selection struct {
	Sectors      []string
	ProjectTypes []domain.ProjectType
	Sources      []string
	MaxPerSource int
	Mode         PlanMode
	// Start and End bound the analysed slice of retrieved articles. End <= 0
	// means every retrieved article.
	Start int
	End   int
}

// Stats reports attempted versus produced work per stage.
type Stats struct {
	Retrieval  RetrievalStats
	Extraction ExtractionStats
	Ranked     int
}

// Result is everything a finished run produced.
type Result struct {
	RunID     string
	StartedAt time.Time
	Queries   []string
	Articles  []domain.Article
	Extracted []domain.ExtractedCompany
	Ranked    []domain.RankedCompany
	TSV       string
	Stats     Stats
}

// Summary condenses a run into the headline numbers shown to the user.
type Summary struct {
	ArticlesAnalyzed int
	CompaniesFound   int
	HighConfidence   int
	// SuccessRate is companies found per analysed article, in percent.
	SuccessRate float64
}

// Summary computes the headline metrics of the run.
func (r *Result) Summary() Summary {
	s := Summary{
		ArticlesAnalyzed: r.Stats.Extraction.Attempted,
		CompaniesFound:   len(r.Ranked),
	}
	for _, c := range r.Ranked {
		if c.Confidence == domain.ConfidenceHigh {
			s.HighConfidence++
		}
	}
	if s.ArticlesAnalyzed > 0 {
		s.SuccessRate = float64(s.CompaniesFound) / float64(s.ArticlesAnalyzed) * 100
	}
	return s
}

// TopLead returns the highest ranked company, if any.
func (r *Result) TopLead() (domain.RankedCompany, bool) {
	if len(r.Ranked) == 0 {
		return domain.RankedCompany{}, false
	}
	return r.Ranked[0], true
}

// PipelineDeps wires all driven adapters into the discovery pipeline.
type PipelineDeps struct {
	Registry   *source.Registry
	Catalog    *catalog.Catalog
	Retriever  *Retriever
	Extractor  *Extractor
	Ranker     *Ranker
	Repository ports.LeadRepository
	Notifier   ports.Notifier
	// HasCredential is false when no language model API key is configured.
	HasCredential bool
	TSV           TSVOptions
	DigestSize    int
	Logger        *slog.Logger
	Now           func() time.Time
}

// Pipeline implements the discovery workflow: plan, retrieve, extract, rank, export.
type Pipeline struct {
	registry      *source.Registry
	catalog       *catalog.Catalog
	retriever     *Retriever
	extractor     *Extractor
	ranker        *Ranker
	repository    ports.LeadRepository
	notifier      ports.Notifier
	hasCredential bool
	tsv           TSVOptions
	digestSize    int
	logger        *slog.Logger
	now           func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	digestSize := deps.DigestSize
	if digestSize <= 0 {
		digestSize = defaultDigestSize
	}
	ranker := deps.Ranker
	if ranker == nil {
		ranker = NewRanker(deps.Catalog)
	}

	return &Pipeline{
		registry:      deps.Registry,
		catalog:       deps.Catalog,
		retriever:     deps.Retriever,
		extractor:     deps.Extractor,
		ranker:        ranker,
		repository:    deps.Repository,
		notifier:      deps.Notifier,
		hasCredential: deps.HasCredential,
		tsv:           deps.TSV,
		digestSize:    digestSize,
		logger:        log,
		now:           now,
	}
}

// Plan validates the selection and returns the queries a run would issue.
func (p *Pipeline) Plan(sel Selection) ([]string, error) {
	return PlanQueries(p.catalog, sel.Sectors, sel.ProjectTypes, sel.Mode)
}

// Run executes one discovery run. Configuration problems are reported before
// any backend or language model call; after that, backend and model failures
// only shrink the result.
func (p *Pipeline) Run(ctx context.Context, sel Selection, progress ProgressFunc) (*Result, error) {
	queries, adapters, err := p.prepare(sel)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: p.now(),
		Queries:   queries,
	}
	log := p.logger.With("run_id", result.RunID)
	log.Info("discovery started", "queries", len(queries), "sources", len(adapters), "mode", sel.Mode)

	result.Articles, result.Stats.Retrieval = p.retriever.Run(ctx, queries, adapters, sel.MaxPerSource)

	end := sel.End
	if end <= 0 {
		end = len(result.Articles)
	}
	result.Extracted, result.Stats.Extraction = p.extractor.Extract(ctx, result.Articles, sel.Start, end, progress)

	result.Ranked = p.ranker.Rank(result.Extracted)
	result.Stats.Ranked = len(result.Ranked)
	result.TSV = ToTSV(result.Ranked, p.tsv)

	summary := result.Summary()
	log.Info("discovery finished",
		"articles", len(result.Articles),
		"analyzed", summary.ArticlesAnalyzed,
		"companies", summary.CompaniesFound,
		"high_confidence", summary.HighConfidence)

	p.publish(ctx, log, result)
	return result, nil
}

func (p *Pipeline) prepare(sel Selection) ([]string, []source.Adapter, error) {
	if !p.hasCredential {
		return nil, nil, ErrMissingCredential
	}
	if p.registry == nil || p.retriever == nil || p.extractor == nil {
		return nil, nil, fmt.Errorf("%w: pipeline is not fully wired", ErrInvalidSelection)
	}
	if sel.MaxPerSource <= 0 {
		return nil, nil, fmt.Errorf("%w: max per source must be positive, got %d", ErrInvalidSelection, sel.MaxPerSource)
	}
	if sel.Start < 0 || (sel.End > 0 && sel.End < sel.Start) {
		return nil, nil, fmt.Errorf("%w: bad analysis range [%d,%d)", ErrInvalidSelection, sel.Start, sel.End)
	}
	if len(sel.Sources) == 0 {
		return nil, nil, fmt.Errorf("%w: no sources selected", ErrInvalidSelection)
	}

	adapters, err := p.registry.Select(sel.Sources)
	if err != nil {
		return nil, nil, err
	}
	queries, err := p.Plan(sel)
	if err != nil {
		return nil, nil, err
	}
	return queries, adapters, nil
}

// publish hands the run to the optional sinks. Their failures never fail the run.
func (p *Pipeline) publish(ctx context.Context, log *slog.Logger, result *Result) {
	if p.repository != nil {
		run := ports.LeadRun{
			ID:        result.RunID,
			Queries:   result.Queries,
			Articles:  len(result.Articles),
			Companies: result.Ranked,
		}
		if err := p.repository.SaveRun(ctx, run); err != nil {
			log.Warn("archive run failed", "error", err)
		}
	}

	if p.notifier == nil || len(result.Ranked) == 0 {
		return
	}
	if err := p.notifier.PublishDigest(ctx, BuildDigest(result, p.digestSize)); err != nil {
		log.Warn("publish digest failed", "error", err)
	}
}

// markdownEscaper escapes the entity markers of Telegram's legacy Markdown.
var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// BuildDigest renders the top leads of a run as a Markdown message. Values
// taken from articles and the model are escaped and kept outside entities,
// where legacy Markdown honours the escapes.
func BuildDigest(result *Result, limit int) string {
	if len(result.Ranked) == 0 {
		return ""
	}

	md := markdownEscaper.Replace
	summary := result.Summary()
	var b strings.Builder
	fmt.Fprintf(&b, "*%d companies found* in %d articles (%d high confidence)\n\n",
		summary.CompaniesFound, summary.ArticlesAnalyzed, summary.HighConfidence)

	for i, c := range result.Ranked {
		if i >= limit {
			break
		}
		fmt.Fprintf(&b, "%d. %s (score %d, %s)\n%s\nStage: %s | Timeline: %s\n%s\n\n",
			i+1, md(c.CompanyName), c.RelevanceScore, md(c.Sector), md(c.CoreIntent),
			md(c.Stage), md(c.Timeline), md(c.SourceLink))
	}

	top, _ := result.TopLead()
	top.CompanyName = md(top.CompanyName)
	top.CoreIntent = md(top.CoreIntent)
	b.WriteString(OutreachHint(top))
	return b.String()
}

// OutreachHint suggests how to open the conversation with the best lead.
func OutreachHint(top domain.RankedCompany) string {
	return fmt.Sprintf("Start outreach with %s and mention their project: \"%s\"", top.CompanyName, top.CoreIntent)
}
