package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"CompanyScout/internal/catalog"
	"CompanyScout/internal/config"
	"CompanyScout/internal/domain"
	"CompanyScout/internal/infrastructure/llm"
	"CompanyScout/internal/infrastructure/parser"
	"CompanyScout/internal/infrastructure/storage"
	"CompanyScout/internal/infrastructure/telegram"
	"CompanyScout/internal/logging"
	"CompanyScout/internal/ports"
	"CompanyScout/internal/retry"
	"CompanyScout/internal/source"
	"CompanyScout/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	catalog  *catalog.Catalog
	registry *source.Registry
	pipeline *usecase.Pipeline
	store    *storage.SQLiteRepository
	logger   *slog.Logger
}

// New builds a runnable application from configuration. The chat client is
// created even without an API key; the pipeline refuses to run in that case.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	cat := catalog.New(catalog.Options{
		Sectors:       cfg.Catalog.Sectors,
		LeadSignals:   cfg.Catalog.LeadSignals,
		TimelineYears: cfg.Catalog.TimelineYears,
	})

	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	return newApplication(ctx, cfg, cat, registry, llm.NewClient(cfg.LLM), baseLogger)
}

func newApplication(ctx context.Context, cfg config.Config, cat *catalog.Catalog, registry *source.Registry, chat ports.ChatClient, baseLogger *slog.Logger) (*Application, error) {
	a := &Application{cfg: cfg, catalog: cat, registry: registry, logger: baseLogger}

	var repository ports.LeadRepository
	if cfg.Storage.DSN != "" {
		store, err := storage.OpenSQLite(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("open lead archive: %w", err)
		}
		a.store = store
		repository = store
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	extractor := usecase.NewExtractor(chat, cat, usecase.ExtractorConfig{
		MaxContentChars: cfg.Extraction.MaxContentChars,
		Retry: retry.Policy{
			MaxAttempts: cfg.Extraction.MaxAttempts,
			Backoff:     cfg.Extraction.Backoff,
		},
	}, baseLogger.With("component", "extractor"))

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Registry:      registry,
		Catalog:       cat,
		Retriever:     usecase.NewRetriever(cfg.Retrieval.Pacing, baseLogger.With("component", "retriever")),
		Extractor:     extractor,
		Ranker:        usecase.NewRanker(cat),
		Repository:    repository,
		Notifier:      notifier,
		HasCredential: cfg.LLM.APIKey != "",
		TSV:           usecase.TSVOptions{IncludeTimeline: cfg.Export.TimelineColumn()},
		DigestSize:    cfg.Notifications.TopN,
		Logger:        baseLogger.With("component", "pipeline"),
	})
	return a, nil
}

func buildRegistry(cfg config.Config) (*source.Registry, error) {
	registry := source.NewRegistry()
	for _, sc := range cfg.Sources {
		kind := sc.Adapter
		if kind == "" {
			kind = sc.Name
		}
		adapter, err := parser.NewAdapter(kind, parser.AdapterConfig{
			BaseURL:   sc.BaseURL,
			UserAgent: cfg.Retrieval.UserAgent,
			Timeout:   cfg.Retrieval.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", sc.Name, err)
		}
		registry.Register(source.Alias(sc.Name, adapter))
	}
	return registry, nil
}

// Run performs a single discovery run.
func (a *Application) Run(ctx context.Context, sel usecase.Selection, progress usecase.ProgressFunc) (*usecase.Result, error) {
	return a.pipeline.Run(ctx, sel, progress)
}

// PlanQueries previews the queries a selection would issue.
func (a *Application) PlanQueries(sel usecase.Selection) ([]string, error) {
	return a.pipeline.Plan(sel)
}

// SourceNames lists the configured sources.
func (a *Application) SourceNames() []string {
	return a.registry.Names()
}

// DefaultSelection selects every catalog sector, both project types and every
// configured source.
func (a *Application) DefaultSelection() usecase.Selection {
	return usecase.Selection{
		Sectors:      slices.Collect(a.catalog.Sectors()),
		ProjectTypes: []domain.ProjectType{domain.Greenfield, domain.Brownfield},
		Sources:      a.SourceNames(),
		MaxPerSource: a.cfg.Retrieval.MaxPerSource,
		Mode:         usecase.PlanTargeted,
	}
}

// RecentLeads reads archived leads; it returns nothing when no archive is configured.
func (a *Application) RecentLeads(ctx context.Context, limit int) ([]domain.RankedCompany, error) {
	if a.store == nil {
		return nil, nil
	}
	return a.store.RecentLeads(ctx, limit)
}

// TSVOptions exposes the configured export shape.
func (a *Application) TSVOptions() usecase.TSVOptions {
	return usecase.TSVOptions{IncludeTimeline: a.cfg.Export.TimelineColumn()}
}

// ExportDir is where discover writes TSV files when asked to save them.
func (a *Application) ExportDir() string {
	return a.cfg.Export.Dir
}

// Close releases the lead archive, if any.
func (a *Application) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
