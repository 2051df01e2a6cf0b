package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"CompanyScout/internal/domain"
	"CompanyScout/internal/logging"
	"CompanyScout/internal/source"
)

// SourceStats counts what a single adapter did during retrieval.
type SourceStats struct {
	Name     string
	Calls    int
	Failures int
	Articles int
}

// RetrievalStats summarizes a retrieval pass for the shell.
type RetrievalStats struct {
	Queries        int
	Calls          int
	Failures       int
	RawArticles    int
	UniqueArticles int
	Sources        []SourceStats
}

// Retriever fans queries out across adapters. Each adapter runs in its own
// goroutine and issues its calls sequentially, spaced by the pacing interval.
type Retriever struct {
	pacing time.Duration
	logger *slog.Logger
}

// NewRetriever wires pacing between consecutive calls to the same backend.
func NewRetriever(pacing time.Duration, log *slog.Logger) *Retriever {
	if log == nil {
		log = logging.Discard()
	}
	return &Retriever{pacing: pacing, logger: log}
}

// Run queries every adapter with every query and returns the de-duplicated
// article set. Adapter failures and panics only cost that adapter's results
// for that query. A non-positive maxPerSource issues no calls.
func (r *Retriever) Run(ctx context.Context, queries []string, adapters []source.Adapter, maxPerSource int) ([]domain.Article, RetrievalStats) {
	stats := RetrievalStats{Queries: len(queries), Sources: make([]SourceStats, len(adapters))}
	if maxPerSource <= 0 {
		r.logger.Warn("retrieval skipped", "max_per_source", maxPerSource)
		return nil, stats
	}
	buffers := make([][][]domain.Article, len(adapters))

	r.logger.Debug("retrieval started", "queries", len(queries), "sources", len(adapters), "max_per_source", maxPerSource)

	var g errgroup.Group
	for i, adapter := range adapters {
		g.Go(func() error {
			buffers[i], stats.Sources[i] = r.drain(ctx, adapter, queries, maxPerSource)
			return nil
		})
	}
	_ = g.Wait()

	var aggregated []domain.Article
	for qi := range queries {
		for ai := range adapters {
			if qi < len(buffers[ai]) {
				aggregated = append(aggregated, buffers[ai][qi]...)
			}
		}
	}

	for _, s := range stats.Sources {
		stats.Calls += s.Calls
		stats.Failures += s.Failures
	}
	stats.RawArticles = len(aggregated)

	unique := DedupArticles(aggregated)
	stats.UniqueArticles = len(unique)

	r.logger.Info("retrieval done",
		"calls", stats.Calls,
		"failures", stats.Failures,
		"raw_articles", stats.RawArticles,
		"unique_articles", stats.UniqueArticles)
	return unique, stats
}

// drain runs all queries against one adapter into a buffer owned by this goroutine.
func (r *Retriever) drain(ctx context.Context, adapter source.Adapter, queries []string, maxPerSource int) ([][]domain.Article, SourceStats) {
	name := adapter.Name()
	stats := SourceStats{Name: name}
	results := make([][]domain.Article, len(queries))
	limiter := rate.NewLimiter(rate.Every(r.pacing), 1)

	for qi, query := range queries {
		if err := limiter.Wait(ctx); err != nil {
			r.logger.Warn("retrieval interrupted", "source", name, "error", err)
			break
		}

		stats.Calls++
		articles, err := safeSearch(ctx, adapter, query, maxPerSource)
		if err != nil {
			stats.Failures++
			r.logger.Warn("source failed", "source", name, "query", query, "error", err)
			continue
		}
		if len(articles) > maxPerSource {
			articles = articles[:maxPerSource]
		}

		for i := range articles {
			if articles[i].Source == "" {
				articles[i].Source = name
			}
		}
		stats.Articles += len(articles)
		results[qi] = articles
		r.logger.Debug("source produced articles", "source", name, "query", query, "count", len(articles))
	}

	return results, stats
}

func safeSearch(ctx context.Context, adapter source.Adapter, query string, maxResults int) (articles []domain.Article, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			articles, err = nil, fmt.Errorf("adapter %s panicked: %v", adapter.Name(), rec)
		}
	}()
	return adapter.Search(ctx, query, maxResults)
}

// DedupArticles drops articles without a link and keeps the first article
// for each (title prefix, link) key. Applying it twice changes nothing.
func DedupArticles(articles []domain.Article) []domain.Article {
	seen := make(map[domain.ArticleKey]struct{}, len(articles))
	unique := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if article.Link == "" {
			continue
		}
		key := article.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, article)
	}
	return unique
}
