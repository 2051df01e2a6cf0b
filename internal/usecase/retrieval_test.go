package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CompanyScout/internal/domain"
	"CompanyScout/internal/source"
)

func TestRetrieverSurvivesPanickingAdapter(t *testing.T) {
	t.Parallel()

	broken := &fakeAdapter{name: "broken", search: func(query string, _ int) ([]domain.Article, error) {
		if query == "q1" {
			panic("selector exploded")
		}
		return []domain.Article{article("broken "+query, "https://broken.example/"+query)}, nil
	}}
	healthy := &fakeAdapter{name: "healthy", search: func(query string, _ int) ([]domain.Article, error) {
		return []domain.Article{article("healthy "+query, "https://healthy.example/"+query)}, nil
	}}

	articles, stats := NewRetriever(0, nil).Run(context.Background(), []string{"q1", "q2"}, []source.Adapter{broken, healthy}, 5)

	links := make([]string, 0, len(articles))
	for _, a := range articles {
		links = append(links, a.Link)
	}
	assert.Equal(t, []string{
		"https://healthy.example/q1",
		"https://broken.example/q2",
		"https://healthy.example/q2",
	}, links)
	assert.Equal(t, 4, stats.Calls)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, 3, stats.UniqueArticles)
	require.Len(t, stats.Sources, 2)
	assert.Equal(t, SourceStats{Name: "broken", Calls: 2, Failures: 1, Articles: 1}, stats.Sources[0])
}

func TestRetrieverSkipsFailedCalls(t *testing.T) {
	t.Parallel()

	failing := &fakeAdapter{name: "failing", search: func(string, int) ([]domain.Article, error) {
		return nil, errors.New("status 429")
	}}

	articles, stats := NewRetriever(0, nil).Run(context.Background(), []string{"a", "b"}, []source.Adapter{failing}, 5)
	assert.Empty(t, articles)
	assert.Equal(t, 2, stats.Failures)
	assert.EqualValues(t, 2, failing.calls.Load())
}

func TestRetrieverCapsAndLabelsResults(t *testing.T) {
	t.Parallel()

	chatty := &fakeAdapter{name: "chatty", search: func(query string, _ int) ([]domain.Article, error) {
		out := make([]domain.Article, 0, 4)
		for _, suffix := range []string{"1", "2", "3", "4"} {
			out = append(out, domain.Article{Title: query + suffix, Link: "https://chatty.example/" + query + suffix})
		}
		return out, nil
	}}

	articles, stats := NewRetriever(0, nil).Run(context.Background(), []string{"x"}, []source.Adapter{chatty}, 2)
	require.Len(t, articles, 2)
	assert.Equal(t, "chatty", articles[0].Source)
	assert.Equal(t, 2, stats.RawArticles)
}

func TestRetrieverDeduplicatesAcrossAdapters(t *testing.T) {
	t.Parallel()

	same := func(string, int) ([]domain.Article, error) {
		return []domain.Article{
			article("Acme breaks ground", "https://news.example/acme"),
			article("No link here", ""),
		}, nil
	}
	a := &fakeAdapter{name: "a", search: same}
	b := &fakeAdapter{name: "b", search: same}

	articles, stats := NewRetriever(0, nil).Run(context.Background(), []string{"q"}, []source.Adapter{a, b}, 5)
	require.Len(t, articles, 1)
	assert.Equal(t, 4, stats.RawArticles)
	assert.Equal(t, 1, stats.UniqueArticles)
}

func TestRetrieverIgnoresNonPositiveMax(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{name: "news", search: func(query string, _ int) ([]domain.Article, error) {
		return []domain.Article{article(query, "https://news.example/"+query)}, nil
	}}

	for _, limit := range []int{0, -3} {
		articles, stats := NewRetriever(0, nil).Run(context.Background(), []string{"q"}, []source.Adapter{adapter}, limit)
		assert.Empty(t, articles)
		assert.Zero(t, stats.Calls)
		assert.Equal(t, 1, stats.Queries)
	}
	assert.Zero(t, adapter.calls.Load())
}

func TestRetrieverPacesCallsPerAdapter(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{name: "paced"}
	pacing := 30 * time.Millisecond

	started := time.Now()
	_, stats := NewRetriever(pacing, nil).Run(context.Background(), []string{"a", "b", "c"}, []source.Adapter{adapter}, 5)

	assert.Equal(t, 3, stats.Calls)
	assert.GreaterOrEqual(t, time.Since(started), 2*pacing)
}

func TestRetrieverStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapter := &fakeAdapter{name: "idle"}
	_, stats := NewRetriever(time.Hour, nil).Run(ctx, []string{"a", "b"}, []source.Adapter{adapter}, 5)
	assert.Zero(t, stats.Calls)
}

func TestDedupArticlesIsIdempotent(t *testing.T) {
	t.Parallel()

	input := []domain.Article{
		article("One", "https://x.example/1"),
		article("One", "https://x.example/1"),
		article("One", "https://x.example/2"),
		article("Two", ""),
	}

	once := DedupArticles(input)
	assert.Len(t, once, 2)
	assert.Equal(t, once, DedupArticles(once))
}
