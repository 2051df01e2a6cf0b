package usecase

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"CompanyScout/internal/domain"
	"CompanyScout/internal/ports"
)

type fakeAdapter struct {
	name   string
	calls  atomic.Int32
	search func(query string, maxResults int) ([]domain.Article, error)
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Search(_ context.Context, query string, maxResults int) ([]domain.Article, error) {
	f.calls.Add(1)
	if f.search == nil {
		return nil, nil
	}
	return f.search(query, maxResults)
}

// fakeChat answers by matching the article title inside the user prompt.
type fakeChat struct {
	mu      sync.Mutex
	calls   int
	replies map[string]string
	err     error
}

func (f *fakeChat) Complete(_ context.Context, _ string, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	for title, reply := range f.replies {
		if strings.Contains(user, "TITLE: "+title+"\n") {
			return reply, nil
		}
	}
	return `{"companies": []}`, nil
}

type fakeRepository struct {
	runs []ports.LeadRun
	err  error
}

func (f *fakeRepository) SaveRun(_ context.Context, run ports.LeadRun) error {
	f.runs = append(f.runs, run)
	return f.err
}

func (f *fakeRepository) RecentLeads(context.Context, int) ([]domain.RankedCompany, error) {
	return nil, nil
}

type fakeNotifier struct {
	digests []string
	err     error
}

func (f *fakeNotifier) PublishDigest(_ context.Context, digest string) error {
	f.digests = append(f.digests, digest)
	return f.err
}

func article(title, link string) domain.Article {
	return domain.NewArticle(title, link, "", "test", "")
}
