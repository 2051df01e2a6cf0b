package parser

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"

	"CompanyScout/internal/domain"
	"CompanyScout/internal/source"
)

const (
	googleNewsBaseURL = "https://news.google.com/rss/search"
	bingNewsBaseURL   = "https://www.bing.com/news/search"
)

// FeedAdapter searches a backend that answers queries with an RSS/Atom feed.
type FeedAdapter struct {
	name   string
	label  string
	cfg    AdapterConfig
	params func(query string) url.Values
}

var _ source.Adapter = (*FeedAdapter)(nil)

// NewGoogleNewsAdapter searches Google News RSS with Indian locale parameters.
func NewGoogleNewsAdapter(cfg AdapterConfig) *FeedAdapter {
	return &FeedAdapter{
		name:  "google_news",
		label: "Google News",
		cfg:   cfg.withDefaults(googleNewsBaseURL),
		params: func(query string) url.Values {
			return url.Values{
				"q":    {query},
				"hl":   {"en-IN"},
				"gl":   {"IN"},
				"ceid": {"IN:en"},
			}
		},
	}
}

// NewBingNewsAdapter searches Bing News through its RSS output format.
func NewBingNewsAdapter(cfg AdapterConfig) *FeedAdapter {
	return &FeedAdapter{
		name:  "bing_news",
		label: "Bing News",
		cfg:   cfg.withDefaults(bingNewsBaseURL),
		params: func(query string) url.Values {
			return url.Values{
				"q":       {query},
				"format":  {"rss"},
				"cc":      {"IN"},
				"setlang": {"en-IN"},
			}
		},
	}
}

// Name identifies the adapter inside the registry.
func (f *FeedAdapter) Name() string {
	return f.name
}

// Search fetches the feed for query and converts up to maxResults items.
func (f *FeedAdapter) Search(ctx context.Context, query string, maxResults int) ([]domain.Article, error) {
	if maxResults <= 0 {
		return nil, nil
	}

	searchURL, err := buildSearchURL(f.cfg.BaseURL, f.params(query))
	if err != nil {
		return nil, err
	}

	body, err := fetch(ctx, f.cfg, searchURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse feed: %w", f.name, err)
	}

	count := min(len(feed.Items), maxResults)
	articles := make([]domain.Article, 0, count)
	for _, item := range feed.Items[:count] {
		published := item.Published
		if published == "" {
			published = item.Updated
		}
		description := item.Description
		if description == "" {
			description = item.Content
		}
		articles = append(articles, domain.NewArticle(
			cleanText(item.Title),
			item.Link,
			cleanText(description),
			f.label,
			published,
		))
	}

	return articles, nil
}

func buildSearchURL(base string, params url.Values) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search url %s: %w", base, err)
	}

	query := parsed.Query()
	for k, v := range params {
		query[k] = v
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
