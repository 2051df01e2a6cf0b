package parser

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"CompanyScout/internal/domain"
	"CompanyScout/internal/source"
)

const duckDuckGoBaseURL = "https://html.duckduckgo.com/html/"

// DuckDuckGoAdapter scrapes the JavaScript-free DuckDuckGo results page.
type DuckDuckGoAdapter struct {
	cfg AdapterConfig
}

var _ source.Adapter = (*DuckDuckGoAdapter)(nil)

// NewDuckDuckGoAdapter wires the adapter; zero config values get defaults.
func NewDuckDuckGoAdapter(cfg AdapterConfig) *DuckDuckGoAdapter {
	return &DuckDuckGoAdapter{cfg: cfg.withDefaults(duckDuckGoBaseURL)}
}

// Name identifies the adapter inside the registry.
func (d *DuckDuckGoAdapter) Name() string {
	return "duckduckgo"
}

// Search scrapes result blocks for the query, skipping ads and entries without a link.
func (d *DuckDuckGoAdapter) Search(ctx context.Context, query string, maxResults int) ([]domain.Article, error) {
	if maxResults <= 0 {
		return nil, nil
	}

	searchURL, err := buildSearchURL(d.cfg.BaseURL, url.Values{"q": {query}, "kl": {"in-en"}})
	if err != nil {
		return nil, err
	}

	body, err := fetch(ctx, d.cfg, searchURL)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parse document: %w", err)
	}

	return extractResults(doc, maxResults), nil
}

func extractResults(doc *goquery.Document, maxResults int) []domain.Article {
	var collected []domain.Article

	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.HasClass("result--ad") {
			return true
		}

		anchor := sel.Find("a.result__a").First()
		href, _ := anchor.Attr("href")
		link := resolveResultLink(href)
		if link == "" {
			return true
		}

		snippet := sel.Find(".result__snippet").First().Text()
		published := strings.TrimSpace(sel.Find(".result__timestamp").First().Text())

		collected = append(collected, domain.NewArticle(
			cleanText(anchor.Text()),
			link,
			cleanText(snippet),
			"DuckDuckGo",
			published,
		))
		return len(collected) < maxResults
	})

	return collected
}

// resolveResultLink unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveResultLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}
