package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultUserAgent mimics a desktop browser; several backends block bare clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	defaultTimeout = 15 * time.Second

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 4 << 20
)

// AdapterConfig holds what every adapter needs to reach its backend.
type AdapterConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
}

func (c AdapterConfig) withDefaults(baseURL string) AdapterConfig {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: c.Timeout}
	}
	return c
}

// fetch issues a GET with the adapter's identity and returns the body of a 200 response.
func fetch(ctx context.Context, cfg AdapterConfig, pageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	resp, err := cfg.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// cleanText strips markup from a snippet and collapses whitespace.
func cleanText(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return strings.Join(strings.Fields(raw), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.Join(strings.Fields(raw), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
