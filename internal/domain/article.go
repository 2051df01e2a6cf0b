package domain

import "strings"

// Placeholders substituted for fields a backend does not provide.
const (
	NoTitle     = "No Title"
	UnknownDate = "2024+"
)

// articleKeyTitleRunes bounds the title prefix used in the article identity key.
const articleKeyTitleRunes = 100

// Article is a single search/news hit normalized by a source adapter.
type Article struct {
	Title       string
	Link        string
	Description string
	Source      string
	Published   string
}

// NewArticle trims raw backend values and applies placeholders for missing ones.
func NewArticle(title, link, description, source, published string) Article {
	title = strings.TrimSpace(title)
	if title == "" {
		title = NoTitle
	}
	published = strings.TrimSpace(published)
	if published == "" {
		published = UnknownDate
	}
	return Article{
		Title:       title,
		Link:        strings.TrimSpace(link),
		Description: strings.TrimSpace(description),
		Source:      source,
		Published:   published,
	}
}

// Content is the text handed to extraction: title followed by description.
func (a Article) Content() string {
	if a.Description == "" {
		return a.Title
	}
	return a.Title + ". " + a.Description
}

// ArticleKey identifies an article across backends.
type ArticleKey struct {
	TitlePrefix string
	Link        string
}

// Key returns the composite identity used for deduplication.
func (a Article) Key() ArticleKey {
	return ArticleKey{TitlePrefix: prefixRunes(a.Title, articleKeyTitleRunes), Link: a.Link}
}

func prefixRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
