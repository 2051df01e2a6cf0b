package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCompanyName(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidCompanyName("Acme Infra"))
	assert.False(t, ValidCompanyName(""))
	assert.False(t, ValidCompanyName("   "))
	assert.False(t, ValidCompanyName("null"))
	assert.False(t, ValidCompanyName("NULL"))
}

func TestCompanyKeyNormalizes(t *testing.T) {
	t.Parallel()

	a := ExtractedCompany{CompanyName: "  Acme Ltd ", CoreIntent: "New warehouse in Pune for regional distribution"}
	b := ExtractedCompany{CompanyName: "ACME LTD", CoreIntent: "new warehouse in pune for regional logistics hub"}

	assert.Equal(t, a.Key(), b.Key())
	assert.Len(t, []rune(a.Key().IntentPrefix), companyKeyIntentRunes)
}

func TestParseProjectType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Greenfield, ParseProjectType(" greenfield "))
	assert.Equal(t, Brownfield, ParseProjectType("BROWNFIELD"))
	assert.Equal(t, ProjectTypeUnknown, ParseProjectType("expansion"))
	assert.True(t, Greenfield.Typed())
	assert.False(t, ProjectTypeUnknown.Typed())
}

func TestNewArticlePlaceholders(t *testing.T) {
	t.Parallel()

	a := NewArticle("  ", "https://example.com/a", " body ", "Google News", "")
	assert.Equal(t, NoTitle, a.Title)
	assert.Equal(t, UnknownDate, a.Published)
	assert.Equal(t, "body", a.Description)
	assert.Equal(t, "No Title. body", a.Content())
}
