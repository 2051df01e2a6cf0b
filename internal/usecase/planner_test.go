package usecase

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CompanyScout/internal/catalog"
	"CompanyScout/internal/domain"
)

func TestPlanQueriesTargeted(t *testing.T) {
	t.Parallel()

	queries, err := PlanQueries(catalog.Default(), []string{"Warehouse"}, []domain.ProjectType{domain.Greenfield}, PlanTargeted)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"new Warehouse construction India",
		"new Warehouse construction India groundbreaking",
		"new Warehouse construction India foundation stone",
		"Warehouse groundbreaking India",
		"Warehouse groundbreaking India groundbreaking",
		"Warehouse groundbreaking India foundation stone",
		"upcoming Warehouse project India",
		"upcoming Warehouse project India groundbreaking",
		"upcoming Warehouse project India foundation stone",
	}, queries)
}

func TestPlanQueriesIsDeterministicAndCapped(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()
	sectors := []string{"Manufacturing", "Warehouse", "Hospital", "Hotel"}
	types := []domain.ProjectType{domain.Greenfield, domain.Brownfield}

	first, err := PlanQueries(cat, sectors, types, PlanTargeted)
	require.NoError(t, err)
	second, err := PlanQueries(cat, sectors, types, PlanTargeted)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 20)

	exploratory, err := PlanQueries(cat, sectors, types, PlanExploratory)
	require.NoError(t, err)
	assert.Len(t, exploratory, 60)
}

func TestPlanQueriesCoversEverySectorUnderCap(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()
	sectors := slices.Collect(cat.Sectors())
	types := []domain.ProjectType{domain.Greenfield, domain.Brownfield}

	queries, err := PlanQueries(cat, sectors, types, PlanTargeted)
	require.NoError(t, err)
	require.Len(t, queries, 20)

	for _, sector := range sectors {
		assert.True(t, slices.ContainsFunc(queries, func(q string) bool {
			return strings.Contains(q, sector+" ")
		}), "no query for %s", sector)
	}

	var biased int
	for _, q := range queries {
		for signal := range cat.LeadSignalPrefix(2) {
			if strings.HasSuffix(q, "India "+signal) {
				biased++
			}
		}
	}
	assert.Equal(t, 7, biased)

	assert.True(t, slices.ContainsFunc(queries, func(q string) bool { return strings.Contains(q, "expansion") }),
		"brownfield phrasing missing")
}

func TestPlanQueriesExploratoryAddsGenericTerms(t *testing.T) {
	t.Parallel()

	queries, err := PlanQueries(catalog.Default(), []string{"Hotel"}, []domain.ProjectType{domain.Brownfield}, PlanExploratory)
	require.NoError(t, err)

	assert.Len(t, queries, 3+len(exploratoryTerms)+3*5)
	assert.Equal(t, "Hotel expansion India", queries[0])
	assert.Equal(t, "construction completion India", queries[1])
}

func TestPlanQueriesDeduplicatesCaseInsensitively(t *testing.T) {
	t.Parallel()

	queries, err := PlanQueries(catalog.Default(), []string{"Hotel", "hotel", " "}, []domain.ProjectType{domain.Greenfield}, PlanTargeted)
	require.NoError(t, err)
	assert.Len(t, queries, 9)
}

func TestPlanQueriesRejectsEmptySelection(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()
	cases := map[string]struct {
		sectors []string
		types   []domain.ProjectType
		mode    PlanMode
	}{
		"no sectors":    {nil, []domain.ProjectType{domain.Greenfield}, PlanTargeted},
		"no types":      {[]string{"Hotel"}, nil, PlanTargeted},
		"blank sectors": {[]string{"  "}, []domain.ProjectType{domain.Greenfield}, PlanTargeted},
		"unknown types": {[]string{"Hotel"}, []domain.ProjectType{domain.ProjectTypeUnknown}, PlanTargeted},
		"unknown mode":  {[]string{"Hotel"}, []domain.ProjectType{domain.Greenfield}, PlanMode("wide")},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PlanQueries(cat, tc.sectors, tc.types, tc.mode)
			assert.ErrorIs(t, err, ErrInvalidSelection)
		})
	}
}

func TestParsePlanMode(t *testing.T) {
	t.Parallel()

	mode, err := ParsePlanMode("")
	require.NoError(t, err)
	assert.Equal(t, PlanTargeted, mode)

	mode, err = ParsePlanMode(" Exploratory ")
	require.NoError(t, err)
	assert.Equal(t, PlanExploratory, mode)

	_, err = ParsePlanMode("broad")
	assert.ErrorIs(t, err, ErrInvalidSelection)
}
