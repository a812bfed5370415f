package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	name     string
	status   string
	industry string
	revenue  float64
}

var rowSchema = Schema[row]{
	SearchFields: []func(row) string{
		func(r row) string { return r.name },
		func(r row) string { return r.industry },
	},
	Filters: map[string]func(row) string{
		"stage":    func(r row) string { return r.status },
		"industry": func(r row) string { return r.industry },
	},
	Aliases: map[string]map[string]string{
		"stage": {"active": "Active Client", "lead": "Lead"},
	},
	StringSorts: map[string]func(row) string{
		"name": func(r row) string { return r.name },
	},
	NumberSorts: map[string]func(row) float64{
		"revenue": func(r row) float64 { return r.revenue },
	},
}

func names(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.name
	}
	return out
}

func TestApply_StageFilterAndSearch(t *testing.T) {
	rows := []row{
		{name: "Nike", status: "Active Client"},
		{name: "Acme", status: "Lead"},
	}

	got := rowSchema.Apply(rows, Query{Filters: map[string]string{"stage": "active"}})
	assert.Equal(t, []string{"Nike"}, names(got.Items))

	got = rowSchema.Apply(rows, Query{Search: "ac", Filters: map[string]string{"stage": "all"}})
	assert.Equal(t, []string{"Acme"}, names(got.Items))
	assert.Equal(t, 1, got.Total)
}

func TestApply_AllFilterIsNoop(t *testing.T) {
	rows := []row{
		{name: "Nike", industry: "Sportswear"},
		{name: "Acme", industry: "Retail"},
	}

	got := rowSchema.Apply(rows, Query{Filters: map[string]string{"industry": "All", "stage": ""}})
	assert.Equal(t, []string{"Nike", "Acme"}, names(got.Items))
}

func TestApply_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	rows := []row{
		{name: "Nike", industry: "Sportswear"},
		{name: "Glossier", industry: "Beauty"},
	}

	got := rowSchema.Apply(rows, Query{Search: "  BEAUTY "})
	assert.Equal(t, []string{"Glossier"}, names(got.Items))
}

func TestApply_UnknownFilterIgnored(t *testing.T) {
	rows := []row{{name: "Nike"}}

	got := rowSchema.Apply(rows, Query{Filters: map[string]string{"color": "red"}})
	assert.Len(t, got.Items, 1)
}

func TestSort_NumericMonotonic(t *testing.T) {
	rows := []row{
		{name: "a", revenue: 9},
		{name: "b", revenue: 100},
		{name: "c", revenue: 20},
	}

	asc := rowSchema.Apply(rows, Query{SortBy: "revenue"})
	assert.Equal(t, []string{"a", "c", "b"}, names(asc.Items))

	desc := rowSchema.Apply(rows, Query{SortBy: "revenue", Desc: true})
	assert.Equal(t, []string{"b", "c", "a"}, names(desc.Items))
}

func TestSort_StringLexicographic(t *testing.T) {
	rows := []row{{name: "zeta"}, {name: "Alpha"}, {name: "beta"}}

	got := rowSchema.Apply(rows, Query{SortBy: "name"})
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, names(got.Items))
}

func TestSort_UnknownKeyKeepsOrder(t *testing.T) {
	rows := []row{{name: "b"}, {name: "a"}}

	got := rowSchema.Apply(rows, Query{SortBy: "missing"})
	assert.Equal(t, []string{"b", "a"}, names(got.Items))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	rows := []row{{name: "b"}, {name: "a"}}

	rowSchema.Apply(rows, Query{SortBy: "name"})
	assert.Equal(t, []string{"b", "a"}, names(rows))
}

func TestApply_Paging(t *testing.T) {
	rows := []row{{name: "a"}, {name: "b"}, {name: "c"}}

	got := rowSchema.Apply(rows, Query{Offset: 1, Limit: 1})
	assert.Equal(t, []string{"b"}, names(got.Items))
	assert.Equal(t, 3, got.Total)

	got = rowSchema.Apply(rows, Query{Offset: 5})
	assert.Empty(t, got.Items)
}

func TestSortKeys(t *testing.T) {
	assert.Equal(t, []string{"name", "revenue"}, rowSchema.SortKeys())
}
