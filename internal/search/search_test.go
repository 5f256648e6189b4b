package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/perch/internal/project"
)

func fixtures() []project.Project {
	return []project.Project{
		{Name: "perch", Tags: []string{"go", "cli"}},
		{Name: "website", Tags: []string{"web", "hugo"}},
		{Name: "go-tools", Tags: []string{"golang"}},
		{Name: "notes", Tags: []string{}},
	}
}

func matchNames(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Project.Name
	}
	return out
}

func projectNames(projects []project.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Name
	}
	return out
}

func TestFuzzy_EmptyQueryKeepsAll(t *testing.T) {
	got := Fuzzy(fixtures(), "")
	assert.Equal(t, []string{"perch", "website", "go-tools", "notes"}, matchNames(got))
}

func TestFuzzy_DropsNonMatching(t *testing.T) {
	got := Fuzzy(fixtures(), "xyzzy")
	assert.Empty(t, got)
}

func TestFuzzy_MatchesName(t *testing.T) {
	got := Fuzzy(fixtures(), "prch")
	require.NotEmpty(t, got)
	assert.Equal(t, "perch", got[0].Project.Name)
	assert.Greater(t, got[0].Score, 0)
}

func TestFuzzy_MatchesTags(t *testing.T) {
	got := Fuzzy(fixtures(), "#hugo")
	require.Len(t, got, 1)
	assert.Equal(t, "website", got[0].Project.Name)
}

func TestFuzzy_SmartCase(t *testing.T) {
	assert.NotEmpty(t, Fuzzy(fixtures(), "perch"))
	assert.NotEmpty(t, Fuzzy([]project.Project{{Name: "Perch"}}, "perch"))
	assert.Empty(t, Fuzzy([]project.Project{{Name: "perch"}}, "Perch"))
}

func TestFuzzy_RankedByScore(t *testing.T) {
	got := Fuzzy(fixtures(), "go")
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestSuggest(t *testing.T) {
	name, ok := Suggest(fixtures(), "webste")
	require.True(t, ok)
	assert.Equal(t, "website", name)

	_, ok = Suggest(fixtures(), "qqq")
	assert.False(t, ok)

	_, ok = Suggest(fixtures(), "")
	assert.False(t, ok)

	_, ok = Suggest(nil, "perch")
	assert.False(t, ok)
}

func TestTagGlob(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"go*", []string{"perch", "go-tools"}},
		{"web", []string{"website"}},
		{"{cli,hugo}", []string{"perch", "website"}},
		{"*", []string{"perch", "website", "go-tools"}},
		{"rust", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := TagGlob(fixtures(), tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, projectNames(got))
		})
	}
}

func TestTagGlob_InvalidPattern(t *testing.T) {
	_, err := TagGlob(fixtures(), "[unclosed")
	require.Error(t, err)
}
