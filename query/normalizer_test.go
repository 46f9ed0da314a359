package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	n := NewNormalizer(nil)

	for _, prompt := range []string{"hello", "", "   "} {
		t.Run(prompt, func(t *testing.T) {
			f := n.Normalize(prompt).Filters
			assert.Equal(t, 0.0, f.MinExperience)
			assert.Empty(t, f.MustHaveSkills)
			assert.Empty(t, f.EducationAnyOf)
			assert.Empty(t, f.RolesAnyOf)
			assert.Nil(t, f.Location)
			assert.Equal(t, 0, f.MinProjects)
			assert.Nil(t, f.MinGPA)
			assert.Equal(t, 0, f.MinHackathonWins)
			assert.Nil(t, f.ContainsPhrase)
			assert.False(t, f.RequireExtracurricular)
			assert.False(t, f.RequireResponsibility)
		})
	}
}

func TestNormalizeMernFromIIT(t *testing.T) {
	res := NewNormalizer(nil).Normalize("mern developers from iit with minimum 4 years experience")

	assert.Subset(t, res.Filters.MustHaveSkills, []string{"mongodb", "express", "react", "node"})
	assert.NotContains(t, res.Filters.MustHaveSkills, "mern")
	assert.Equal(t, 4.0, res.Filters.MinExperience)
	assert.Equal(t, []string{"IIT"}, res.Filters.EducationAnyOf)
	assert.Nil(t, res.Filters.Location)
}

func TestNormalizeGPA(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		prompt string
		want   *float64
	}{
		{"cgpa above 8.5", ptr(8.5)},
		{"GPA of at least 7", ptr(7.0)},
		{"minimum 9.2 cgpa", ptr(9.2)},
		{"8+ cgpa students", ptr(8.0)},
		{"cgpa: 6.5", ptr(6.5)},
		{"no grades mentioned", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			got := n.Normalize(tt.prompt).Filters.MinGPA
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestNormalizeProjects(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, 3, n.Normalize("at least 3 projects").Filters.MinProjects)
	assert.Equal(t, 5, n.Normalize("2 projects or 5+ projects").Filters.MinProjects)
	assert.Equal(t, 4, n.Normalize("more than 4 projects, ideally 6 projects").Filters.MinProjects)
}

func TestNormalizeHackathons(t *testing.T) {
	n := NewNormalizer(nil)
	assert.Equal(t, 2, n.Normalize("candidates who won at least 2 hackathons").Filters.MinHackathonWins)
	assert.Equal(t, 0, n.Normalize("likes hackathons").Filters.MinHackathonWins)
}

func TestNormalizeLocation(t *testing.T) {
	n := NewNormalizer(nil)

	res := n.Normalize("react developers in Bangalore with 3 years")
	require.NotNil(t, res.Filters.Location)
	assert.Equal(t, "bangalore", *res.Filters.Location)

	res = n.Normalize("engineers located in new delhi")
	require.NotNil(t, res.Filters.Location)
	assert.Equal(t, "new delhi", *res.Filters.Location)

	assert.Nil(t, n.Normalize("skilled in python").Filters.Location)

	res = n.Normalize("skilled in python, based in pune")
	require.NotNil(t, res.Filters.Location)
	assert.Equal(t, "pune", *res.Filters.Location)
}

func TestNormalizePhrase(t *testing.T) {
	n := NewNormalizer(nil)

	res := n.Normalize(`someone with "payment gateway" work`)
	require.NotNil(t, res.Filters.ContainsPhrase)
	assert.Equal(t, "payment gateway", *res.Filters.ContainsPhrase)

	res = n.Normalize("candidate who built a chat app project")
	require.NotNil(t, res.Filters.ContainsPhrase)
	assert.Equal(t, "a chat app", *res.Filters.ContainsPhrase)
}

func TestNormalizeRolesExpandSkills(t *testing.T) {
	res := NewNormalizer(nil).Normalize("devops engineer with 2 yrs")

	assert.Equal(t, []string{"devops"}, res.Filters.RolesAnyOf)
	assert.Equal(t, []string{"devops"}, res.Roles)
	assert.Empty(t, res.Skills)
	assert.Subset(t, res.Filters.MustHaveSkills, []string{"docker", "kubernetes", "terraform", "aws", "ci/cd"})
	assert.Equal(t, 2.0, res.Filters.MinExperience)
}

func TestNormalizeFlags(t *testing.T) {
	n := NewNormalizer(nil)

	f := n.Normalize("active in a coding club, team lead preferred").Filters
	assert.True(t, f.RequireExtracurricular)
	assert.True(t, f.RequireResponsibility)

	f = n.Normalize("wrote the quarterly report").Filters
	assert.False(t, f.RequireResponsibility)
}

func TestFirst(t *testing.T) {
	var miss Extractor[int] = func(string) (int, bool) { return 0, false }
	hit := func(v int) Extractor[int] {
		return func(string) (int, bool) { return v, true }
	}

	v, ok := First("x", miss, hit(2), hit(3))
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = First("x", miss)
	assert.False(t, ok)
}

func ptr(v float64) *float64 { return &v }
