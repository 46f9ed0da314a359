package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSkills(t *testing.T) {
	lex := Default()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain vocabulary", "Worked with Python and Docker", []string{"docker", "python"}},
		{"aliases canonicalized", "ReactJS frontends on Node.js with Postgres", []string{"node", "postgresql", "react"}},
		{"mern expands", "mern developers", []string{"express", "mongodb", "node", "react"}},
		{"mern stack alias expands", "MERN Stack engineer", []string{"express", "mongodb", "node", "react"}},
		{"punctuated skills", "Fluent in C++ and ci/cd pipelines", []string{"c", "c++", "ci/cd"}},
		{"whole words only", "gopher restaurant javascripts", []string{}},
		{"nothing found", "hello", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lex.ExtractSkills(tt.text))
		})
	}
}

func TestExtractSkillsIdempotent(t *testing.T) {
	lex := Default()
	first := lex.ExtractSkills("Built APIs in Go, Kubernetes, AWS and React.js")
	joined := ""
	for _, s := range first {
		joined += s + " "
	}
	assert.Equal(t, first, lex.ExtractSkills(joined))
}

func TestCanonicalSkills(t *testing.T) {
	lex := Default()
	assert.Equal(t, []string{"express", "mongodb", "node", "react"}, lex.CanonicalSkills([]string{"mern", "node.js"}))
}

func TestExtractSoftSkills(t *testing.T) {
	lex := Default()
	assert.Equal(t, []string{"leadership", "problem solving"}, lex.ExtractSoftSkills("Strong Leadership and problem solving"))
}

func TestExtractInstitutions(t *testing.T) {
	lex := Default()
	assert.Equal(t, []string{"IIT"}, lex.ExtractInstitutions("B.Tech, Indian Institute of Technology Delhi"))
	assert.Equal(t, []string{"BITS", "NIT"}, lex.ExtractInstitutions("BITS Pilani, then NIT Trichy"))
	assert.Empty(t, lex.ExtractInstitutions("Unit testing"))
}

func TestExtractDegreesAndMajors(t *testing.T) {
	lex := Default()
	assert.Contains(t, lex.ExtractDegrees("B.Tech in Computer Science"), "b.tech")
	assert.Contains(t, lex.ExtractMajors("B.Tech in Computer Science"), "computer science")
}

func TestNormalizeRoles(t *testing.T) {
	lex := Default()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"title alias", "Hiring a Site Reliability Engineer", []string{"sre"}},
		{"canonical tag", "looking for devops people", []string{"devops"}},
		{"alias and tag", "backend developer or frontend", []string{"backend", "frontend"}},
		{"none", "hello", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lex.NormalizeRoles(tt.text))
		})
	}
}

func TestRolesFromSkills(t *testing.T) {
	lex := Default()
	assert.Equal(t, []string{"cloud", "devops", "sre"}, lex.RolesFromSkills([]string{"docker", "aws"}))
	assert.Empty(t, lex.RolesFromSkills([]string{"unknown"}))
}

func TestExpandSkillsForRoles(t *testing.T) {
	lex := Default()
	assert.Equal(t, []string{"aws", "ci/cd", "docker", "kubernetes", "terraform"}, lex.ExpandSkillsForRoles([]string{"devops"}))
}

func TestExtractResumeRoles(t *testing.T) {
	lex := Default()
	got := lex.ExtractResumeRoles("Worked as a Data Engineer", []string{"react"})
	assert.Equal(t, []string{"data-engineer", "frontend"}, got)
}

func TestInstitutionTiers(t *testing.T) {
	lex := Default()
	assert.Equal(t, 1.0, lex.InstitutionTier("IIT"))
	assert.Equal(t, 0.0, lex.InstitutionTier("MIT"))
	assert.Equal(t, 0.9, lex.BestTier([]string{"NIT", "BITS"}))
	assert.Equal(t, 0.0, lex.BestTier(nil))
}

func TestContainsWord(t *testing.T) {
	assert.True(t, ContainsWord("Strong POR record", "por"))
	assert.False(t, ContainsWord("quarterly report", "por"))
}

func TestMatcherCount(t *testing.T) {
	m := NewMatcher("captain", "club", "open source")
	assert.Equal(t, 3, m.Count("Football captain, Open Source club member"))
	assert.Equal(t, 1, m.Count("open-source contributor and captain"))
	assert.Equal(t, 0, m.Count("clubhouse"))
}
