// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import (
	"strings"

	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/lexicon"
)

var (
	extracurricularWords = lexicon.NewMatcher("extracurricular", "extra curricular", "club", "fest", "volunteer", "community")
	responsibilityWords  = lexicon.NewMatcher("position of responsibility", "por", "leadership", "president", "secretary", "team lead")
)

// Result is a normalized recruiter prompt.
type Result struct {
	Filters core.StructuredFilters
	// Skills named in the prompt itself, before role expansion.
	Skills []string
	// Roles named in the prompt.
	Roles []string
}

// Normalizer turns free-text prompts into structured filters. Each
// field is resolved by an ordered chain of extractors; the first one
// that succeeds wins. A Normalizer is safe for concurrent use.
type Normalizer struct {
	lex *lexicon.Lexicon

	experience []Extractor[float64]
	projects   []Extractor[int]
	gpa        []Extractor[float64]
	hackathons []Extractor[int]
	location   []Extractor[string]
	phrase     []Extractor[string]
}

// NewNormalizer creates a Normalizer backed by lex. A nil lex uses
// lexicon.Default().
func NewNormalizer(lex *lexicon.Lexicon) *Normalizer {
	if lex == nil {
		lex = lexicon.Default()
	}
	n := &Normalizer{
		lex:        lex,
		experience: []Extractor[float64]{yearsExtractor},
		projects:   []Extractor[int]{regexInt(projectsQualifiedRe), maxRegexInt(projectsBareRe)},
		hackathons: []Extractor[int]{regexInt(hackathonRe)},
		phrase:     []Extractor[string]{quotedPhrase, builtPhrase},
	}
	for _, re := range gpaPatterns {
		n.gpa = append(n.gpa, gpaPattern(re))
	}
	n.location = []Extractor[string]{n.placeName}
	return n
}

// Normalize extracts structured filters from prompt. It never fails:
// fields without a matching pattern keep their "no constraint" default.
func (n *Normalizer) Normalize(prompt string) Result {
	p := strings.ToLower(prompt)

	roles := n.lex.NormalizeRoles(p)
	skills := n.lex.ExtractSkills(p)
	must := core.SortedSet(append(append([]string{}, skills...), n.lex.ExpandSkillsForRoles(roles)...))

	f := core.StructuredFilters{
		MustHaveSkills: must,
		EducationAnyOf: n.lex.ExtractInstitutions(p),
		RolesAnyOf:     roles,
	}
	f.MinExperience, _ = First(p, n.experience...)
	f.MinProjects, _ = First(p, n.projects...)
	f.MinHackathonWins, _ = First(p, n.hackathons...)
	if v, ok := First(p, n.gpa...); ok {
		f.MinGPA = &v
	}
	if v, ok := First(p, n.location...); ok {
		f.Location = &v
	}
	if v, ok := First(p, n.phrase...); ok {
		f.ContainsPhrase = &v
	}
	f.RequireExtracurricular = extracurricularWords.Match(p)
	f.RequireResponsibility = responsibilityWords.Match(p)

	return Result{Filters: f, Skills: skills, Roles: roles}
}

// placeName returns the first location capture that names neither a
// skill nor a role, so "skilled in python, based in pune" yields pune.
func (n *Normalizer) placeName(text string) (string, bool) {
	for _, loc := range locationCaptures(text) {
		if len(n.lex.ExtractSkills(loc)) > 0 || len(n.lex.NormalizeRoles(loc)) > 0 {
			continue
		}
		return loc, true
	}
	return "", false
}
