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

package lexicon

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Lexicon holds the read-only vocabularies and alias tables used to turn
// free text into canonical labels. A Lexicon is safe for concurrent use.
type Lexicon struct {
	hardSkills  []term // canonical label -> variant pattern
	softSkills  []term
	degrees     []term
	majors      []term
	institutes  []term
	roleAliases []term
	roleTags    []term

	skillToRoles     map[string][]string
	roleToCoreSkills map[string][]string
	institutionTiers map[string]float64
	expansions       map[string][]string
}

// term pairs a canonical label with a compiled whole-word pattern.
type term struct {
	label string
	re    *regexp.Regexp
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the process-wide Lexicon built from the built-in tables.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		defaultLex = New()
	})
	return defaultLex
}

// New builds a Lexicon from the built-in tables.
func New() *Lexicon {
	l := &Lexicon{
		skillToRoles:     skillToRoles,
		roleToCoreSkills: roleToCoreSkills,
		institutionTiers: institutionTiers,
		expansions:       skillExpansions,
	}

	for _, s := range hardSkills {
		l.hardSkills = append(l.hardSkills, newTerm(canonicalSkill(s), s))
	}
	for variant, canon := range skillAliases {
		l.hardSkills = append(l.hardSkills, newTerm(canon, variant))
	}
	l.softSkills = newTerms(softSkills)
	l.degrees = newTerms(degrees)
	l.majors = newTerms(majors)
	for canon, variants := range eliteInstitutes {
		for _, v := range variants {
			l.institutes = append(l.institutes, newTerm(canon, v))
		}
	}
	for alias, role := range roleAliases {
		l.roleAliases = append(l.roleAliases, newTerm(role, alias))
	}
	l.roleTags = newTerms(roleTags)
	return l
}

func canonicalSkill(s string) string {
	if canon, ok := skillAliases[s]; ok {
		return canon
	}
	return s
}

func newTerms(words []string) []term {
	out := make([]term, 0, len(words))
	for _, w := range words {
		out = append(out, newTerm(w, w))
	}
	return out
}

// newTerm compiles a case-insensitive whole-word pattern for a phrase.
// A boundary is the edge of the text or any character that is not a
// letter or digit, so phrases ending in punctuation such as "c++"
// still match as whole words.
func newTerm(label, phrase string) term {
	pattern := `(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(strings.ToLower(phrase)) + `(?:[^\p{L}\p{N}]|$)`
	return term{label: label, re: regexp.MustCompile(pattern)}
}

// Matcher reports whole-word, case-insensitive occurrences of any of a
// fixed set of phrases.
type Matcher struct {
	terms []term
}

// NewMatcher compiles phrases into a Matcher.
func NewMatcher(phrases ...string) *Matcher {
	return &Matcher{terms: newTerms(phrases)}
}

// Match reports whether any phrase occurs in text.
func (m *Matcher) Match(text string) bool {
	low := strings.ToLower(text)
	for _, t := range m.terms {
		if t.re.MatchString(low) {
			return true
		}
	}
	return false
}

// Count returns how many of the matcher's phrases occur in text.
func (m *Matcher) Count(text string) int {
	low := strings.ToLower(text)
	n := 0
	for _, t := range m.terms {
		if t.re.MatchString(low) {
			n++
		}
	}
	return n
}

// ContainsWord reports whether phrase occurs in text as a whole word,
// ignoring case.
func ContainsWord(text, phrase string) bool {
	return NewMatcher(phrase).Match(text)
}

// scan returns the sorted set of labels whose pattern matches text.
func scan(text string, terms []term) []string {
	low := strings.ToLower(text)
	found := make(map[string]struct{})
	for _, t := range terms {
		if _, ok := found[t.label]; ok {
			continue
		}
		if t.re.MatchString(low) {
			found[t.label] = struct{}{}
		}
	}
	return setOf(found)
}

func setOf(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
