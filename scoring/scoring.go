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

// Package scoring blends semantic similarity with normalized candidate
// features under a named weight profile and ranks the results.
package scoring

import (
	"sort"

	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/lexicon"
)

const (
	// RoleBonus is added to the weighted score when a candidate holds one
	// of the roles named in the query.
	RoleBonus = 0.05

	experienceSaturation      = 10.0 // years
	gpaScale                  = 10.0
	extracurricularSaturation = 5.0
)

// Breakdown holds the normalized inputs of a score.
type Breakdown struct {
	Semantic        float64 `json:"semantic"`
	Experience      float64 `json:"exp_norm"`
	GPA             float64 `json:"cgpa_norm"`
	Institution     float64 `json:"college_norm"`
	Extracurricular float64 `json:"extra_norm"`
}

// Scored is a candidate with its score.
type Scored struct {
	Candidate   *core.Candidate
	Parts       Breakdown
	Weighted    float64  // Profile blend, before the role bonus
	Bonus       float64  // Role bonus, 0 or RoleBonus
	Score       float64  // Weighted + Bonus
	RoleMatches []string // Query roles the candidate holds
}

// Scorer computes candidate scores.
type Scorer struct {
	lex *lexicon.Lexicon
}

// NewScorer creates a Scorer using lex for institution tiers. A nil lex
// uses lexicon.Default().
func NewScorer(lex *lexicon.Lexicon) *Scorer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Scorer{lex: lex}
}

// Breakdown normalizes the candidate's features. The semantic score is
// clamped to [0,1] so a weighted blend never leaves [0, profile sum].
func (s *Scorer) Breakdown(c *core.Candidate, semantic float64) Breakdown {
	return Breakdown{
		Semantic:        clamp(semantic),
		Experience:      clamp(c.YearsExperience / experienceSaturation),
		GPA:             clamp(c.GPAValue() / gpaScale),
		Institution:     s.lex.BestTier(c.Institutions),
		Extracurricular: clamp(float64(c.ExtracurricularScore) / extracurricularSaturation),
	}
}

// Weigh blends a breakdown under profile p.
func Weigh(b Breakdown, p Profile) float64 {
	return p.Semantic*b.Semantic +
		p.Experience*b.Experience +
		p.GPA*b.GPA +
		p.Institution*b.Institution +
		p.Extracurricular*b.Extracurricular
}

// Score computes the final score of c. queryRoles are the roles named in
// the query; a candidate holding any of them earns RoleBonus on top of
// the weighted blend.
func (s *Scorer) Score(c *core.Candidate, p Profile, semantic float64, queryRoles []string) Scored {
	parts := s.Breakdown(c, semantic)
	out := Scored{
		Candidate: c,
		Parts:     parts,
		Weighted:  Weigh(parts, p),
	}
	if len(queryRoles) > 0 {
		out.RoleMatches = core.Intersect(queryRoles, c.Roles)
		if len(out.RoleMatches) > 0 {
			out.Bonus = RoleBonus
		}
	}
	out.Score = out.Weighted + out.Bonus
	return out
}

// ProxySemantic stands in for embedding similarity when retrieval yields
// no scores: the fraction of query skills the candidate has. It is 0 when
// the query names no skills.
func ProxySemantic(querySkills, candidateSkills []string) float64 {
	q := core.SortedSet(querySkills)
	if len(q) == 0 {
		return 0
	}
	return float64(len(core.Intersect(q, candidateSkills))) / float64(len(q))
}

// Rank sorts by score descending, breaking ties by ascending candidate
// ID, then keeps the first limit entries. A non-positive limit keeps all.
func Rank(items []Scored, limit int) []Scored {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Candidate.Id < items[j].Candidate.Id
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
