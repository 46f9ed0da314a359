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

package core

import (
	"encoding/binary"
	"sort"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for candidates.
// Stored candidates get IDs from a database sequence; IDFromContent
// produces content fingerprints.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical resume text always produces the same fingerprint.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Links holds a candidate's public profile URLs.
type Links struct {
	LinkedIn  string
	GitHub    string
	Portfolio string
}

// Project is a project listed on a resume.
type Project struct {
	Title       string
	Description string
	Tech        []string
}

// ExperienceEntry is a single dated stint of work experience.
type ExperienceEntry struct {
	Range  string // Date range as written, e.g. "Jan 2020 - Mar 2022"
	Months int
	Text   string
}

// Candidate is a parsed resume with its derived features.
//
// Set-valued fields hold sorted, deduplicated canonical labels. Numeric
// scores are never negative and GPA, when present, lies in [0,10].
type Candidate struct {
	Id          ID
	Fingerprint ID // IDFromContent of Text
	Name        string `validate:"max=256"`
	Email       string `validate:"omitempty,email"`
	Phone       string
	Location    string
	Links       Links
	Source      string // Where the resume came from, usually a file path

	YearsExperience      float64  `validate:"gte=0"`
	GPA                  *float64 `validate:"omitempty,gte=0,lte=10"`
	ProjectCount         int      `validate:"gte=0"`
	HackathonWins        int      `validate:"gte=0"`
	ExtracurricularScore int      `validate:"gte=0"`
	LeadershipScore      int      `validate:"gte=0"`
	ResponsibilityScore  int      `validate:"gte=0"`

	Skills       []string
	SoftSkills   []string
	Institutions []string
	Degrees      []string
	Majors       []string
	Roles        []string

	Projects       []Project
	Experience     []ExperienceEntry
	Certifications []string
	Achievements   []string
	Publications   []string

	Text       string `validate:"required"`
	InsertedAt time.Time
}

// GPAValue returns the candidate's GPA or 0 when it is unknown.
func (c *Candidate) GPAValue() float64 {
	if c.GPA == nil {
		return 0
	}
	return *c.GPA
}

// IndexEntry is the metadata stored alongside a vector in the index.
type IndexEntry struct {
	CandidateID ID     `json:"id"`
	Name        string `json:"name"`
}

// StructuredFilters is the constraint set derived from a recruiter prompt.
// The zero value places no constraint on any field.
type StructuredFilters struct {
	MinExperience          float64  `json:"min_experience"`
	MustHaveSkills         []string `json:"must_have_skills"`
	EducationAnyOf         []string `json:"education_any_of"`
	RolesAnyOf             []string `json:"roles_any_of"`
	Location               *string  `json:"location"`
	MinProjects            int      `json:"min_projects"`
	MinGPA                 *float64 `json:"min_cgpa"`
	MinHackathonWins       int      `json:"min_hackathon_wins"`
	RequireExtracurricular bool     `json:"require_extracurricular"`
	RequireResponsibility  bool     `json:"require_por"`
	ContainsPhrase         *string  `json:"contains_phrase"`
}

// NormalizeSet lower-cases, trims, deduplicates and sorts labels.
// Empty labels are dropped. The result is never nil.
func NormalizeSet(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// SortedSet deduplicates and sorts labels without changing their case.
func SortedSet(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Intersect returns the labels present in both sets, sorted.
func Intersect(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	var out []string
	for _, s := range SortedSet(a) {
		if _, ok := in[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
