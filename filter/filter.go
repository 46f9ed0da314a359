// Package filter applies structured constraints to a candidate pool.
//
// Every populated field of a core.StructuredFilters must hold for a
// candidate to survive (AND semantics). Survivors keep their input order.
package filter

import (
	"strings"

	"github.com/poiesic/hirex/core"
)

// Apply returns the candidates in pool that satisfy f, in input order.
func Apply(pool []*core.Candidate, f core.StructuredFilters) []*core.Candidate {
	out := make([]*core.Candidate, 0, len(pool))
	for _, c := range pool {
		if c != nil && Matches(c, f) {
			out = append(out, c)
		}
	}
	return out
}

// Matches reports whether c satisfies every populated constraint in f.
func Matches(c *core.Candidate, f core.StructuredFilters) bool {
	if f.MinExperience > 0 && c.YearsExperience < f.MinExperience {
		return false
	}
	if len(f.MustHaveSkills) > 0 && !isSubset(f.MustHaveSkills, c.Skills) {
		return false
	}
	if len(f.EducationAnyOf) > 0 && !intersects(f.EducationAnyOf, c.Institutions) {
		return false
	}
	if len(f.RolesAnyOf) > 0 && !intersects(f.RolesAnyOf, c.Roles) {
		return false
	}
	if f.Location != nil && *f.Location != "" && !strings.EqualFold(c.Location, *f.Location) {
		return false
	}
	if f.MinProjects > 0 && c.ProjectCount < f.MinProjects {
		return false
	}
	if f.MinGPA != nil && c.GPAValue() < *f.MinGPA {
		return false
	}
	if f.MinHackathonWins > 0 && c.HackathonWins < f.MinHackathonWins {
		return false
	}
	if f.RequireExtracurricular && c.ExtracurricularScore == 0 {
		return false
	}
	if f.RequireResponsibility && c.ResponsibilityScore == 0 {
		return false
	}
	if f.ContainsPhrase != nil {
		if phrase := strings.ToLower(strings.TrimSpace(*f.ContainsPhrase)); phrase != "" && !mentions(c, phrase) {
			return false
		}
	}
	return true
}

// mentions looks for a lower-cased phrase in the candidate's projects,
// then in the full resume text.
func mentions(c *core.Candidate, phrase string) bool {
	for _, p := range c.Projects {
		if strings.Contains(strings.ToLower(p.Title+" "+p.Description), phrase) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(c.Text), phrase)
}

func isSubset(required, have []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
