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

package ingestion

import (
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/lexicon"
)

var (
	emailRe     = regexp.MustCompile(`[\w.+\-]+@[\w\-]+(?:\.[\w\-]+)+`)
	phoneRe     = regexp.MustCompile(`\+?\d[\d\s\-()]{7,}\d`)
	linkedinRe  = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/[A-Za-z0-9_/\-]+`)
	githubRe    = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_\-]+`)
	urlRe       = regexp.MustCompile(`(?i)https?://[^\s]+`)
	yearsRe     = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:years|yrs)`)
	gpaRe       = regexp.MustCompile(`(?i)(?:cgpa|gpa)\s*[:=]?\s*([0-9](?:\.[0-9]+)?)\b`)
	hackWinRe   = regexp.MustCompile(`(?:won|winners?)\s+(?:at\s+)?[a-z0-9 \-]+?\s*hackathons?`)
	hackCountRe = regexp.MustCompile(`(\d+)\s*\+?\s*hackathons?\s*(?:won|wins)`)
	locationRe  = regexp.MustCompile(`(?im)^\s*(?:location|address|based in)\s*[:\-]\s*([^\n,|]+)`)
	bulletRe    = regexp.MustCompile(`^\s*[\x{2022}\-*]\s+`)

	dateToken   = `(?:[A-Za-z]{3,9}\.?\s+\d{4}|\d{1,2}/\d{4}|\d{4})`
	dateRangeRe = regexp.MustCompile(`(?i)(` + dateToken + `)\s*(?:[-\x{2013}\x{2014}]|to)\s*(present|current|now|` + dateToken + `)`)
)

// Keyword sets behind the activity scores. Each phrase present counts once.
var (
	extracurricularWords = lexicon.NewMatcher("hackathon", "open source", "volunteer", "ngo",
		"community", "olympiad", "sports", "captain", "event organizer", "fest", "core team", "club")
	responsibilityWords = lexicon.NewMatcher("president", "secretary", "lead", "team lead", "founder",
		"co-founder", "chair", "head", "captain", "coordinator", "core team")
	leadershipWords = lexicon.NewMatcher("leadership", "led a team", "managed", "mentored",
		"spearheaded", "ownership")
)

type section int

const (
	sectionNone section = iota
	sectionEducation
	sectionExperience
	sectionProjects
	sectionCertifications
	sectionAchievements
	sectionPublications
	sectionSkills
)

// Headings must stand alone on their line, optionally followed by a colon
// or dash, so prose such as "Experience with Kafka" is not a heading.
var headings = []struct {
	kind section
	re   *regexp.Regexp
}{
	{sectionEducation, heading(`education|academics`)},
	{sectionExperience, heading(`experience|work experience|professional experience|employment`)},
	{sectionProjects, heading(`projects?|academic projects?|personal projects?|key projects?`)},
	{sectionCertifications, heading(`certifications?|licenses?`)},
	{sectionAchievements, heading(`achievements?|awards?|honors?`)},
	{sectionPublications, heading(`publications?|research`)},
	{sectionSkills, heading(`skills|tech skills|technical skills`)},
}

func heading(alts string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*(?:` + alts + `)\s*[:\-\x{2013}]?\s*$`)
}

func headingOf(line string) section {
	for _, h := range headings {
		if h.re.MatchString(line) {
			return h.kind
		}
	}
	return sectionNone
}

// Extractor derives candidate features from plain resume text.
type Extractor struct {
	lex *lexicon.Lexicon
	now func() time.Time
}

// NewExtractor creates an Extractor. A nil lex uses lexicon.Default().
func NewExtractor(lex *lexicon.Lexicon) *Extractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Extractor{lex: lex, now: time.Now}
}

var defaultExtractor = NewExtractor(nil)

// ExtractCandidate parses text with the default lexicon. source is kept
// on the candidate and used for the name when the text has none.
func ExtractCandidate(text, source string) *core.Candidate {
	return defaultExtractor.Extract(text, source)
}

// Extract parses resume text into a candidate. It never fails: fields it
// cannot find are left at their zero value.
func (e *Extractor) Extract(text, source string) *core.Candidate {
	lines := splitLines(text)
	low := strings.ToLower(text)

	c := &core.Candidate{
		Name:     nameOf(lines, source),
		Email:    emailOf(text),
		Phone:    phoneOf(text),
		Location: locationOf(text),
		Source:   source,
		Text:     text,
	}
	c.Links = core.Links{
		LinkedIn:  linkedinRe.FindString(text),
		GitHub:    githubRe.FindString(text),
		Portfolio: portfolioOf(text),
	}

	c.Skills = e.lex.ExtractSkills(text)
	c.SoftSkills = e.lex.ExtractSoftSkills(text)
	c.Institutions = e.lex.ExtractInstitutions(text)
	c.Degrees = e.lex.ExtractDegrees(text)
	c.Majors = e.lex.ExtractMajors(text)
	c.Roles = e.lex.ExtractResumeRoles(text, c.Skills)

	c.Projects = e.projects(lines)
	c.ProjectCount = len(c.Projects)

	var months int
	c.Experience, months = e.experience(lines)
	c.YearsExperience = mentionedYears(text)
	if c.YearsExperience == 0 {
		c.YearsExperience = math.Round(float64(months)/12*100) / 100
	}

	c.GPA = gpaOf(text)
	c.HackathonWins = hackathonWins(low)
	c.ExtracurricularScore = extracurricularWords.Count(low)
	c.ResponsibilityScore = responsibilityWords.Count(low)
	c.LeadershipScore = leadershipWords.Count(low)

	c.Certifications = sectionItems(lines, sectionCertifications, 160)
	c.Achievements = sectionItems(lines, sectionAchievements, 200)
	c.Publications = sectionItems(lines, sectionPublications, 200)

	c.Fingerprint = core.IDFromContent(text)
	return c
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, len(raw))
	for i, ln := range raw {
		out[i] = strings.TrimRight(ln, " \t\r")
	}
	return out
}

func nameOf(lines []string, source string) string {
	for _, ln := range lines {
		if s := strings.TrimSpace(ln); s != "" {
			return truncate(s, 120)
		}
	}
	if source != "" {
		base := filepath.Base(source)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "Candidate"
}

func emailOf(text string) string {
	email := emailRe.FindString(text)
	if email == "" {
		return ""
	}
	if err := core.Validator().Var(email, "email"); err != nil {
		return ""
	}
	return email
}

// phoneOf returns the first phone-like run with at least ten digits.
// Shorter runs are usually date ranges such as "2019 - 2021".
func phoneOf(text string) string {
	for _, m := range phoneRe.FindAllString(text, -1) {
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 10 {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func locationOf(text string) string {
	m := locationRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func portfolioOf(text string) string {
	for _, u := range urlRe.FindAllString(text, -1) {
		lu := strings.ToLower(u)
		if strings.Contains(lu, "linkedin.com") || strings.Contains(lu, "github.com") {
			continue
		}
		return strings.TrimRight(u, ".,;)")
	}
	return ""
}

func mentionedYears(text string) float64 {
	var best float64
	for _, m := range yearsRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil && n > best {
			best = n
		}
	}
	return best
}

func gpaOf(text string) *float64 {
	m := gpaRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v < 0 || v > 10 {
		return nil
	}
	v = math.Round(v*100) / 100
	return &v
}

func hackathonWins(low string) int {
	wins := len(hackWinRe.FindAllString(low, -1))
	if m := hackCountRe.FindStringSubmatch(low); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > wins {
			wins = n
		}
	}
	return wins
}

// sectionBody returns the lines following each heading of kind, up to the
// next heading of any kind.
func sectionBody(lines []string, kind section) [][]string {
	var out [][]string
	for i := 0; i < len(lines); i++ {
		if headingOf(lines[i]) != kind {
			continue
		}
		var body []string
		j := i + 1
		for ; j < len(lines) && headingOf(lines[j]) == sectionNone; j++ {
			body = append(body, lines[j])
		}
		out = append(out, body)
		i = j - 1
	}
	return out
}

// blocks groups section lines into paragraphs separated by blank lines,
// with bullets stripped.
func blocks(body []string) [][]string {
	var out [][]string
	var cur []string
	for _, ln := range append(body, "") {
		if strings.TrimSpace(ln) == "" {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, strings.TrimSpace(bulletRe.ReplaceAllString(ln, "")))
	}
	return out
}

func sectionItems(lines []string, kind section, limit int) []string {
	var out []string
	for _, body := range sectionBody(lines, kind) {
		for _, ln := range body {
			if s := strings.TrimSpace(bulletRe.ReplaceAllString(ln, "")); s != "" {
				out = append(out, truncate(s, limit))
			}
		}
	}
	return out
}

func (e *Extractor) projects(lines []string) []core.Project {
	var out []core.Project
	for _, body := range sectionBody(lines, sectionProjects) {
		for _, b := range blocks(body) {
			head := b
			if len(head) > 6 {
				head = head[:6]
			}
			desc := strings.Join(head, " ")
			out = append(out, core.Project{
				Title:       truncate(strings.Trim(b[0], "-–•* "), 120),
				Description: truncate(desc, 600),
				Tech:        e.lex.ExtractSkills(strings.Join(b, " ")),
			})
		}
	}
	return out
}

// experience returns the dated experience entries and their total length
// in months. A range ending in "present" runs to the extractor's clock.
func (e *Extractor) experience(lines []string) ([]core.ExperienceEntry, int) {
	var (
		out   []core.ExperienceEntry
		total int
	)
	now := e.now()
	for _, body := range sectionBody(lines, sectionExperience) {
		for _, b := range blocks(body) {
			text := strings.Join(b, " ")
			entry := core.ExperienceEntry{Text: truncate(text, 600)}
			if m := dateRangeRe.FindStringSubmatch(text); m != nil {
				entry.Range = m[0]
				if start, ok := parseMonth(m[1]); ok {
					end, ok := parseMonth(m[2])
					if !ok {
						end = now
					}
					months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
					if months < 0 {
						months = 0
					}
					entry.Months = months
					total += months
				}
			}
			out = append(out, entry)
		}
	}
	return out, total
}

var monthPrefixes = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// parseMonth understands "Jan 2020", "Sept. 2020", "03/2020" and "2020".
// A bare year, or a year after a word that is not a month, means January.
// Words such as "present" do not parse.
func parseMonth(s string) (time.Time, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ".", ""))
	fields := strings.Fields(s)
	switch {
	case len(fields) == 2:
		year, err := strconv.Atoi(fields[1])
		if err != nil {
			return time.Time{}, false
		}
		month := time.January
		if word := strings.ToLower(fields[0]); len(word) >= 3 {
			if m, ok := monthPrefixes[word[:3]]; ok {
				month = m
			}
		}
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
	case strings.Contains(s, "/"):
		parts := strings.SplitN(s, "/", 2)
		month, err1 := strconv.Atoi(parts[0])
		year, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || month < 1 || month > 12 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
	default:
		year, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
