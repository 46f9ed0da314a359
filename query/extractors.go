package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Extractor pulls one value out of lower-cased prompt text. The boolean
// reports whether the extractor found anything.
type Extractor[T any] func(text string) (T, bool)

// First runs extractors in order and returns the first success.
func First[T any](text string, chain ...Extractor[T]) (T, bool) {
	for _, extract := range chain {
		if v, ok := extract(text); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

const qualifier = `(?:>=|=>|≥|at\s*least|minimum|min|more\s*than|above|over)`

var (
	yearsRe = regexp.MustCompile(`(\d+)\s*\+?\s*(?:years|yrs|y)\b`)

	projectsQualifiedRe = regexp.MustCompile(`(?:more than|>=?|at\s*least|minimum|min)\s*(\d+)\s*(?:projects?)`)
	projectsBareRe      = regexp.MustCompile(`(\d+)\s*\+?\s*(?:projects?)`)

	gpaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:cgpa|gpa)\s*(?:of\s*)?` + qualifier + `?\s*([0-9](?:\.[0-9])?)`),
		regexp.MustCompile(qualifier + `\s*([0-9](?:\.[0-9])?)\s*(?:cgpa|gpa)`),
		regexp.MustCompile(`([0-9](?:\.[0-9])?)\s*\+?\s*(?:cgpa|gpa)`),
		regexp.MustCompile(`(?:cgpa|gpa)\s*[:=]\s*([0-9](?:\.[0-9])?)`),
	}

	hackathonRe = regexp.MustCompile(`(?:won|wins?)\s*(?:more than|>=?|at\s*least|minimum|min)?\s*(\d+)\s*(?:hackathons?)`)

	locationRe = regexp.MustCompile(`\b(?:in|located in)\s+([a-z][a-z\s]+)\b`)

	quotedPhraseRe = regexp.MustCompile(`(?:about|with|on|titled|named)\s+"([^"]+)"`)
	builtPhraseRe  = regexp.MustCompile(`(?:who|candidate).*?(?:built|made|did)\s+([a-z0-9 \-]+?)\s+(?:project|solution|system)`)
)

// locationStops end a location capture; a prompt usually continues
// with another constraint after the place name.
var locationStops = map[string]struct{}{
	"with": {}, "from": {}, "who": {}, "having": {}, "and": {}, "for": {},
	"that": {}, "minimum": {}, "min": {}, "at": {}, "or": {}, "has": {},
}

func atoi(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	return v, err == nil
}

// regexInt returns an extractor yielding the first capture of re.
func regexInt(re *regexp.Regexp) Extractor[int] {
	return func(text string) (int, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
		return atoi(m[1])
	}
}

// maxRegexInt returns an extractor yielding the largest capture of re
// over all matches.
func maxRegexInt(re *regexp.Regexp) Extractor[int] {
	return func(text string) (int, bool) {
		best, found := 0, false
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if v, ok := atoi(m[1]); ok && (!found || v > best) {
				best, found = v, true
			}
		}
		return best, found
	}
}

// gpaPattern returns an extractor accepting re's first match only when
// its value lies in [0,10].
func gpaPattern(re *regexp.Regexp) Extractor[float64] {
	return func(text string) (float64, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v < 0 || v > 10 {
			return 0, false
		}
		return v, true
	}
}

func yearsExtractor(text string) (float64, bool) {
	v, ok := regexInt(yearsRe)(text)
	return float64(v), ok
}

func quotedPhrase(text string) (string, bool) {
	m := quotedPhraseRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func builtPhrase(text string) (string, bool) {
	m := builtPhraseRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	phrase := strings.TrimSpace(m[1])
	return phrase, phrase != ""
}

// locationCaptures takes the words after each "in" or "located in" up to
// the first stop word, in prompt order.
func locationCaptures(text string) []string {
	var out []string
	for _, m := range locationRe.FindAllStringSubmatch(text, -1) {
		var words []string
		for _, w := range strings.Fields(m[1]) {
			if _, stop := locationStops[w]; stop {
				break
			}
			words = append(words, w)
		}
		if loc := strings.Join(words, " "); loc != "" {
			out = append(out, loc)
		}
	}
	return out
}
