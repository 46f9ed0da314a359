package search

import (
	"strings"
	"unicode"
)

// SnippetWindow is the length, in characters, of result snippets.
const SnippetWindow = 220

// Stop words to skip when picking a snippet anchor from the prompt
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "who": true, "or": true, "least": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation, and removes stop words
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// snippet returns a window of text centred on the first occurrence of
// anchor, ignoring case. When anchor does not occur, the first prompt word
// that does is used; failing that, the window starts at the beginning.
// Newlines become spaces.
func snippet(text, anchor string, window int) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	start := 0
	if at := findRunes(lower, anchor); at >= 0 {
		start = max(0, at-window/2)
	} else {
		for _, w := range tokenizeAndFilter(anchor) {
			if at := findRunes(lower, w); at >= 0 {
				start = max(0, at-window/2)
				break
			}
		}
	}
	end := min(len(runes), start+window)
	return strings.ReplaceAll(string(runes[start:end]), "\n", " ")
}

// findRunes returns the rune offset of needle in haystack, which must
// already be lowercase, or -1.
func findRunes(haystack []rune, needle string) int {
	n := []rune(strings.ToLower(strings.TrimSpace(needle)))
	if len(n) == 0 || len(n) > len(haystack) {
		return -1
	}
outer:
	for i := 0; i+len(n) <= len(haystack); i++ {
		for j := range n {
			if haystack[i+j] != n[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
