// Package query converts recruiter prompts into structured filters.
//
// Normalization is rule based. Numeric thresholds (experience, projects,
// GPA, hackathon wins), location and phrase constraints are each read by
// an ordered chain of Extractor strategies. Skills, roles and
// institutions come from the lexicon, and every role named in the prompt
// adds its core skills to the must-have set.
package query
