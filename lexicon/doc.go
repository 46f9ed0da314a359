// Package lexicon provides the static vocabularies used to understand
// resumes and recruiter prompts: hard and soft skills with their alias
// spellings, role tags and job title aliases, skill/role signal maps,
// elite institution variants with tier weights, degrees and majors.
//
// Matching is whole-word and case-insensitive. Every extraction method
// returns a sorted, deduplicated set of canonical labels; an absent
// label means "not detected", never "false".
//
// Tables are built once and never mutated:
//
//	lex := lexicon.Default()
//	skills := lex.ExtractSkills("MERN stack developer, 3 yrs with Node.js")
//	// [express mongodb node react]
package lexicon
