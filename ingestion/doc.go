// Package ingestion turns resume text into stored, indexed candidates.
//
// ExtractCandidate derives a candidate's features from plain text: contact
// details, skills and roles from the lexicon, experience, projects, GPA,
// hackathon wins and activity scores. The Pipeline type runs extraction
// for a batch of documents, skips resumes whose text is already stored,
// embeds the rest in parallel batches on a worker pool, and appends the
// vectors to the index in the order the candidates were stored.
package ingestion
