// Package reembed rebuilds the candidate vector index from the stored
// resumes, typically after the embedding model has changed.
//
// Candidates are read from the repository in ID order, embedded batch by
// batch with retry and optional rate limiting, and collected into a fresh
// index. The fresh index replaces the live one only once every candidate
// has been embedded, so a failed run leaves the previous index in place.
package reembed
