package search

import (
	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/index"
	"github.com/poiesic/hirex/query"
	"github.com/poiesic/hirex/scoring"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(queryID, prompt string)
	AfterNormalize(result query.Result)
	EmbeddingFallback(err error)
	AfterSemanticSearch(hits []index.Hit)
	AfterCandidateRetrieval(candidates []*core.Candidate)
	AfterFilter(candidates []*core.Candidate)
	CandidateScored(scored scoring.Scored)
	Finish(resp *Response)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                          {}
func (n *noopMonitor) AfterNormalize(_ query.Result)              {}
func (n *noopMonitor) EmbeddingFallback(_ error)                  {}
func (n *noopMonitor) AfterSemanticSearch(_ []index.Hit)          {}
func (n *noopMonitor) AfterCandidateRetrieval(_ []*core.Candidate) {}
func (n *noopMonitor) AfterFilter(_ []*core.Candidate)            {}
func (n *noopMonitor) CandidateScored(_ scoring.Scored)           {}
func (n *noopMonitor) Finish(_ *Response)                         {}
