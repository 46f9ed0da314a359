package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/poiesic/hirex/ai"
	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/filter"
	"github.com/poiesic/hirex/index"
	"github.com/poiesic/hirex/lexicon"
	"github.com/poiesic/hirex/query"
	"github.com/poiesic/hirex/scoring"
	"github.com/poiesic/hirex/storage"
)

const (
	// DefaultTopK is the result count used when a request names none.
	DefaultTopK = 50

	// DefaultRetrievalDepth is the minimum number of index hits fetched
	// per query, so filtering has a pool to work with.
	DefaultRetrievalDepth = 200
)

// Request is a recruiter query.
type Request struct {
	Prompt string
	// TopK caps the number of results; zero or less means DefaultTopK.
	TopK int
	// Profile names a scoring profile; unknown names use the default.
	Profile string
	// CandidateIDs, when set, restricts ranking to these candidates.
	CandidateIDs []core.ID
}

// Item is one ranked candidate.
type Item struct {
	ID              core.ID           `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email,omitempty"`
	YearsExperience float64           `json:"years_experience"`
	Skills          []string          `json:"skills"`
	Institutions    []string          `json:"institutions"`
	Source          string            `json:"source,omitempty"`
	Score           float64           `json:"score"`
	Parts           scoring.Breakdown `json:"score_parts"`
	RoleBonus       float64           `json:"role_bonus"`
	MatchedSkills   []string          `json:"matched_skills"`
	RoleMatches     []string          `json:"role_matches,omitempty"`
	Reasons         []string          `json:"reasons"`
	Snippet         string            `json:"snippet"`
}

// Response is the ranked answer to a Request.
type Response struct {
	QueryID string                 `json:"query_id"`
	Query   string                 `json:"query"`
	Filters core.StructuredFilters `json:"filters"`
	Profile string                 `json:"profile"`
	// Semantic is false when the embedding proxy was used.
	Semantic bool   `json:"semantic"`
	Items    []Item `json:"items"`
	Total    int    `json:"total_returned"`
}

// Searcher ranks stored candidates against recruiter prompts.
type Searcher struct {
	repo       storage.CandidateRepository
	ix         *index.Index
	embedder   ai.Embedder
	normalizer *query.Normalizer
	scorer     *scoring.Scorer
	depth      int
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithRetrievalDepth sets the minimum number of index hits per query.
func WithRetrievalDepth(depth int) Option {
	return func(s *Searcher) error {
		if depth < 1 {
			return fmt.Errorf("retrieval depth must be positive, got %d", depth)
		}
		s.depth = depth
		return nil
	}
}

// WithLexicon sets the lexicon used for prompt normalization and
// institution tiers.
func WithLexicon(lex *lexicon.Lexicon) Option {
	return func(s *Searcher) error {
		s.normalizer = query.NewNormalizer(lex)
		s.scorer = scoring.NewScorer(lex)
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repo storage.CandidateRepository, ix *index.Index, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if ix == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repo:       repo,
		ix:         ix,
		embedder:   embedder,
		normalizer: query.NewNormalizer(nil),
		scorer:     scoring.NewScorer(nil),
		depth:      DefaultRetrievalDepth,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// Search ranks candidates for req.
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	return s.SearchWithMonitor(ctx, req, nil)
}

// SearchWithMonitor ranks candidates for req with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, req Request, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	profile := scoring.Resolve(req.Profile)

	queryID := uuid.NewString()
	logger := s.logger.With("query_id", queryID)
	monitor.Start(queryID, req.Prompt)

	// 1. Prompt to filters
	parsed := s.normalizer.Normalize(req.Prompt)
	logger.Debug("parsed prompt", "filters", parsed.Filters)
	monitor.AfterNormalize(parsed)

	// 2. Semantic retrieval
	hits, err := s.retrieve(ctx, req.Prompt, max(topK, s.depth), logger, monitor)
	if err != nil {
		return nil, err
	}
	semantic := make(map[core.ID]float64, len(hits))
	ids := make([]core.ID, 0, len(hits))
	for _, h := range hits {
		if _, ok := semantic[h.Entry.CandidateID]; ok {
			continue
		}
		semantic[h.Entry.CandidateID] = float64(h.Score)
		ids = append(ids, h.Entry.CandidateID)
	}

	// 3. Candidate pool; scan everything when retrieval found nothing
	var pool []*core.Candidate
	if len(ids) > 0 {
		pool, err = s.repo.GetCandidates(ctx, ids...)
	} else {
		pool, err = s.repo.ScanCandidates(ctx)
	}
	if err != nil {
		logger.Error("error retrieving candidates", "err", err)
		return nil, err
	}
	monitor.AfterCandidateRetrieval(pool)

	// 4. Optional subset restriction
	if len(req.CandidateIDs) > 0 {
		pool = restrict(pool, req.CandidateIDs)
	}

	// 5. Structured filters
	pool = filter.Apply(pool, parsed.Filters)
	monitor.AfterFilter(pool)

	// 6. Proxy similarity when retrieval produced no scores
	useProxy := len(semantic) == 0
	if useProxy {
		for _, c := range pool {
			semantic[c.Id] = scoring.ProxySemantic(parsed.Skills, c.Skills)
		}
	}

	// 7. Score and rank
	scored := make([]scoring.Scored, 0, len(pool))
	for _, c := range pool {
		sc := s.scorer.Score(c, profile, semantic[c.Id], parsed.Filters.RolesAnyOf)
		monitor.CandidateScored(sc)
		scored = append(scored, sc)
	}
	scored = scoring.Rank(scored, topK)

	resp := &Response{
		QueryID:  queryID,
		Query:    req.Prompt,
		Filters:  parsed.Filters,
		Profile:  profile.Name,
		Semantic: !useProxy,
		Items:    make([]Item, len(scored)),
		Total:    len(scored),
	}
	anchor := req.Prompt
	if parsed.Filters.ContainsPhrase != nil {
		anchor = *parsed.Filters.ContainsPhrase
	}
	for i, sc := range scored {
		resp.Items[i] = s.item(sc, parsed, anchor)
	}

	logger.Info("search complete", "profile", profile.Name, "hits", len(hits), "results", resp.Total, "proxy", useProxy)
	monitor.Finish(resp)
	return resp, nil
}

// retrieve embeds the prompt and searches the index. An embedding failure
// other than cancellation yields no hits so the caller falls back to a
// full scan.
func (s *Searcher) retrieve(ctx context.Context, prompt string, depth int, logger *slog.Logger, monitor SearchMonitor) ([]index.Hit, error) {
	if s.ix.Len() == 0 {
		monitor.AfterSemanticSearch(nil)
		return nil, nil
	}

	vec, err := s.embedder.EmbedText(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		logger.Warn("embedding failed, falling back to full scan", "err", err)
		monitor.EmbeddingFallback(err)
		return nil, nil
	}

	rows, err := s.ix.Search(ctx, [][]float32{ai.NormalizeVector(vec)}, depth)
	if err != nil {
		logger.Error("error searching index", "err", err)
		return nil, err
	}
	monitor.AfterSemanticSearch(rows[0])
	return rows[0], nil
}

func restrict(pool []*core.Candidate, allow []core.ID) []*core.Candidate {
	set := make(map[core.ID]struct{}, len(allow))
	for _, id := range allow {
		set[id] = struct{}{}
	}
	out := pool[:0:0]
	for _, c := range pool {
		if _, ok := set[c.Id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *Searcher) item(sc scoring.Scored, parsed query.Result, anchor string) Item {
	c := sc.Candidate
	f := parsed.Filters
	matched := core.Intersect(parsed.Skills, c.Skills)

	reasons := []string{
		fmt.Sprintf("score parts: semantic=%.3f exp=%.3f cgpa=%.3f college=%.3f extra=%.3f role_bonus=%.2f",
			sc.Parts.Semantic, sc.Parts.Experience, sc.Parts.GPA, sc.Parts.Institution, sc.Parts.Extracurricular, sc.Bonus),
		"skills match: " + orNone(matched),
	}
	if len(f.RolesAnyOf) > 0 {
		reasons = append(reasons, "role match: "+orNone(sc.RoleMatches))
	}
	if f.MinGPA != nil {
		found := "N/A"
		if c.GPA != nil {
			found = fmt.Sprintf("%g", *c.GPA)
		}
		reasons = append(reasons, fmt.Sprintf("CGPA needed >= %g, found %s", *f.MinGPA, found))
	}
	if f.MinProjects > 0 {
		reasons = append(reasons, fmt.Sprintf("projects needed >= %d, found %d", f.MinProjects, c.ProjectCount))
	}
	if f.MinHackathonWins > 0 {
		reasons = append(reasons, fmt.Sprintf("hackathon wins needed >= %d, found %d", f.MinHackathonWins, c.HackathonWins))
	}

	return Item{
		ID:              c.Id,
		Name:            c.Name,
		Email:           c.Email,
		YearsExperience: c.YearsExperience,
		Skills:          c.Skills,
		Institutions:    c.Institutions,
		Source:          c.Source,
		Score:           math.Round(sc.Score*10000) / 10000,
		Parts:           sc.Parts,
		RoleBonus:       sc.Bonus,
		MatchedSkills:   matched,
		RoleMatches:     sc.RoleMatches,
		Reasons:         reasons,
		Snippet:         snippet(c.Text, anchor, SnippetWindow),
	}
}

func orNone(labels []string) string {
	if len(labels) == 0 {
		return "none"
	}
	return strings.Join(labels, ", ")
}
