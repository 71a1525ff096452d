// Package searchengine implements hybrid semantic search over a teacher's
// documents: exact title matches merged with vector similarity results, both
// scoped to the owner. Failures of the embedding provider or the vector index
// degrade to exact-match-only results; the public surface never returns an
// error to the caller.
package searchengine

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/classwise/classwise/plugin/ai"
	"github.com/classwise/classwise/plugin/ai/timeout"
	"github.com/classwise/classwise/plugin/richtext"
	"github.com/classwise/classwise/server/internal/errors"
	"github.com/classwise/classwise/server/internal/observability"
)

const (
	// SearchScoreThreshold is the minimum similarity for a semantic search
	// result. Candidates scoring at or below it are discarded.
	SearchScoreThreshold = 0.5

	// RecommendScoreThreshold is the stricter minimum for recommendations,
	// which are injected into generation prompts and must be high-confidence.
	RecommendScoreThreshold = 0.7

	// DefaultLimit is the result count when the caller does not specify one.
	DefaultLimit = 10

	// MaxLimit is the hard cap on the result count.
	MaxLimit = 20

	// RecommendLimit caps how many related documents a recommendation returns.
	RecommendLimit = 3

	// EmbedTextLimit is the maximum rune count of text sent to the embedding
	// provider.
	EmbedTextLimit = 1000
)

// Engine runs the hybrid search pipeline against any registered content kind.
type Engine struct {
	embedder ai.EmbeddingService
	logger   *slog.Logger
}

// New creates a search engine. The embedder may be nil when AI is disabled;
// searches then degrade to exact title matching.
func New(embedder ai.EmbeddingService, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{embedder: embedder, logger: logger}
}

// Search performs hybrid search: case-insensitive title matches first, then
// semantic results by descending similarity, deduplicated by document ID and
// truncated to the limit.
//
// Search never returns an error. A blank query or an unauthenticated scope
// yields an empty slice without touching the embedding provider; provider or
// index failures are logged and reduce the result to the exact-match portion.
func (e *Engine) Search(ctx context.Context, kind ContentKind, query string, scope Scope, limit int) []*ScoredDocument {
	if !scope.Valid() {
		return []*ScoredDocument{}
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []*ScoredDocument{}
	}
	limit = clampLimit(limit)

	exact, err := e.titleMatches(ctx, kind, query, scope)
	if err != nil {
		e.logDegraded(ctx, kind, "exact title match failed", err)
		exact = []*ScoredDocument{}
	}

	semantic, err := e.semanticSearch(ctx, kind, query, scope, limit, SearchScoreThreshold)
	if err != nil {
		e.logDegraded(ctx, kind, "semantic search degraded", err)
		semantic = []*ScoredDocument{}
	}

	return mergeResults(exact, semantic, limit)
}

// Recommend returns up to RecommendLimit documents strongly related to the
// given text, for use as references in generation prompts. Like Search it
// never returns an error; any failure yields an empty slice.
func (e *Engine) Recommend(ctx context.Context, kind ContentKind, text string, scope Scope) []*ScoredDocument {
	if !scope.Valid() {
		return []*ScoredDocument{}
	}
	if strings.TrimSpace(text) == "" {
		return []*ScoredDocument{}
	}

	results, err := e.semanticSearch(ctx, kind, text, scope, RecommendLimit, RecommendScoreThreshold)
	if err != nil {
		e.logDegraded(ctx, kind, "recommendation degraded", err)
		return []*ScoredDocument{}
	}
	return results
}

// semanticSearch is the internal pipeline: embed, index query, hydrate,
// threshold. It returns coded errors; the public methods convert them to
// empty results.
func (e *Engine) semanticSearch(ctx context.Context, kind ContentKind, query string, scope Scope, limit int, threshold float32) ([]*ScoredDocument, error) {
	if e.embedder == nil {
		return nil, errors.ServiceUnavailable("embedding service is not configured")
	}

	embedCtx, cancel := context.WithTimeout(ctx, timeout.EmbeddingTimeout)
	defer cancel()
	vector, err := e.embedder.Embed(embedCtx, richtext.Truncate(query, EmbedTextLimit))
	if err != nil {
		return nil, errors.EmbeddingFailed(err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, timeout.VectorSearchTimeout)
	defer cancel()
	matches, err := kind.VectorSearch(searchCtx, vector, scope, limit)
	if err != nil {
		return nil, errors.IndexUnavailable(err)
	}
	if len(matches) == 0 {
		return []*ScoredDocument{}, nil
	}

	ids := make([]int32, 0, len(matches))
	scores := make(map[int32]float32, len(matches))
	for _, match := range matches {
		ids = append(ids, match.DocumentID)
		scores[match.DocumentID] = match.Score
	}

	documents, err := kind.Hydrate(ctx, scope, ids)
	if err != nil {
		return nil, errors.HydrationFailed(err)
	}

	results := make([]*ScoredDocument, 0, len(documents))
	for _, document := range documents {
		score := scores[document.ID]
		if score <= threshold {
			continue
		}
		results = append(results, &ScoredDocument{Document: document, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// titleMatches lists the scoped documents and keeps those whose title
// contains the query, case-insensitively.
func (e *Engine) titleMatches(ctx context.Context, kind ContentKind, query string, scope Scope) ([]*ScoredDocument, error) {
	documents, err := kind.ListScoped(ctx, scope)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to list documents for title match")
	}

	needle := strings.ToLower(query)
	matches := []*ScoredDocument{}
	for _, document := range documents {
		if strings.Contains(strings.ToLower(document.Title), needle) {
			matches = append(matches, &ScoredDocument{
				Document:        document,
				Score:           1,
				ExactTitleMatch: true,
			})
		}
	}
	return matches, nil
}

func (e *Engine) logDegraded(ctx context.Context, kind ContentKind, msg string, err error) {
	code := errors.GetCodeFromError(err, errors.ErrCodeServiceUnavailable)
	if reqCtx, ok := observability.FromContext(ctx); ok {
		reqCtx.Warn(msg,
			slog.String("kind", kind.Name()),
			slog.String(observability.LogFieldErrorCode, string(code)),
			slog.String("error", err.Error()),
		)
		return
	}
	e.logger.Warn(msg,
		slog.String("kind", kind.Name()),
		slog.String(observability.LogFieldErrorCode, string(code)),
		slog.String("error", err.Error()),
	)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
