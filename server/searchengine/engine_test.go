package searchengine

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/classwise/classwise/store"
)

type mockEmbedder struct {
	embedCalls atomic.Int32
	vector     []float32
	err        error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.embedCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.embedCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = m.vector
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int {
	return len(m.vector)
}

type mockKind struct {
	matches     []*store.DocumentMatch
	documents   map[int32]*Document
	scoped      []*Document
	searchErr   error
	hydrateErr  error
	listErr     error
	searchCalls atomic.Int32
	lastLimit   atomic.Int32
}

func (*mockKind) Name() string             { return "lesson_plan" }
func (*mockKind) Kind() store.DocumentKind { return store.DocumentKindLessonPlan }

func (m *mockKind) VectorSearch(_ context.Context, _ []float32, _ Scope, limit int) ([]*store.DocumentMatch, error) {
	m.searchCalls.Add(1)
	m.lastLimit.Store(int32(limit))
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.matches, nil
}

func (m *mockKind) Hydrate(_ context.Context, _ Scope, ids []int32) ([]*Document, error) {
	if m.hydrateErr != nil {
		return nil, m.hydrateErr
	}
	documents := []*Document{}
	for _, id := range ids {
		if document, ok := m.documents[id]; ok {
			documents = append(documents, document)
		}
	}
	return documents, nil
}

func (m *mockKind) ListScoped(_ context.Context, _ Scope) ([]*Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.scoped, nil
}

// ownerScopedKind applies the scope's owner filter the way the real drivers
// do, for exercising owner isolation end to end.
type ownerScopedKind struct {
	matches   map[int32][]*store.DocumentMatch
	documents map[int32][]*Document
}

func (*ownerScopedKind) Name() string             { return "lesson_plan" }
func (*ownerScopedKind) Kind() store.DocumentKind { return store.DocumentKindLessonPlan }

func (k *ownerScopedKind) VectorSearch(_ context.Context, _ []float32, scope Scope, _ int) ([]*store.DocumentMatch, error) {
	return k.matches[scope.OwnerID], nil
}

func (k *ownerScopedKind) Hydrate(_ context.Context, scope Scope, ids []int32) ([]*Document, error) {
	documents := []*Document{}
	for _, id := range ids {
		for _, document := range k.documents[scope.OwnerID] {
			if document.ID == id {
				documents = append(documents, document)
			}
		}
	}
	return documents, nil
}

func (k *ownerScopedKind) ListScoped(_ context.Context, scope Scope) ([]*Document, error) {
	return k.documents[scope.OwnerID], nil
}

func planDocument(id int32, title string) *Document {
	return &Document{
		ID:    id,
		UID:   fmt.Sprintf("plan-%d", id),
		Kind:  store.DocumentKindLessonPlan,
		Title: title,
	}
}

func TestSearchBlankQuerySkipsEmbedding(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	engine := New(embedder, nil)
	kind := &mockKind{}

	for _, query := range []string{"", "   ", "\t\n"} {
		results := engine.Search(context.Background(), kind, query, Scope{OwnerID: 1}, 10)
		require.Empty(t, results)
	}
	require.Equal(t, int32(0), embedder.embedCalls.Load())
	require.Equal(t, int32(0), kind.searchCalls.Load())
}

func TestSearchUnauthenticatedScope(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	engine := New(embedder, nil)
	kind := &mockKind{}

	for _, ownerID := range []int32{0, -1} {
		results := engine.Search(context.Background(), kind, "fractions", Scope{OwnerID: ownerID}, 10)
		require.Empty(t, results)
	}
	require.Equal(t, int32(0), embedder.embedCalls.Load())
}

func TestSearchScoreThreshold(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	engine := New(embedder, nil)
	kind := &mockKind{
		matches: []*store.DocumentMatch{
			{DocumentID: 1, Score: 0.9},
			{DocumentID: 2, Score: 0.51},
			{DocumentID: 3, Score: 0.5},
			{DocumentID: 4, Score: 0.2},
		},
		documents: map[int32]*Document{
			1: planDocument(1, "Fractions intro"),
			2: planDocument(2, "Fractions practice"),
			3: planDocument(3, "Decimals"),
			4: planDocument(4, "Geometry"),
		},
	}

	results := engine.Search(context.Background(), kind, "fractions lesson", Scope{OwnerID: 1}, 10)

	require.Len(t, results, 2)
	require.Equal(t, int32(1), results[0].Document.ID)
	require.Equal(t, int32(2), results[1].Document.ID)
	// Scores at exactly the threshold are discarded.
	for _, result := range results {
		require.Greater(t, result.Score, float32(SearchScoreThreshold))
	}
}

func TestSearchResultsSortedByScore(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	engine := New(embedder, nil)
	kind := &mockKind{
		matches: []*store.DocumentMatch{
			{DocumentID: 1, Score: 0.6},
			{DocumentID: 2, Score: 0.9},
			{DocumentID: 3, Score: 0.7},
		},
		documents: map[int32]*Document{
			1: planDocument(1, "a"),
			2: planDocument(2, "b"),
			3: planDocument(3, "c"),
		},
	}

	results := engine.Search(context.Background(), kind, "query", Scope{OwnerID: 1}, 10)

	require.Len(t, results, 3)
	require.Equal(t, int32(2), results[0].Document.ID)
	require.Equal(t, int32(3), results[1].Document.ID)
	require.Equal(t, int32(1), results[2].Document.ID)
}

func TestSearchLimitClamp(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	engine := New(embedder, nil)
	kind := &mockKind{}

	engine.Search(context.Background(), kind, "query", Scope{OwnerID: 1}, 0)
	require.Equal(t, int32(DefaultLimit), kind.lastLimit.Load())

	engine.Search(context.Background(), kind, "query", Scope{OwnerID: 1}, 100)
	require.Equal(t, int32(MaxLimit), kind.lastLimit.Load())
}

func TestSearchHydrationDropsMissingDocuments(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	engine := New(embedder, nil)
	kind := &mockKind{
		matches: []*store.DocumentMatch{
			{DocumentID: 1, Score: 0.9},
			{DocumentID: 2, Score: 0.8}, // deleted since indexing
		},
		documents: map[int32]*Document{
			1: planDocument(1, "Fractions intro"),
		},
	}

	results := engine.Search(context.Background(), kind, "fractions", Scope{OwnerID: 1}, 10)

	require.Len(t, results, 1)
	require.Equal(t, int32(1), results[0].Document.ID)
}

func TestSearchTitleMatchFirst(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	engine := New(embedder, nil)
	kind := &mockKind{
		matches: []*store.DocumentMatch{
			{DocumentID: 2, Score: 0.95},
			{DocumentID: 1, Score: 0.8},
		},
		documents: map[int32]*Document{
			1: planDocument(1, "Fractions Intro"),
			2: planDocument(2, "Comparing quantities"),
		},
		scoped: []*Document{
			planDocument(1, "Fractions Intro"),
			planDocument(2, "Comparing quantities"),
			planDocument(3, "Decimals"),
		},
	}

	results := engine.Search(context.Background(), kind, "FRACTIONS", Scope{OwnerID: 1}, 10)

	// Title match leads despite the lower similarity score, and appears once.
	require.Len(t, results, 2)
	require.Equal(t, int32(1), results[0].Document.ID)
	require.True(t, results[0].ExactTitleMatch)
	require.Equal(t, int32(2), results[1].Document.ID)
	require.False(t, results[1].ExactTitleMatch)
}

func TestSearchTitleSubstringMatch(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	engine := New(embedder, nil)
	kind := &mockKind{
		scoped: []*Document{
			planDocument(1, "Fractions Intro"),
			planDocument(2, "Review: fractions and decimals"),
			planDocument(3, "Geometry"),
		},
	}

	results := engine.Search(context.Background(), kind, "fractions", Scope{OwnerID: 1}, 10)

	require.Len(t, results, 2)
	require.Equal(t, int32(1), results[0].Document.ID)
	require.Equal(t, int32(2), results[1].Document.ID)
	for _, result := range results {
		require.True(t, result.ExactTitleMatch)
	}
}

func TestSearchDegradesOnEmbedderFailure(t *testing.T) {
	embedder := &mockEmbedder{err: errors.New("provider timeout")}
	engine := New(embedder, nil)
	kind := &mockKind{
		scoped: []*Document{
			planDocument(1, "Fractions"),
		},
	}

	results := engine.Search(context.Background(), kind, "Fractions", Scope{OwnerID: 1}, 10)

	// Semantic leg is lost but exact title matching still works.
	require.Len(t, results, 1)
	require.True(t, results[0].ExactTitleMatch)
}

func TestSearchDegradesOnIndexFailure(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	engine := New(embedder, nil)
	kind := &mockKind{searchErr: errors.New("vector search requires PostgreSQL with pgvector")}

	results := engine.Search(context.Background(), kind, "fractions", Scope{OwnerID: 1}, 10)
	require.Empty(t, results)
}

func TestSearchWithoutEmbedder(t *testing.T) {
	engine := New(nil, nil)
	kind := &mockKind{
		scoped: []*Document{planDocument(1, "Fractions")},
	}

	results := engine.Search(context.Background(), kind, "fractions", Scope{OwnerID: 1}, 10)
	require.Len(t, results, 1)
	require.True(t, results[0].ExactTitleMatch)
}

func TestSearchOwnerIsolation(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	engine := New(embedder, nil)
	// Two owners each hold a document with the same title.
	kind := &ownerScopedKind{
		matches: map[int32][]*store.DocumentMatch{
			1: {{DocumentID: 1, Score: 0.9}},
			2: {{DocumentID: 2, Score: 0.9}},
		},
		documents: map[int32][]*Document{
			1: {planDocument(1, "Fractions Intro")},
			2: {planDocument(2, "Fractions Intro")},
		},
	}

	for owner, want := range map[int32]int32{1: 1, 2: 2} {
		results := engine.Search(context.Background(), kind, "fractions intro", Scope{OwnerID: owner}, 10)
		require.Len(t, results, 1)
		require.Equal(t, want, results[0].Document.ID)
	}
}

func TestRecommendThresholdAndLimit(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	engine := New(embedder, nil)
	kind := &mockKind{
		matches: []*store.DocumentMatch{
			{DocumentID: 1, Score: 0.95},
			{DocumentID: 2, Score: 0.9},
			{DocumentID: 3, Score: 0.85},
			{DocumentID: 4, Score: 0.8},
			{DocumentID: 5, Score: 0.65}, // below the recommend threshold
		},
		documents: map[int32]*Document{
			1: planDocument(1, "a"),
			2: planDocument(2, "b"),
			3: planDocument(3, "c"),
			4: planDocument(4, "d"),
			5: planDocument(5, "e"),
		},
	}

	results := engine.Recommend(context.Background(), kind, "photosynthesis unit", Scope{OwnerID: 1})

	require.Len(t, results, RecommendLimit)
	for _, result := range results {
		require.Greater(t, result.Score, float32(RecommendScoreThreshold))
	}
}

func TestRecommendDegradesToEmpty(t *testing.T) {
	embedder := &mockEmbedder{err: errors.New("provider down")}
	engine := New(embedder, nil)
	kind := &mockKind{}

	results := engine.Recommend(context.Background(), kind, "photosynthesis", Scope{OwnerID: 1})
	require.Empty(t, results)
	require.Empty(t, engine.Recommend(context.Background(), kind, "  ", Scope{OwnerID: 1}))
}

func TestMergeResultsTruncates(t *testing.T) {
	exact := []*ScoredDocument{
		{Document: planDocument(1, "a"), Score: 1, ExactTitleMatch: true},
	}
	semantic := []*ScoredDocument{
		{Document: planDocument(2, "b"), Score: 0.9},
		{Document: planDocument(3, "c"), Score: 0.8},
	}

	merged := mergeResults(exact, semantic, 2)
	require.Len(t, merged, 2)
	require.Equal(t, int32(1), merged[0].Document.ID)
	require.Equal(t, int32(2), merged[1].Document.ID)
}
