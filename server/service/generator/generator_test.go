package generator

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classwise/classwise/plugin/ai"
	serrors "github.com/classwise/classwise/server/internal/errors"
	"github.com/classwise/classwise/server/searchengine"
	"github.com/classwise/classwise/store"
)

type mockLLM struct {
	callCount  atomic.Int32
	lastPrompt string
	response   string
	err        error
}

func (m *mockLLM) Chat(_ context.Context, messages []ai.Message) (string, error) {
	m.callCount.Add(1)
	if len(messages) > 0 {
		m.lastPrompt = messages[len(messages)-1].Content
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

type mockEmbedder struct{}

func (*mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1}, nil
}

func (*mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1}
	}
	return vectors, nil
}

func (*mockEmbedder) Dimensions() int { return 1 }

type mockPlanKind struct {
	matches   []*store.DocumentMatch
	documents map[int32]*searchengine.Document
}

func (*mockPlanKind) Name() string             { return "lesson_plan" }
func (*mockPlanKind) Kind() store.DocumentKind { return store.DocumentKindLessonPlan }

func (m *mockPlanKind) VectorSearch(_ context.Context, _ []float32, _ searchengine.Scope, _ int) ([]*store.DocumentMatch, error) {
	return m.matches, nil
}

func (m *mockPlanKind) Hydrate(_ context.Context, _ searchengine.Scope, ids []int32) ([]*searchengine.Document, error) {
	documents := []*searchengine.Document{}
	for _, id := range ids {
		if document, ok := m.documents[id]; ok {
			documents = append(documents, document)
		}
	}
	return documents, nil
}

func (m *mockPlanKind) ListScoped(_ context.Context, _ searchengine.Scope) ([]*searchengine.Document, error) {
	return nil, nil
}

func newService(llm *mockLLM, kind searchengine.ContentKind) *Service {
	engine := searchengine.New(&mockEmbedder{}, nil)
	return New(engine, kind, llm, nil)
}

func TestGenerateLessonDraftWithReferences(t *testing.T) {
	llm := &mockLLM{response: "Objectives: ..."}
	kind := &mockPlanKind{
		matches: []*store.DocumentMatch{
			{DocumentID: 1, Score: 0.9},
			{DocumentID: 2, Score: 0.6}, // below the recommend threshold
		},
		documents: map[int32]*searchengine.Document{
			1: {ID: 1, Title: "Fractions warm-up", Snippet: "Compare halves and quarters."},
			2: {ID: 2, Title: "Decimals"},
		},
	}
	service := newService(llm, kind)

	draft, err := service.GenerateLessonDraft(context.Background(), &Request{
		Topic:   "Adding fractions",
		Grade:   "Grade 4",
		Subject: "Math",
	}, searchengine.Scope{OwnerID: 1})

	require.NoError(t, err)
	assert.Equal(t, "Objectives: ...", draft.Content)
	require.Len(t, draft.References, 1)
	assert.Equal(t, int32(1), draft.References[0].Document.ID)
	assert.True(t, strings.Contains(llm.lastPrompt, "Fractions warm-up"))
	assert.True(t, strings.Contains(llm.lastPrompt, "Adding fractions"))
}

func TestGenerateLessonDraftWithoutReferences(t *testing.T) {
	llm := &mockLLM{response: "draft"}
	service := newService(llm, &mockPlanKind{})

	draft, err := service.GenerateLessonDraft(context.Background(), &Request{Topic: "Photosynthesis"}, searchengine.Scope{OwnerID: 1})

	require.NoError(t, err)
	assert.Empty(t, draft.References)
	assert.False(t, strings.Contains(llm.lastPrompt, "related plans"))
}

func TestGenerateLessonDraftValidation(t *testing.T) {
	llm := &mockLLM{response: "draft"}
	service := newService(llm, &mockPlanKind{})

	_, err := service.GenerateLessonDraft(context.Background(), &Request{Topic: "  "}, searchengine.Scope{OwnerID: 1})
	require.Error(t, err)
	assert.True(t, serrors.IsCode(err, serrors.ErrCodeInvalidArgument))

	_, err = service.GenerateLessonDraft(context.Background(), &Request{Topic: "x"}, searchengine.Scope{})
	require.Error(t, err)
	assert.True(t, serrors.IsCode(err, serrors.ErrCodeUnauthorized))

	assert.Equal(t, int32(0), llm.callCount.Load())
}

func TestGenerateLessonDraftLLMFailure(t *testing.T) {
	llm := &mockLLM{err: errors.New("provider down")}
	service := newService(llm, &mockPlanKind{})

	_, err := service.GenerateLessonDraft(context.Background(), &Request{Topic: "x"}, searchengine.Scope{OwnerID: 1})
	require.Error(t, err)
	assert.True(t, serrors.IsCode(err, serrors.ErrCodeServiceUnavailable))
}

func TestGenerateLessonDraftWithoutLLM(t *testing.T) {
	engine := searchengine.New(nil, nil)
	service := New(engine, &mockPlanKind{}, nil, nil)

	_, err := service.GenerateLessonDraft(context.Background(), &Request{Topic: "x"}, searchengine.Scope{OwnerID: 1})
	require.Error(t, err)
	assert.True(t, serrors.IsCode(err, serrors.ErrCodeServiceUnavailable))
}
