package indexer

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classwise/classwise/store"
)

type mockEmbedder struct {
	callCount atomic.Int32
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.callCount.Add(1)
	return []float32{0.1, 0.2}, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.callCount.Add(1)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int {
	return 2
}

type mockQueue struct {
	enqueued  atomic.Int32
	lastDelay time.Duration
	runNow    bool
}

func (q *mockQueue) Enqueue(task Task, delay time.Duration) {
	q.enqueued.Add(1)
	q.lastDelay = delay
	if q.runNow {
		task(context.Background())
	}
}

func (q *mockQueue) Shutdown() {}

func paragraphContent(text string) string {
	return `{"blocks":[{"type":"paragraph","runs":[{"text":"` + text + `"}]}]}`
}

func TestOnMutateDisabledWithoutEmbedder(t *testing.T) {
	queue := &mockQueue{}
	in := New(&store.Store{}, nil, "text-embedding-3-small", queue, nil)

	in.OnMutate(store.DocumentKindLessonPlan, 1)

	assert.Equal(t, int32(0), queue.enqueued.Load())
}

func TestOnMutateEnqueuesDebouncedJob(t *testing.T) {
	queue := &mockQueue{}
	in := New(&store.Store{}, &mockEmbedder{}, "text-embedding-3-small", queue, nil)

	in.OnMutate(store.DocumentKindLessonPlan, 1)
	in.OnMutate(store.DocumentKindLessonNote, 2)

	assert.Equal(t, int32(2), queue.enqueued.Load())
	assert.Equal(t, mutationDebounce, queue.lastDelay)
}

func TestBuildPlanEmbeddingText(t *testing.T) {
	plan := &store.LessonPlan{
		Title:   "Fractions",
		Content: paragraphContent("Compare fractions with unlike denominators."),
	}

	text := BuildPlanEmbeddingText(plan)

	assert.Equal(t, "Fractions\nCompare fractions with unlike denominators.", text)
}

func TestBuildPlanEmbeddingTextEmptyContent(t *testing.T) {
	plan := &store.LessonPlan{Title: "Fractions"}
	assert.Equal(t, "Fractions", BuildPlanEmbeddingText(plan))

	blank := &store.LessonPlan{}
	assert.Equal(t, "", BuildPlanEmbeddingText(blank))
}

func TestBuildNoteEmbeddingTextPrefixesPlanTitle(t *testing.T) {
	note := &store.LessonNote{
		Title:   "Day 2 reflections",
		Content: paragraphContent("Most students struggled with mixed numbers."),
	}

	text := BuildNoteEmbeddingText(note, "Fractions")
	assert.Equal(t, "Fractions\nDay 2 reflections\nMost students struggled with mixed numbers.", text)

	// Orphaned notes embed without a prefix.
	text = BuildNoteEmbeddingText(note, "")
	assert.Equal(t, "Day 2 reflections\nMost students struggled with mixed numbers.", text)
}

func TestBuildEmbeddingTextTruncates(t *testing.T) {
	plan := &store.LessonPlan{
		Title:   "Long plan",
		Content: paragraphContent(strings.Repeat("a", 5000)),
	}

	text := BuildPlanEmbeddingText(plan)

	require.Equal(t, embedTextLimit, len([]rune(text)))
	assert.True(t, strings.HasPrefix(text, "Long plan\n"))
}

func TestInProcessQueueRunsTasks(t *testing.T) {
	queue := NewInProcessQueue(2, nil)
	defer queue.Shutdown()

	var ran atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		queue.Enqueue(func(_ context.Context) {
			if ran.Add(1) == 5 {
				close(done)
			}
		}, 0)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not finish")
	}
	assert.Equal(t, int32(5), ran.Load())
}

func TestInProcessQueueShutdownCancelsDelayedTasks(t *testing.T) {
	queue := NewInProcessQueue(1, nil)

	var ran atomic.Int32
	queue.Enqueue(func(_ context.Context) {
		ran.Add(1)
	}, time.Hour)

	queue.Shutdown()

	assert.Equal(t, int32(0), ran.Load())
}

func TestInProcessQueueRecoversPanics(t *testing.T) {
	queue := NewInProcessQueue(1, nil)

	done := make(chan struct{})
	queue.Enqueue(func(_ context.Context) {
		defer close(done)
		panic("boom")
	}, 0)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
	// Shutdown must not hang after a panicked task.
	queue.Shutdown()
}
