// Package indexer keeps document embeddings in sync with document content.
// Mutations enqueue a fire-and-forget reindex job that re-reads the current
// document state, so a burst of edits converges on the latest version. A
// periodic backfill runner sweeps documents whose embedding is missing or
// stale, giving at-least-once coverage even when jobs are lost.
package indexer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/classwise/classwise/plugin/ai"
	"github.com/classwise/classwise/plugin/ai/timeout"
	"github.com/classwise/classwise/plugin/richtext"
	"github.com/classwise/classwise/store"
)

const (
	// embedTextLimit is the maximum rune count of text sent to the embedding
	// provider per document.
	embedTextLimit = 1000

	// mutationDebounce delays reindex jobs so rapid successive edits to the
	// same document collapse into fewer embedding calls.
	mutationDebounce = 2 * time.Second
)

// Indexer computes and stores document embeddings.
type Indexer struct {
	store    *store.Store
	embedder ai.EmbeddingService
	model    string
	queue    TaskQueue
	logger   *slog.Logger
}

// New creates an indexer. The embedder may be nil when AI is disabled; all
// mutations are then ignored.
func New(s *store.Store, embedder ai.EmbeddingService, model string, queue TaskQueue, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		store:    s,
		embedder: embedder,
		model:    model,
		queue:    queue,
		logger:   logger,
	}
}

// Model returns the embedding model the indexer writes under.
func (in *Indexer) Model() string {
	return in.model
}

// OnMutate schedules a reindex of the document. It returns immediately; the
// job re-fetches the document when it runs, so it always embeds the state
// current at execution time, not at enqueue time. Failures are logged and the
// previously stored embedding, if any, stays in place.
func (in *Indexer) OnMutate(kind store.DocumentKind, documentID int32) {
	if in.embedder == nil {
		return
	}
	in.queue.Enqueue(func(ctx context.Context) {
		if err := in.Reindex(ctx, kind, documentID); err != nil {
			in.logger.Error("reindex failed",
				slog.String("document_kind", kind.String()),
				slog.Int64("document_id", int64(documentID)),
				slog.String("error", err.Error()),
			)
		}
	}, mutationDebounce)
}

// Reindex recomputes the embedding for one document synchronously. A document
// that no longer exists, is archived or has no text is skipped without error.
func (in *Indexer) Reindex(ctx context.Context, kind store.DocumentKind, documentID int32) error {
	text, err := in.buildDocumentText(ctx, kind, documentID)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, timeout.EmbeddingTimeout)
	defer cancel()
	vector, err := in.embedder.Embed(embedCtx, text)
	if err != nil {
		return err
	}

	_, err = in.store.UpsertDocumentEmbedding(ctx, &store.DocumentEmbedding{
		DocumentKind: kind,
		DocumentID:   documentID,
		Embedding:    vector,
		Model:        in.model,
	})
	return err
}

func (in *Indexer) buildDocumentText(ctx context.Context, kind store.DocumentKind, documentID int32) (string, error) {
	normal := store.Normal
	switch kind {
	case store.DocumentKindLessonPlan:
		plan, err := in.store.GetLessonPlan(ctx, &store.FindLessonPlan{ID: &documentID, RowStatus: &normal})
		if err != nil {
			return "", err
		}
		if plan == nil {
			return "", nil
		}
		return BuildPlanEmbeddingText(plan), nil
	case store.DocumentKindLessonNote:
		note, err := in.store.GetLessonNote(ctx, &store.FindLessonNote{ID: &documentID, RowStatus: &normal})
		if err != nil {
			return "", err
		}
		if note == nil {
			return "", nil
		}
		planTitle := ""
		plan, err := in.store.GetLessonPlan(ctx, &store.FindLessonPlan{ID: &note.LessonPlanID})
		if err != nil {
			return "", err
		}
		if plan != nil {
			planTitle = plan.Title
		}
		return BuildNoteEmbeddingText(note, planTitle), nil
	default:
		return "", nil
	}
}

// BuildPlanEmbeddingText flattens a lesson plan to the text that gets
// embedded: the title followed by the plain-text content, truncated.
func BuildPlanEmbeddingText(plan *store.LessonPlan) string {
	return buildEmbeddingText(plan.Title, plan.Content)
}

// BuildNoteEmbeddingText flattens a lesson note. The parent plan's title is
// prefixed so notes embed with their plan's context.
func BuildNoteEmbeddingText(note *store.LessonNote, planTitle string) string {
	if planTitle == "" {
		return buildEmbeddingText(note.Title, note.Content)
	}
	return richtext.Truncate(planTitle+"\n"+buildEmbeddingText(note.Title, note.Content), embedTextLimit)
}

func buildEmbeddingText(title, content string) string {
	parts := []string{}
	if title = strings.TrimSpace(title); title != "" {
		parts = append(parts, title)
	}
	if document, err := richtext.Parse(content); err == nil {
		if text := document.PlainText(); text != "" {
			parts = append(parts, text)
		}
	}
	return richtext.Truncate(strings.Join(parts, "\n"), embedTextLimit)
}
